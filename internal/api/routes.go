// Package api is the HTTP gateway: it mounts every tool service under
// /api/v1/{service} for capability listing and invocation, plus health and
// Prometheus scrape endpoints.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/tool"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/metrics"
)

// Service is one mounted tool service. The registry must be fully populated
// before the router is built.
type Service struct {
	Name     string
	Registry *tool.Registry
}

type gateway struct {
	services map[string]*serviceHandler
	metrics  *metrics.Metrics
}

type serviceHandler struct {
	name       string
	registry   *tool.Registry
	dispatcher *tool.Dispatcher
}

// NewRouter creates the chi router for the given services.
func NewRouter(services []Service, m *metrics.Metrics) *chi.Mux {
	g := &gateway{
		services: make(map[string]*serviceHandler, len(services)),
		metrics:  m,
	}
	for _, svc := range services {
		g.services[svc.Name] = &serviceHandler{
			name:       svc.Name,
			registry:   svc.Registry,
			dispatcher: tool.NewDispatcher(svc.Registry),
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1/{service}", func(r chi.Router) {
		r.Get("/tools", g.listTools)
		r.Post("/tools/{name}", g.callTool)
	})

	return r
}

func (g *gateway) resolveService(w http.ResponseWriter, r *http.Request) *serviceHandler {
	name := chi.URLParam(r, "service")
	svc, ok := g.services[name]
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown service: "+name)
		return nil
	}
	return svc
}

// listTools advertises the service's descriptors with their projected JSON
// schemas, in registration order.
func (g *gateway) listTools(w http.ResponseWriter, r *http.Request) {
	svc := g.resolveService(w, r)
	if svc == nil {
		return
	}

	descs := svc.registry.List()
	tools := make([]map[string]any, 0, len(descs))
	for _, desc := range descs {
		tools = append(tools, map[string]any{
			"name":         desc.Name,
			"description":  desc.Description,
			"input_schema": desc.Schema.JSONSchema(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service": svc.name,
		"count":   len(tools),
		"tools":   tools,
	})
}

// callTool invokes one tool with the request body as arguments. Unknown
// tools map to 404 and validation rejections to 400; domain failures and
// successes are both 200 with the structured payload.
func (g *gateway) callTool(w http.ResponseWriter, r *http.Request) {
	svc := g.resolveService(w, r)
	if svc == nil {
		return
	}
	toolName := chi.URLParam(r, "name")

	args, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "read request body: "+err.Error())
		return
	}
	if len(args) > 0 && !json.Valid(args) {
		writeJSONError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}

	start := time.Now()
	res := svc.dispatcher.Dispatch(r.Context(), toolName, args)
	g.metrics.ObserveToolCall(svc.name, toolName, outcomeFor(res), time.Since(start))

	status := http.StatusOK
	switch {
	case errors.Is(res.Err, tool.ErrUnknownTool):
		status = http.StatusNotFound
	case res.Rejected():
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(res.Body)) //nolint:errcheck
}

func outcomeFor(res tool.Result) string {
	switch {
	case res.Rejected():
		return metrics.OutcomeRejected
	case res.IsError:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeOK
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
