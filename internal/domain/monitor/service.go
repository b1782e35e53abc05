// Package monitor provides the system-monitoring service: health checks,
// simulated metrics and logs, ping, and status-derived alerts for a fixed
// fleet of infrastructure systems.
package monitor

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/record"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/tool"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/eventbus"
)

// ServerName is the protocol-visible name of this service.
const ServerName = "system-monitoring"

var (
	statusValues   = []string{"healthy", "warning", "critical", "unknown"}
	locationValues = []string{"Data Center A", "Data Center B"}
	metricTypes    = []string{"cpu", "memory", "disk", "network", "all"}
	logLevels      = []string{"error", "warning", "info", "all"}
	severityValues = []string{"critical", "warning", "info"}
)

// Service owns the system store and the simulators behind the monitoring
// tools. The random source is injected so tests can seed it.
type Service struct {
	store *record.Store
	rng   *rand.Rand
	now   func() time.Time
}

func storeConfig() record.Config {
	return record.Config{
		Kind:           "system",
		IDField:        "name",
		TimestampField: "last_check",
	}
}

// New creates a monitoring service with a time-seeded random source.
func New(db *sql.DB) *Service {
	return NewWithOptions(db, nil, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewWithOptions wires explicit collaborators: an optional event bus, the
// random source for simulated metrics, and the clock.
func NewWithOptions(db *sql.DB, bus eventbus.EventBus, rng *rand.Rand, now func() time.Time) *Service {
	var store *record.Store
	if bus != nil {
		store = record.NewWithBus(db, storeConfig(), bus)
	} else {
		store = record.New(db, storeConfig())
	}
	return &Service{store: store, rng: rng, now: now}
}

// Seed loads the built-in systems. Called once at startup.
func (s *Service) Seed(ctx context.Context) error {
	for _, system := range SeedSystems(s.now()) {
		if _, err := s.store.Insert(ctx, system); err != nil {
			return fmt.Errorf("seed systems: %w", err)
		}
	}
	return nil
}

// RegisterTools binds the monitoring tools into the registry.
func (s *Service) RegisterTools(r *tool.Registry) error {
	tools := []struct {
		desc    tool.Descriptor
		handler tool.Handler
	}{
		{
			desc: tool.Descriptor{
				Name:        "check_system_health",
				Description: "Check the health status of a specific system",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"system_name": {Type: tool.TypeString, Description: "Name of the system to check (e.g., web-server-01)"},
					},
					FieldOrder: []string{"system_name"},
					Required:   []string{"system_name"},
				},
			},
			handler: s.checkSystemHealth,
		},
		{
			desc: tool.Descriptor{
				Name:        "list_all_systems",
				Description: "List all monitored systems with their current status",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"status_filter": {Type: tool.TypeString, Description: "Filter by status", Enum: statusValues},
						"location":      {Type: tool.TypeString, Description: "Filter by location", Enum: locationValues},
					},
					FieldOrder: []string{"status_filter", "location"},
				},
			},
			handler: s.listAllSystems,
		},
		{
			desc: tool.Descriptor{
				Name:        "get_system_metrics",
				Description: "Get detailed performance metrics for a system",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"system_name": {Type: tool.TypeString, Description: "Name of the system"},
						"metric_type": {Type: tool.TypeString, Description: "Type of metrics to retrieve", Enum: metricTypes, Default: "all"},
					},
					FieldOrder: []string{"system_name", "metric_type"},
					Required:   []string{"system_name"},
				},
			},
			handler: s.getSystemMetrics,
		},
		{
			desc: tool.Descriptor{
				Name:        "ping_system",
				Description: "Ping a system to check network connectivity",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"system_name": {Type: tool.TypeString, Description: "Name of the system to ping"},
					},
					FieldOrder: []string{"system_name"},
					Required:   []string{"system_name"},
				},
			},
			handler: s.pingSystem,
		},
		{
			desc: tool.Descriptor{
				Name:        "get_system_logs",
				Description: "Retrieve recent system logs for troubleshooting",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"system_name": {Type: tool.TypeString, Description: "Name of the system"},
						"log_level":   {Type: tool.TypeString, Description: "Filter logs by level", Enum: logLevels, Default: "all"},
						"limit":       {Type: tool.TypeInteger, Description: "Number of log entries to return", Default: 10},
					},
					FieldOrder: []string{"system_name", "log_level", "limit"},
					Required:   []string{"system_name"},
				},
			},
			handler: s.getSystemLogs,
		},
		{
			desc: tool.Descriptor{
				Name:        "get_alerts",
				Description: "Get current active alerts across all systems",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"severity": {Type: tool.TypeString, Description: "Filter by severity", Enum: severityValues},
					},
					FieldOrder: []string{"severity"},
				},
			},
			handler: s.getAlerts,
		},
	}

	for _, tl := range tools {
		if err := r.Register(tl.desc, tl.handler); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) checkSystemHealth(ctx context.Context, args map[string]any) (any, error) {
	name, _ := args["system_name"].(string)

	// An empty update still refreshes last_check, which is the point of a
	// health check.
	return s.store.Update(ctx, name, nil)
}

func (s *Service) listAllSystems(ctx context.Context, args map[string]any) (any, error) {
	filters := map[string]string{}
	if status, ok := args["status_filter"].(string); ok && status != "" {
		filters["status"] = status
	}
	if location, ok := args["location"].(string); ok && location != "" {
		filters["location"] = location
	}

	systems, err := s.store.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	summaries := make([]map[string]any, 0, len(systems))
	for _, sys := range systems {
		summaries = append(summaries, map[string]any{
			"name":        sys.String("name"),
			"type":        sys.String("type"),
			"location":    sys.String("location"),
			"status":      sys.String("status"),
			"uptime_days": sys.Number("uptime_days"),
		})
	}

	return map[string]any{
		"count":   len(summaries),
		"systems": summaries,
	}, nil
}

func (s *Service) getSystemMetrics(ctx context.Context, args map[string]any) (any, error) {
	name, _ := args["system_name"].(string)
	metricType, _ := args["metric_type"].(string)

	system, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	metrics := generateMetrics(s.rng, system)
	if metricType != "" && metricType != "all" {
		metrics = map[string]any{metricType: metrics[metricType]}
	}

	return map[string]any{
		"system":    name,
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"metrics":   metrics,
	}, nil
}

func (s *Service) pingSystem(ctx context.Context, args map[string]any) (any, error) {
	name, _ := args["system_name"].(string)

	system, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	// Critical systems do not answer.
	reachable := system.String("status") != "critical"
	var responseTime any
	if reachable {
		responseTime = s.rng.Intn(50) + 1
	}

	return map[string]any{
		"system":           name,
		"ip":               system.String("ip"),
		"reachable":        reachable,
		"response_time_ms": responseTime,
		"timestamp":        s.now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *Service) getSystemLogs(ctx context.Context, args map[string]any) (any, error) {
	name, _ := args["system_name"].(string)
	level, _ := args["log_level"].(string)
	limit, _ := args["limit"].(int)

	system, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	logs := generateLogs(system, s.now(), level, limit)

	return map[string]any{
		"system":    name,
		"log_level": level,
		"count":     len(logs),
		"logs":      logs,
	}, nil
}

func (s *Service) getAlerts(ctx context.Context, args map[string]any) (any, error) {
	severity, _ := args["severity"].(string)

	systems, err := s.store.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	alerts := make([]map[string]any, 0)
	for _, sys := range systems {
		var alertSeverity, message string
		switch sys.String("status") {
		case "critical":
			alertSeverity = "critical"
			message = firstOr(sys.Strings("errors"), "Critical system failure")
		case "warning":
			alertSeverity = "warning"
			message = firstOr(sys.Strings("warnings"), "System warning")
		default:
			continue
		}
		if severity != "" && alertSeverity != severity {
			continue
		}
		alerts = append(alerts, map[string]any{
			"system":    sys.String("name"),
			"severity":  alertSeverity,
			"message":   message,
			"timestamp": sys.String("last_check"),
		})
	}

	return map[string]any{
		"count":  len(alerts),
		"alerts": alerts,
	}, nil
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
