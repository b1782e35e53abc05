package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Result is the encoded outcome of one dispatched call. Body is always a
// well-formed JSON document; IsError marks rejections and domain failures.
// Err keeps the underlying error so transports can distinguish validation
// rejections from domain failures. Exactly one Result is produced per
// dispatched request.
type Result struct {
	Body    string
	IsError bool
	Err     error
}

// Rejected reports whether the request never reached its handler: the tool
// is unknown or the arguments failed validation.
func (r Result) Rejected() bool {
	return errors.Is(r.Err, ErrUnknownTool) ||
		errors.Is(r.Err, ErrMissingArgument) ||
		errors.Is(r.Err, ErrInvalidArgumentType) ||
		errors.Is(r.Err, ErrInvalidEnumValue)
}

// Dispatcher routes a request to its registered handler. Each request moves
// through received, validated, executed and encoded; a validation failure
// rejects the request before any handler runs, and a handler error still
// yields a structured error body rather than a transport failure.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch resolves name, validates args against the tool's schema, runs the
// handler, and encodes the outcome. rawArgs may be nil or empty for tools
// without required fields.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, rawArgs json.RawMessage) Result {
	// received: resolve the operation.
	desc, handler, err := d.registry.Resolve(name)
	if err != nil {
		return errorResult(err)
	}

	args, err := decodeArgs(rawArgs)
	if err != nil {
		return errorResult(err)
	}

	// validated: schema check with defaults, before domain logic.
	validated, err := desc.Schema.Validate(args)
	if err != nil {
		return errorResult(err)
	}

	// executed: domain failures become structured error bodies too.
	out, err := handler(ctx, validated)
	if err != nil {
		return errorResult(err)
	}

	// encoded: a pure projection of a domain-shaped payload.
	return encodeResult(out)
}

func decodeArgs(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("%w: arguments must be a JSON object", ErrInvalidArgumentType)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func encodeResult(out any) Result {
	body, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		// Handlers return maps and slices of JSON-safe values; reaching
		// this means a handler bug.
		return errorResult(fmt.Errorf("encode result: %w", err))
	}
	return Result{Body: string(body)}
}

func errorResult(err error) Result {
	body, _ := json.MarshalIndent(map[string]string{"error": err.Error()}, "", "  ")
	return Result{Body: string(body), IsError: true, Err: err}
}
