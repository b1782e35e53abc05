package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/jsonschema-go/jsonschema"
)

var (
	ErrMissingArgument     = errors.New("missing required argument")
	ErrInvalidArgumentType = errors.New("invalid argument type")
	ErrInvalidEnumValue    = errors.New("invalid enum value")
)

// FieldType is the wire type of a single argument.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
)

// Field declares one argument of a tool schema.
type Field struct {
	Type        FieldType
	Description string

	// Enum restricts a string field to the listed values. Empty means any.
	Enum []string

	// Default is substituted when an optional field is absent.
	Default any
}

// Schema declares the arguments a tool accepts. FieldOrder fixes the order
// fields are advertised in; every name in it must have a Fields entry.
type Schema struct {
	Fields     map[string]Field
	FieldOrder []string
	Required   []string
}

// Validate checks args against the schema and returns a copy with defaults
// substituted for absent optional fields. Validation failures carry one of
// ErrMissingArgument, ErrInvalidArgumentType or ErrInvalidEnumValue.
func (s Schema) Validate(args map[string]any) (map[string]any, error) {
	for _, name := range s.Required {
		if _, ok := args[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingArgument, name)
		}
	}

	out := make(map[string]any, len(s.Fields))
	for name, field := range s.Fields {
		value, ok := args[name]
		if !ok {
			if field.Default != nil {
				out[name] = field.Default
			}
			continue
		}

		checked, err := field.check(name, value)
		if err != nil {
			return nil, err
		}
		out[name] = checked
	}
	return out, nil
}

func (f Field) check(name string, value any) (any, error) {
	switch f.Type {
	case TypeString:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a string", ErrInvalidArgumentType, name)
		}
		if len(f.Enum) > 0 && !contains(f.Enum, str) {
			return nil, fmt.Errorf("%w: %q must be one of %v", ErrInvalidEnumValue, name, f.Enum)
		}
		return str, nil

	case TypeInteger:
		// JSON decoding hands numbers over as float64.
		switch n := value.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("%w: %q must be an integer", ErrInvalidArgumentType, name)
			}
			return int(n), nil
		default:
			return nil, fmt.Errorf("%w: %q must be an integer", ErrInvalidArgumentType, name)
		}

	default:
		return nil, fmt.Errorf("%w: %q has unknown schema type %q", ErrInvalidArgumentType, name, f.Type)
	}
}

// JSONSchema projects the schema into the JSON Schema form advertised to
// callers over the protocol.
func (s Schema) JSONSchema() *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(s.Fields))
	for _, name := range s.fieldNames() {
		field := s.Fields[name]
		prop := &jsonschema.Schema{
			Type:        string(field.Type),
			Description: field.Description,
		}
		for _, v := range field.Enum {
			prop.Enum = append(prop.Enum, v)
		}
		if field.Default != nil {
			if raw, err := json.Marshal(field.Default); err == nil {
				prop.Default = raw
			}
		}
		props[name] = prop
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   append([]string(nil), s.Required...),
	}
}

func (s Schema) fieldNames() []string {
	if len(s.FieldOrder) > 0 {
		return s.FieldOrder
	}
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	return names
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
