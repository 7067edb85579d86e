// ABOUTME: Self-describing tool definition: name, description, JSON schema and handler
// ABOUTME: Arguments are decoded over defaults and validated before the CRM is called
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/jsonschema-go/jsonschema"
)

// Tool is one callable CRM operation.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema

	call func(ctx context.Context, args json.RawMessage) Result
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report argument names as the caller sent them.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type schemaOption func(*jsonschema.Schema)

func property(s *jsonschema.Schema, name string) *jsonschema.Schema {
	if s.Properties == nil {
		return nil
	}
	return s.Properties[name]
}

func withDefault(name string, value any) schemaOption {
	return func(s *jsonschema.Schema) {
		if p := property(s, name); p != nil {
			if raw, err := json.Marshal(value); err == nil {
				p.Default = raw
			}
		}
	}
}

func withRange(name string, lo, hi float64) schemaOption {
	return func(s *jsonschema.Schema) {
		if p := property(s, name); p != nil {
			p.Minimum = &lo
			p.Maximum = &hi
		}
	}
}

func withMinimum(name string, lo float64) schemaOption {
	return func(s *jsonschema.Schema) {
		if p := property(s, name); p != nil {
			p.Minimum = &lo
		}
	}
}

func withEnum(name string, values ...any) schemaOption {
	return func(s *jsonschema.Schema) {
		if p := property(s, name); p != nil {
			p.Enum = values
		}
	}
}

func withFormat(name, format string) schemaOption {
	return func(s *jsonschema.Schema) {
		if p := property(s, name); p != nil {
			p.Format = format
		}
	}
}

// newTool builds a Tool whose input type is In. defaults is copied for
// every call and the JSON arguments are decoded over it.
func newTool[In any](name, description string, defaults In, run func(context.Context, In) Result, opts ...schemaOption) Tool {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("tool %s: failed to build input schema: %v", name, err))
	}
	for _, opt := range opts {
		opt(schema)
	}

	return Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
		call: func(ctx context.Context, args json.RawMessage) Result {
			in := defaults
			if raw := bytes.TrimSpace(args); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
				if err := json.Unmarshal(raw, &in); err != nil {
					return Failuref("invalid arguments: " + err.Error())
				}
			}
			if err := validate.Struct(in); err != nil {
				return Failuref(validationMessage(err))
			}
			return run(ctx, in)
		},
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid arguments: " + err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "datetime":
			msgs = append(msgs, field+" must be a date in YYYY-MM-DD format")
		case "numeric":
			msgs = append(msgs, field+" must be numeric")
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return "invalid arguments: " + strings.Join(msgs, "; ")
}
