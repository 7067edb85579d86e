// ABOUTME: Typed api4 query parameters: field selection, filter triples, and pagination
// ABOUTME: Filters serialize to [field, operator, value] and are validated before any process runs
package civicrm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Operator is an api4 comparison operator.
type Operator string

const (
	OpEq        Operator = "="
	OpNotEq     Operator = "!="
	OpGt        Operator = ">"
	OpGte       Operator = ">="
	OpLt        Operator = "<"
	OpLte       Operator = "<="
	OpLike      Operator = "LIKE"
	OpNotLike   Operator = "NOT LIKE"
	OpIn        Operator = "IN"
	OpNotIn     Operator = "NOT IN"
	OpIsNull    Operator = "IS NULL"
	OpIsNotNull Operator = "IS NOT NULL"
)

func (op Operator) known() bool {
	switch op {
	case OpEq, OpNotEq, OpGt, OpGte, OpLt, OpLte, OpLike, OpNotLike, OpIn, OpNotIn, OpIsNull, OpIsNotNull:
		return true
	}
	return false
}

// unary operators take no value and serialize as a two-element triple.
func (op Operator) unary() bool {
	return op == OpIsNull || op == OpIsNotNull
}

// Filter is one where clause.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

func Eq(field string, value any) Filter { return Filter{Field: field, Op: OpEq, Value: value} }
func NotEq(field string, value any) Filter { return Filter{Field: field, Op: OpNotEq, Value: value} }
func Gt(field string, value any) Filter { return Filter{Field: field, Op: OpGt, Value: value} }
func Gte(field string, value any) Filter { return Filter{Field: field, Op: OpGte, Value: value} }
func Lt(field string, value any) Filter { return Filter{Field: field, Op: OpLt, Value: value} }
func Lte(field string, value any) Filter { return Filter{Field: field, Op: OpLte, Value: value} }

func Like(field, pattern string) Filter { return Filter{Field: field, Op: OpLike, Value: pattern} }
func NotLike(field, pattern string) Filter { return Filter{Field: field, Op: OpNotLike, Value: pattern} }

func In(field string, values ...any) Filter { return Filter{Field: field, Op: OpIn, Value: values} }
func NotIn(field string, values ...any) Filter { return Filter{Field: field, Op: OpNotIn, Value: values} }

func IsNull(field string) Filter { return Filter{Field: field, Op: OpIsNull} }
func IsNotNull(field string) Filter { return Filter{Field: field, Op: OpIsNotNull} }

// NewFilter builds a filter from loose parts and validates it.
func NewFilter(field string, op Operator, value any) (Filter, error) {
	f := Filter{Field: field, Op: op, Value: value}
	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// Validate rejects malformed triples.
func (f Filter) Validate() error {
	if strings.TrimSpace(f.Field) == "" {
		return fmt.Errorf("%w: filter field is empty", ErrInvalidQuery)
	}
	if !f.Op.known() {
		return fmt.Errorf("%w: unknown operator %q on %s", ErrInvalidQuery, f.Op, f.Field)
	}

	switch {
	case f.Op.unary():
		if f.Value != nil {
			return fmt.Errorf("%w: %s takes no value", ErrInvalidQuery, f.Op)
		}
	case f.Op == OpIn || f.Op == OpNotIn:
		kind := reflect.ValueOf(f.Value).Kind()
		if kind != reflect.Slice && kind != reflect.Array {
			return fmt.Errorf("%w: %s on %s needs a list value", ErrInvalidQuery, f.Op, f.Field)
		}
	case f.Op == OpLike || f.Op == OpNotLike:
		if _, ok := f.Value.(string); !ok {
			return fmt.Errorf("%w: %s on %s needs a string pattern", ErrInvalidQuery, f.Op, f.Field)
		}
	}
	return nil
}

func (f Filter) MarshalJSON() ([]byte, error) {
	if f.Op.unary() {
		return marshalParams([]any{f.Field, string(f.Op)})
	}
	return marshalParams([]any{f.Field, string(f.Op), f.Value})
}

// marshalParams encodes v without HTML escaping, so operators such as >=
// reach cv as written.
func marshalParams(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (f *Filter) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("%w: filter must have 2 or 3 elements, got %d", ErrInvalidQuery, len(parts))
	}

	var out Filter
	var op string
	if err := json.Unmarshal(parts[0], &out.Field); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[1], &op); err != nil {
		return err
	}
	out.Op = Operator(op)
	if len(parts) == 3 {
		if err := json.Unmarshal(parts[2], &out.Value); err != nil {
			return err
		}
	}
	*f = out
	return nil
}

// Query is the parameter object passed to `cv api4`. Zero Limit and Offset
// are omitted, which leaves paging to the engine.
type Query struct {
	Select []string `json:"select,omitempty"`
	Where  []Filter `json:"where,omitempty"`
	Limit  int      `json:"limit,omitempty"`
	Offset int      `json:"offset,omitempty"`
}

// NewQuery starts a query selecting the given fields.
func NewQuery(fields ...string) Query {
	return Query{Select: fields}
}

// Filter returns a copy of q with filters appended.
func (q Query) Filter(filters ...Filter) Query {
	where := make([]Filter, 0, len(q.Where)+len(filters))
	where = append(where, q.Where...)
	q.Where = append(where, filters...)
	return q
}

// Paginate returns a copy of q with limit and offset set.
func (q Query) Paginate(limit, offset int) Query {
	q.Limit = limit
	q.Offset = offset
	return q
}

func (q Query) Validate() error {
	for _, field := range q.Select {
		if strings.TrimSpace(field) == "" {
			return fmt.Errorf("%w: empty select field", ErrInvalidQuery)
		}
	}
	for _, f := range q.Where {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidQuery, q.Offset)
	}
	return nil
}
