// ABOUTME: Uniform tool result envelope shared by every binding
// ABOUTME: {success, data, count?, ...extra} on success, {success:false, error} on failure
package handlers

import (
	"encoding/json"
)

// Result is the outcome of one tool call.
type Result struct {
	Success bool
	Data    any
	Count   *int
	Error   string
	Extra   map[string]any
}

// Success wraps a single value.
func Success(data any) Result {
	return Result{Success: true, Data: data}
}

// List wraps a slice and reports its length. A nil slice is sent as [].
func List[T any](items []T) Result {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return Result{Success: true, Data: items, Count: &n}
}

// Failure reports err's message.
func Failure(err error) Result {
	return Result{Error: err.Error()}
}

// Failuref reports a fixed message.
func Failuref(msg string) Result {
	return Result{Error: msg}
}

// With returns a copy of r carrying an extra top-level key. Extra keys are
// only emitted on success.
func (r Result) With(key string, value any) Result {
	extra := make(map[string]any, len(r.Extra)+1)
	for k, v := range r.Extra {
		extra[k] = v
	}
	extra[key] = value
	r.Extra = extra
	return r
}

func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{Error: r.Error})
	}

	out := make(map[string]any, len(r.Extra)+3)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["success"] = true
	out["data"] = r.Data
	if r.Count != nil {
		out["count"] = *r.Count
	}
	return json.Marshal(out)
}
