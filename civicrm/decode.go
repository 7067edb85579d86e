// ABOUTME: Response decoder for cv stdout
// ABOUTME: Shape-agnostic Decode plus DecodeRows for api4 calls that return arrays of records
package civicrm

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Decode parses stdout as a single JSON value. Numbers are kept as json.Number.
func Decode(stdout string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(stdout)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &DecodeError{Raw: stdout, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Raw: stdout, Err: errors.New("unexpected data after JSON value")}
	}
	return v, nil
}

// DecodeRows parses stdout as a JSON array of records.
func DecodeRows[T any](stdout string) ([]T, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "null" {
		return []T{}, nil
	}
	if _, err := Decode(trimmed); err != nil {
		return nil, &DecodeError{Raw: stdout, Err: errors.Unwrap(err)}
	}
	if !strings.HasPrefix(trimmed, "[") {
		return nil, &DecodeError{Raw: stdout, Err: errors.New("expected a JSON array of records")}
	}

	var rows []T
	if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
		return nil, &DecodeError{Raw: stdout, Err: err}
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
