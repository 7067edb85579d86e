// ABOUTME: Error taxonomy for the CiviCRM access layer
// ABOUTME: ProcessError for failed cv runs, DecodeError for unusable output, sentinel validation errors
package civicrm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidQuery is returned when a command cannot be built from the
	// given entity, action and query. No process is started in that case.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidRole is returned for a role outside client, case_coordinator and case_manager.
	ErrInvalidRole = errors.New("invalid role type")
)

// ProcessError reports a cv invocation that could not be started, exited
// non-zero, or was killed because its context ended.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := "CiviCRM API4 call failed"
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s (exit status %d)", msg, e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return msg + ": " + stderr
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

// DecodeError reports stdout that was not the JSON the caller expected.
// Raw holds the untrimmed output for diagnosis.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse CiviCRM API4 response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
