// ABOUTME: Recording fake Runner for client tests
// ABOUTME: Answers cv invocations from a routing func and keeps every Command it saw
package civicrm

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   []Command
	respond func(cmd Command) (string, error)
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if f.respond == nil {
		return Output{Stdout: "[]"}, nil
	}
	stdout, err := f.respond(cmd)
	return Output{Stdout: stdout}, err
}

func (f *fakeRunner) callsFor(entity string) []Command {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Command
	for _, c := range f.calls {
		if c.Entity == entity {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// optionGroup returns the option group an OptionValue command reads.
func optionGroup(cmd Command) string {
	for _, f := range cmd.Query.Where {
		if f.Field == "option_group_id:name" {
			if s, ok := f.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

var fixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func newTestClient(t *testing.T, cfg Config, respond func(Command) (string, error)) (*Client, *fakeRunner) {
	t.Helper()
	if cfg.CVPath == "" {
		cfg.CVPath = "cv"
		cfg.SettingsPath = "/var/www/civicrm.settings.php"
	}
	runner := &fakeRunner{respond: respond}
	client := New(cfg, runner, WithClock(func() time.Time { return fixedNow }))
	return client, runner
}

const (
	caseTypesJSON    = `[{"id":1,"title":"Housing Support"},{"id":2,"title":"Adult Day Care Referral"}]`
	caseStatusesJSON = `[{"value":"1","label":"Ongoing"},{"value":"2","label":"Resolved"}]`
)

// caseResponder answers Case with cases and serves the standard case lookups.
func caseResponder(cases string, extra func(Command) (string, bool)) func(Command) (string, error) {
	return func(cmd Command) (string, error) {
		if extra != nil {
			if out, ok := extra(cmd); ok {
				return out, nil
			}
		}
		switch cmd.Entity {
		case "Case":
			return cases, nil
		case "CaseType":
			return caseTypesJSON, nil
		case "OptionValue":
			if optionGroup(cmd) == groupCaseStatus {
				return caseStatusesJSON, nil
			}
		}
		return "[]", nil
	}
}
