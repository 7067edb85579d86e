// ABOUTME: Shared test helpers for tool handlers
// ABOUTME: A stub cv runner keyed by entity behind a real civicrm.Client
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/harperreed/civibridge/civicrm"
	"github.com/harperreed/civibridge/logger"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	mu        sync.Mutex
	calls     []civicrm.Command
	responses map[string]string
	err       error
}

func (s *stubRunner) Run(_ context.Context, cmd civicrm.Command) (civicrm.Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, cmd)

	if s.err != nil {
		return civicrm.Output{}, s.err
	}
	if out, ok := s.responses[cmd.Entity]; ok {
		return civicrm.Output{Stdout: out}, nil
	}
	return civicrm.Output{Stdout: "[]"}, nil
}

func (s *stubRunner) callsFor(entity string) []civicrm.Command {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []civicrm.Command
	for _, c := range s.calls {
		if c.Entity == entity {
			out = append(out, c)
		}
	}
	return out
}

func (s *stubRunner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestRegistry(t *testing.T, responses map[string]string) (*Registry, *stubRunner) {
	t.Helper()
	runner := &stubRunner{responses: responses}
	client := civicrm.New(civicrm.Config{
		CVPath:       "cv",
		SettingsPath: "/var/www/civicrm.settings.php",
	}, runner)
	return NewRegistry(client, logger.New(io.Discard, "error", "text")), runner
}

// callJSON runs a tool and returns the envelope as generic JSON.
func callJSON(t *testing.T, ctx context.Context, reg *Registry, name, args string) map[string]any {
	t.Helper()
	res := reg.Call(ctx, name, json.RawMessage(args))
	b, err := json.Marshal(res)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}
