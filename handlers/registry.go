// ABOUTME: Tool registry shared by the MCP, langchaingo, HTTP and CLI bindings
// ABOUTME: Call assigns a call id, converts panics into failures and records metrics
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/harperreed/civibridge/civicrm"
	"github.com/harperreed/civibridge/logger"
	"github.com/oklog/ulid/v2"
)

type Registry struct {
	crm    civicrm.CRM
	logger *slog.Logger
	tools  map[string]Tool
}

// NewRegistry registers every CRM tool against crm.
func NewRegistry(crm civicrm.CRM, log *slog.Logger) *Registry {
	if log == nil {
		log = logger.L
	}
	r := &Registry{
		crm:    crm,
		logger: log,
		tools:  make(map[string]Tool),
	}

	groups := [][]Tool{
		r.contactTools(),
		r.contributionTools(),
		r.eventTools(),
		r.caseTools(),
		r.statsTools(),
	}
	for _, group := range groups {
		for _, t := range group {
			if _, dup := r.tools[t.Name]; dup {
				panic("duplicate tool " + t.Name)
			}
			r.tools[t.Name] = t
		}
	}
	return r
}

// List returns the tools sorted by name.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Call runs the named tool. It never returns a Go error: every problem is
// reported through the failure envelope.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (res Result) {
	tool, ok := r.tools[name]
	if !ok {
		return Failuref("unknown tool: " + name)
	}

	log := r.logger.With(
		slog.String("call_id", ulid.Make().String()),
		slog.String("tool", name),
	)
	ctx = logger.WithContext(ctx, log)

	start := time.Now()
	defer func() {
		outcome := "success"
		if p := recover(); p != nil {
			outcome = "panic"
			log.Error("tool panicked", slog.Any("panic", p))
			res = Failuref(fmt.Sprintf("internal error in %s: %v", name, p))
		} else if !res.Success {
			outcome = "failure"
			log.Warn("tool failed", slog.String("error", res.Error))
		}
		toolCallsTotal.WithLabelValues(name, outcome).Inc()
		toolCallSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	log.Debug("tool call", slog.String("args", string(args)))
	return tool.call(ctx, args)
}
