// ABOUTME: langchaingo binding: wraps registry tools as tools.Tool for agent runtimes
// ABOUTME: Call takes the JSON argument object and returns the result envelope as JSON
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools"
)

// LangChainTool adapts one registry tool.
type LangChainTool struct {
	reg  *Registry
	tool Tool
}

var _ tools.Tool = LangChainTool{}

// LangChainTools returns an adapter for every registry tool. It is the entry
// point for embedding the CRM tools in a langchaingo agent; the binaries
// themselves serve the registry over MCP and HTTP.
func LangChainTools(reg *Registry) []tools.Tool {
	list := reg.List()
	out := make([]tools.Tool, len(list))
	for i, t := range list {
		out[i] = LangChainTool{reg: reg, tool: t}
	}
	return out
}

func (t LangChainTool) Name() string {
	return t.tool.Name
}

// Description includes the argument schema, since agents only see this text.
func (t LangChainTool) Description() string {
	schema, err := json.Marshal(t.tool.InputSchema)
	if err != nil {
		return t.tool.Description
	}
	return fmt.Sprintf("%s. Input is a JSON object matching this schema: %s",
		strings.TrimSuffix(t.tool.Description, "."), schema)
}

func (t LangChainTool) Call(ctx context.Context, input string) (string, error) {
	res := t.reg.Call(ctx, t.tool.Name, json.RawMessage(input))
	out, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s result: %w", t.tool.Name, err)
	}
	return string(out), nil
}
