// ABOUTME: MCP binding: exposes registry tools, resources and prompts on a go-sdk server
// ABOUTME: Success returns pretty-printed data as text; failures set isError with "Error: <message>"
package handlers

import (
	"context"
	"encoding/json"

	"github.com/harperreed/civibridge/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPOptions configures the MCP binding. Identity, when set, is attached
// to every call so session-aware tools work over stdio.
type MCPOptions struct {
	Identity *session.Identity
}

// NewMCPServer builds an MCP server with every registry tool, resource
// and prompt registered.
func NewMCPServer(reg *Registry, version string, opts MCPOptions) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "civicrm",
		Version: version,
	}, nil)
	RegisterMCPTools(server, reg, opts)
	RegisterMCPResources(server, reg)
	RegisterMCPPrompts(server, reg)
	return server
}

func RegisterMCPTools(server *mcp.Server, reg *Registry, opts MCPOptions) {
	for _, t := range reg.List() {
		server.AddTool(&mcp.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}, mcpHandler(reg, t.Name, opts))
	}
}

func mcpHandler(reg *Registry, name string, opts MCPOptions) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if opts.Identity != nil {
			ctx = session.WithIdentity(ctx, *opts.Identity)
		}
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		return toMCPResult(reg.Call(ctx, name, args)), nil
	}
}

func toMCPResult(res Result) *mcp.CallToolResult {
	if !res.Success {
		return errorResult(res.Error)
	}
	text, err := json.MarshalIndent(res.Data, "", "  ")
	if err != nil {
		return errorResult("failed to encode result: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + msg}},
	}
}
