// Package mcpserver exposes the research capabilities as MCP tools over
// stdio.
package mcpserver

import (
	"context"
	"errors"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/webresearch/internal/capability"
	"github.com/sells-group/webresearch/internal/failure"
)

// SearchInput is the webSearch tool input schema.
type SearchInput struct {
	Query string `json:"query" jsonschema:"The search query"`
}

// FetchInput is the webFetch tool input schema.
type FetchInput struct {
	URL   string `json:"url" jsonschema:"The URL to fetch"`
	Focus string `json:"focus,omitempty" jsonschema:"What to focus on when summarizing (e.g. 'product features', 'recipe details', 'news summary')"`
}

// ResearchInput is the research tool input schema.
type ResearchInput struct {
	UserQuestion string `json:"userQuestion" jsonschema:"The user's question to research"`
}

// Output is the structured result of every tool.
type Output struct {
	Text string `json:"text" jsonschema:"The tool's text result"`
}

// New builds an MCP server with one tool per registered capability.
func New(reg *capability.Registry, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "webresearch",
		Version: version,
	}, nil)

	if c, ok := reg.Get(capability.NameSearch); ok {
		mcp.AddTool(server, tool(c), NewSearchHandler(reg))
	}
	if c, ok := reg.Get(capability.NameFetch); ok {
		mcp.AddTool(server, tool(c), NewFetchHandler(reg))
	}
	if c, ok := reg.Get(capability.NameResearch); ok {
		mcp.AddTool(server, tool(c), NewResearchHandler(reg))
	}
	return server
}

func tool(c capability.Capability) *mcp.Tool {
	return &mcp.Tool{Name: c.Name(), Description: c.Description()}
}

// NewSearchHandler returns the webSearch tool handler.
func NewSearchHandler(reg *capability.Registry) func(context.Context, *mcp.CallToolRequest, SearchInput) (*mcp.CallToolResult, Output, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, Output, error) {
		return invoke(ctx, reg, capability.NameSearch, capability.Args{"query": in.Query})
	}
}

// NewFetchHandler returns the webFetch tool handler.
func NewFetchHandler(reg *capability.Registry) func(context.Context, *mcp.CallToolRequest, FetchInput) (*mcp.CallToolResult, Output, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in FetchInput) (*mcp.CallToolResult, Output, error) {
		return invoke(ctx, reg, capability.NameFetch, capability.Args{"url": in.URL, "focus": in.Focus})
	}
}

// NewResearchHandler returns the research tool handler.
func NewResearchHandler(reg *capability.Registry) func(context.Context, *mcp.CallToolRequest, ResearchInput) (*mcp.CallToolResult, Output, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ResearchInput) (*mcp.CallToolResult, Output, error) {
		return invoke(ctx, reg, capability.NameResearch, capability.Args{"userQuestion": in.UserQuestion})
	}
}

// invoke runs a capability. Failures reach the client as a short message
// only; the detail goes to the log.
func invoke(ctx context.Context, reg *capability.Registry, name string, args capability.Args) (*mcp.CallToolResult, Output, error) {
	text, err := reg.Invoke(ctx, name, args)
	if err != nil {
		zap.L().Warn("mcpserver: tool failed", zap.String("tool", name), zap.Error(err))
		return nil, Output{}, errors.New(failure.UserMessage(err))
	}
	return nil, Output{Text: text}, nil
}

// Run serves over stdio until ctx is done or stdin closes.
func Run(ctx context.Context, server *mcp.Server) error {
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		if normalStop(err) {
			zap.L().Debug("mcpserver: stopped", zap.Error(err))
			return nil
		}
		return eris.Wrap(err, "mcpserver: run")
	}
	return nil
}

// normalStop reports whether err means stdin closed or the caller cancelled.
func normalStop(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, context.Canceled)
}
