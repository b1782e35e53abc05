// Package mcpserve exposes a tool registry as an MCP server over stdio.
// Stdout carries the protocol, so all diagnostics go to a stderr logger.
package mcpserve

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/tool"
	"github.com/matiasleandrokruk/servicedesk/internal/version"
)

// Server bridges a populated registry and dispatcher to the MCP protocol.
type Server struct {
	name       string
	registry   *tool.Registry
	dispatcher *tool.Dispatcher
	logger     *log.Logger
}

// New creates an MCP server for the named service. All tools must already be
// registered; the registry is read-only from here on.
func New(name string, registry *tool.Registry, logger *log.Logger) *Server {
	return &Server{
		name:       name,
		registry:   registry,
		dispatcher: tool.NewDispatcher(registry),
		logger:     logger,
	}
}

// Build assembles the underlying MCP server with one advertised tool per
// registered descriptor. Dispatch rejections and domain failures come back
// as error-flagged tool results, never protocol errors.
func (s *Server) Build() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    s.name,
		Version: version.Version,
	}, nil)

	for _, desc := range s.registry.List() {
		desc := desc
		server.AddTool(&mcp.Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.Schema.JSONSchema(),
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res := s.dispatcher.Dispatch(ctx, desc.Name, req.Params.Arguments)
			if res.IsError {
				s.logger.Printf("tool %s failed: %s", desc.Name, res.Body)
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: res.Body}},
				IsError: res.IsError,
			}, nil
		})
	}
	return server
}

// Run serves the MCP protocol on stdin/stdout until ctx is canceled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Printf("%s: serving %d tools on stdio", s.name, len(s.registry.List()))
	return s.Build().Run(ctx, &mcp.StdioTransport{})
}
