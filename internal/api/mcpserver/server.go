// Package mcpserver exposes the analysis tool registry over the Model
// Context Protocol so external agent hosts can drive analyses directly.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"minerva/internal/tools"
	"minerva/pkg/logger"
)

const serverName = "minerva"

// Server wraps an MCP stdio server over the tool registry.
type Server struct {
	mcp      *server.MCPServer
	registry *tools.Registry
	log      *logger.Logger
}

// New builds an MCP server exposing every cataloged tool that is present in
// the registry.
func New(registry *tools.Registry, version string) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			serverName,
			version,
			server.WithToolCapabilities(false),
		),
		registry: registry,
		log:      logger.Get().With("component", "mcp_server"),
	}

	for _, def := range tools.Catalog {
		tool, ok := registry.Get(def.Name)
		if !ok {
			continue
		}
		s.addTool(def, tool)
	}

	return s
}

// addTool registers one analysis tool, reusing its shared JSON schema.
func (s *Server) addTool(def tools.Definition, tool tools.Tool) {
	schema, err := json.Marshal(def.Parameters)
	if err != nil {
		s.log.Errorw("failed to encode tool schema", "tool", def.Name, "error", err)
		return
	}

	mcpTool := mcp.NewToolWithRawSchema(def.Name, def.Description, schema)

	s.mcp.AddTool(mcpTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		s.log.Infow("mcp tool call", "tool", def.Name)

		result, err := tool.Execute(ctx, args)
		if err != nil {
			// Tool failures are protocol-level results, not transport
			// errors; the client model reads them and retries.
			s.log.Warnw("mcp tool failed", "tool", def.Name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError("failed to encode tool result: " + err.Error()), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	})

	s.log.Debugw("mcp tool registered", "tool", def.Name)
}

// ServeStdio runs the server over stdin/stdout until the stream closes.
func (s *Server) ServeStdio() error {
	s.log.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcp)
}
