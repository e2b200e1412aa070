package mcp

import (
	"context"
	"encoding/json"

	"crimedash/internal/dashboard"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const (
	serverName    = "crimedash"
	serverVersion = "0.1.0"
)

// Options configures the MCP server.
type Options struct {
	// MermaidCharts adds Mermaid chart blocks to dashboard responses.
	MermaidCharts bool
	// LoadErr is surfaced as a warning when the dataset failed to load.
	LoadErr error
}

// Server holds the state for the MCP server.
type Server struct {
	ctrl   *dashboard.Controller
	opts   Options
	mcpSrv *mcp.Server
}

// NewServer creates a new MCP server exposing the dashboard tools.
func NewServer(ctrl *dashboard.Controller, opts Options) *Server {
	impl := &mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}
	s := &Server{
		ctrl:   ctrl,
		opts:   opts,
		mcpSrv: mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s
}

// Serve runs the MCP session over stdio until the client disconnects or ctx
// is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("source", s.ctrl.Dataset().Source()).Msg("Starting MCP server on stdio")
	return s.mcpSrv.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcpSrv.Connect(ctx, t, nil)
}

// ResponseEnvelope wraps every tool result.
type ResponseEnvelope struct {
	Data      any               `json:"data"`
	Selection any               `json:"selection,omitempty"`
	Charts    map[string]string `json:"charts,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
}

func (s *Server) envelope(data any) ResponseEnvelope {
	env := ResponseEnvelope{Data: data}
	if s.opts.LoadErr != nil {
		env.Warnings = append(env.Warnings, "dataset failed to load: "+s.opts.LoadErr.Error())
	} else if s.ctrl.Dataset().Len() == 0 {
		env.Warnings = append(env.Warnings, "dataset is empty")
	}
	return env
}

func formatResult(env ResponseEnvelope) *mcp.CallToolResult {
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errorResult(err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(out)}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
