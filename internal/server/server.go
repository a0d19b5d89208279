// Package server exposes the tool catalog over MCP.
package server

import (
	"context"
	"errors"
	"io"
	stdlog "log"
	"net/http"
	"time"

	"github.com/lydakis/homemcp/internal/catalog"
	"github.com/lydakis/homemcp/internal/dispatch"
	"github.com/lydakis/homemcp/internal/response"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

// Name is the implementation name reported during initialize.
const Name = "homemcp"

const (
	instructions = "Controls a smart home through the Home app and named shortcuts. " +
		"Quick actions that report setup guidance need a shortcut created in the Shortcuts app first."

	shutdownTimeout = 5 * time.Second
)

// Dispatcher runs one tool call to completion.
type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) response.Response
}

// Server wraps an MCP server with every catalog tool registered.
type Server struct {
	mcp *server.MCPServer
}

// New registers the catalog tools against d.
func New(d Dispatcher, version string) *Server {
	s := server.NewMCPServer(Name, version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
	)
	for _, tool := range catalog.Tools() {
		s.AddTool(tool, toolHandler(d))
	}
	return &Server{mcp: s}
}

// MCP returns the underlying MCP server, for mounting on a custom listener.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

func toolHandler(d Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := d.Dispatch(ctx, dispatch.Request{
			Name:      req.Params.Name,
			Arguments: req.GetArguments(),
		})
		return response.ToMCP(resp), nil
	}
}

// ServeStdio speaks MCP over in/out until in is exhausted or ctx is canceled.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(log.Logger, "", 0))

	log.Info().Str("transport", "stdio").Msg("serving MCP")
	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ServeHTTP speaks streamable HTTP MCP on addr until ctx is canceled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcp)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()
	log.Info().Str("transport", "http").Str("addr", addr).Msg("serving MCP")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info().Msg("http server stopped")
		return nil
	}
}
