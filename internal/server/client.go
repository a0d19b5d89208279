package server

import (
	"context"
	"fmt"

	"github.com/lydakis/homemcp/internal/dispatch"
	"github.com/lydakis/homemcp/internal/response"
	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

const protocolVersion = "2025-11-25"

// Client calls tools on a homemcp instance served over streamable HTTP.
type Client struct {
	c *mcpclient.Client
}

// Dial connects to url and completes the initialize handshake.
func Dial(ctx context.Context, url, version string, headers map[string]string) (*Client, error) {
	var opts []transport.StreamableHTTPCOption
	if len(headers) > 0 {
		opts = append(opts, transport.WithHTTPHeaders(headers))
	}

	c, err := mcpclient.NewStreamableHttpClient(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("starting HTTP client: %w", err)
	}

	if _, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: protocolVersion,
			ClientInfo: mcp.Implementation{
				Name:    Name,
				Version: version,
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}); err != nil {
		c.Close()
		return nil, fmt.Errorf("initializing: %w", err)
	}

	return &Client{c: c}, nil
}

// ListTools returns the remote tool catalog.
func (c *Client) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	result, err := c.c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// Call runs req remotely. Protocol failures are returned as errors; tool
// failures arrive as responses with IsError set.
func (c *Client) Call(ctx context.Context, req dispatch.Request) (response.Response, error) {
	result, err := c.c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      req.Name,
			Arguments: req.Arguments,
		},
	})
	if err != nil {
		return response.Response{}, err
	}
	return response.FromMCP(result), nil
}

// Close terminates the session.
func (c *Client) Close() error {
	return c.c.Close()
}
