package response

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Exit codes used when a response is rendered for a terminal.
const (
	ExitOK       = 0
	ExitToolErr  = 1
	ExitUsageErr = 2
	ExitInternal = 3
)

// Content is one text block of a response.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the outcome of one tool call. Content is never empty.
type Response struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Text returns a successful single-block response.
func Text(text string) Response {
	return Response{Content: []Content{{Type: "text", Text: text}}}
}

// Error returns a failed single-block response.
func Error(text string) Response {
	resp := Text(text)
	resp.IsError = true
	return resp
}

// String joins all text blocks with newlines.
func (r Response) String() string {
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}

// ToMCP converts r into an MCP tool result.
func ToMCP(r Response) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(r.Content))
	for _, c := range r.Content {
		content = append(content, mcp.NewTextContent(c.Text))
	}
	return &mcp.CallToolResult{
		Content: content,
		IsError: r.IsError,
	}
}

// FromMCP extracts text blocks from an MCP tool result. Non-text blocks are
// kept as their JSON encoding. A result without content yields one empty block.
func FromMCP(result *mcp.CallToolResult) Response {
	if result == nil {
		return Error("empty tool result")
	}

	resp := Response{IsError: result.IsError}
	for _, content := range result.Content {
		text, ok := renderContent(content)
		if !ok {
			raw, err := json.Marshal(content)
			if err != nil {
				continue
			}
			text = string(raw)
		}
		resp.Content = append(resp.Content, Content{Type: "text", Text: text})
	}
	if len(resp.Content) == 0 {
		resp.Content = []Content{{Type: "text", Text: ""}}
	}
	return resp
}

func renderContent(content mcp.Content) (string, bool) {
	switch c := content.(type) {
	case mcp.TextContent:
		return c.Text, true
	case *mcp.TextContent:
		return c.Text, true
	default:
		var typed struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		raw, err := json.Marshal(content)
		if err != nil || json.Unmarshal(raw, &typed) != nil {
			return "", false
		}
		if typed.Type != "text" {
			return "", false
		}
		return typed.Text, true
	}
}

// Render returns the response text for stdout and the matching exit code.
func Render(r Response) ([]byte, int) {
	exitCode := ExitOK
	if r.IsError {
		exitCode = ExitToolErr
	}
	return ensureTrailingNewline([]byte(r.String())), exitCode
}

func ensureTrailingNewline(out []byte) []byte {
	if len(out) == 0 {
		return out
	}
	if out[len(out)-1] != '\n' {
		return append(out, '\n')
	}
	return out
}
