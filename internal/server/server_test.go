package server

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lydakis/homemcp/internal/catalog"
	"github.com/lydakis/homemcp/internal/command"
	"github.com/lydakis/homemcp/internal/dispatch"
	"github.com/lydakis/homemcp/internal/invoke"
	"github.com/lydakis/homemcp/internal/response"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type recordingRunner struct {
	mu      sync.Mutex
	outcome invoke.Outcome
	lines   []string
}

func (r *recordingRunner) Run(_ context.Context, line command.Line) invoke.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line.String())
	return r.outcome
}

func (r *recordingRunner) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

type dispatcherFunc func(context.Context, dispatch.Request) response.Response

func (f dispatcherFunc) Dispatch(ctx context.Context, req dispatch.Request) response.Response {
	return f(ctx, req)
}

func newTestClient(t *testing.T, outcome invoke.Outcome) (*Client, *recordingRunner) {
	t.Helper()

	runner := &recordingRunner{outcome: outcome}
	srv := New(dispatch.New(dispatch.Options{Runner: runner}), "test")

	httpServer := server.NewTestStreamableHTTPServer(srv.mcp)
	t.Cleanup(httpServer.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client, err := Dial(ctx, httpServer.URL, "test", map[string]string{"X-Homemcp-Test": "1"})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, runner
}

func TestServerListsEveryCatalogTool(t *testing.T) {
	client, _ := newTestClient(t, invoke.Outcome{})

	tools, err := client.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}

	got := make([]string, 0, len(tools))
	for _, tool := range tools {
		got = append(got, tool.Name)
	}
	sort.Strings(got)

	want := catalog.Names()
	sort.Strings(want)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("tool names = %v, want %v", got, want)
	}
}

func TestServerCallToolRunsShortcut(t *testing.T) {
	client, runner := newTestClient(t, invoke.Outcome{})

	resp, err := client.Call(context.Background(), dispatch.Request{
		Name:      catalog.LightsOn,
		Arguments: map[string]any{"room": "Kitchen"},
	})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if resp.IsError {
		t.Fatalf("IsError = true, want false (%q)", resp.String())
	}
	if resp.String() != "Lights turned on in Kitchen" {
		t.Fatalf("text = %q, want %q", resp.String(), "Lights turned on in Kitchen")
	}

	lines := runner.recorded()
	want := `'shortcuts' 'run' 'Kitchen Lights On'`
	if len(lines) != 1 || lines[0] != want {
		t.Fatalf("command lines = %q, want [%q]", lines, want)
	}
}

func TestServerCallToolHardFailureSetsIsError(t *testing.T) {
	client, _ := newTestClient(t, invoke.Outcome{Failed: true, Diagnostic: "execution error"})

	resp, err := client.Call(context.Background(), dispatch.Request{Name: catalog.OpenHomeApp})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if !resp.IsError {
		t.Fatal("IsError = false, want true")
	}
	if resp.String() != "Error opening Home app: execution error" {
		t.Fatalf("text = %q", resp.String())
	}
}

func TestServerCallToolMissingArgument(t *testing.T) {
	client, runner := newTestClient(t, invoke.Outcome{})

	resp, err := client.Call(context.Background(), dispatch.Request{Name: catalog.RunScene})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if !resp.IsError || !strings.HasPrefix(resp.String(), "Invalid arguments for run_scene:") {
		t.Fatalf("response = %+v, want invalid arguments error", resp)
	}
	if len(runner.recorded()) != 0 {
		t.Fatal("runner invoked for invalid arguments")
	}
}

func TestToolHandlerPassesNameAndArguments(t *testing.T) {
	var got dispatch.Request
	handler := toolHandler(dispatcherFunc(func(_ context.Context, req dispatch.Request) response.Response {
		got = req
		return response.Text("ok")
	}))

	req := mcp.CallToolRequest{}
	req.Params.Name = catalog.ControlDevice
	req.Params.Arguments = map[string]any{"shortcut": "Fan On"}

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if got.Name != catalog.ControlDevice || got.Arguments["shortcut"] != "Fan On" {
		t.Fatalf("dispatched request = %+v", got)
	}
	if len(result.Content) != 1 || result.IsError {
		t.Fatalf("result = %+v, want one text block", result)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok || text.Text != "ok" {
		t.Fatalf("content = %#v, want text ok", result.Content[0])
	}
}

func TestServeHTTPStopsOnCancel(t *testing.T) {
	srv := New(dispatch.New(dispatch.Options{Runner: &recordingRunner{}}), "test")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ServeHTTP(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ServeHTTP() error = %v, want nil", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("ServeHTTP() did not return after cancel")
	}
}
