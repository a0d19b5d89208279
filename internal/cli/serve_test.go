package cli

import (
	"context"
	"testing"

	"github.com/lydakis/homemcp/internal/config"
	"github.com/lydakis/homemcp/internal/dispatch"
)

func TestLiveDispatcherReloadSwapsAutomation(t *testing.T) {
	isolateHome(t)

	first, err := newDispatcher(config.AutomationConfig{Shell: "sh", Interpreter: "true", Runner: "false"}, nil)
	if err != nil {
		t.Fatalf("newDispatcher() error = %v", err)
	}
	live := &liveDispatcher{}
	live.current.Store(first)

	req := dispatch.Request{Name: "lights_on", Arguments: map[string]any{"room": "Den"}}
	if resp := live.Dispatch(context.Background(), req); resp.String() == "Lights turned on in Den" {
		t.Fatalf("first dispatch = %q, want guidance from failing runner", resp.String())
	}

	next := config.Default()
	next.Automation.Interpreter = "true"
	next.Automation.Runner = "true"
	(&app{}).reload(live, next, nil)

	if resp := live.Dispatch(context.Background(), req); resp.String() != "Lights turned on in Den" {
		t.Fatalf("reloaded dispatch = %q, want success", resp.String())
	}
}

func TestReloadKeepsDispatcherOnBadTimeout(t *testing.T) {
	first, err := newDispatcher(config.AutomationConfig{Shell: "sh", Interpreter: "true", Runner: "true"}, nil)
	if err != nil {
		t.Fatalf("newDispatcher() error = %v", err)
	}
	live := &liveDispatcher{}
	live.current.Store(first)

	next := config.Default()
	next.Automation.Timeout = "soon"
	(&app{}).reload(live, next, nil)

	if live.current.Load() != first {
		t.Fatal("dispatcher replaced despite invalid timeout")
	}
}
