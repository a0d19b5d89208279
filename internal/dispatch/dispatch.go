// Package dispatch maps tool requests onto external automations and turns
// each invocation outcome into a response.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lydakis/homemcp/internal/catalog"
	"github.com/lydakis/homemcp/internal/invoke"
	"github.com/lydakis/homemcp/internal/response"
	"github.com/rs/zerolog/log"
)

// DefaultKeywords select home-related shortcuts when listing without a filter.
var DefaultKeywords = []string{"light", "home", "scene", "lock", "thermostat", "door", "room"}

// Request is one tool call. Arguments hold JSON-decoded values.
type Request struct {
	Name      string
	Arguments map[string]any
}

// Record describes one finished call.
type Record struct {
	CallID    string
	Tool      string
	Arguments map[string]any
	Response  response.Response
	Started   time.Time
	Duration  time.Duration
}

// Recorder observes finished calls. It must not block for long; Dispatch
// waits for it.
type Recorder interface {
	Record(ctx context.Context, rec Record)
}

// Options configures a Dispatcher. Empty fields select the defaults.
type Options struct {
	Runner      invoke.Runner
	Interpreter string
	Shortcuts   string
	App         string
	Keywords    []string
	Recorder    Recorder
}

// Dispatcher holds immutable settings only; calls share no state.
type Dispatcher struct {
	runner      invoke.Runner
	interpreter string
	shortcuts   string
	app         string
	keywords    []string
	recorder    Recorder
}

// New creates a Dispatcher. A nil Runner selects an invoke.Invoker with
// default options.
func New(opts Options) *Dispatcher {
	if opts.Runner == nil {
		opts.Runner = invoke.New(invoke.Options{})
	}
	if opts.Interpreter == "" {
		opts.Interpreter = "osascript"
	}
	if opts.Shortcuts == "" {
		opts.Shortcuts = "shortcuts"
	}
	if opts.App == "" {
		opts.App = "Home"
	}
	if len(opts.Keywords) == 0 {
		opts.Keywords = DefaultKeywords
	}
	return &Dispatcher{
		runner:      opts.Runner,
		interpreter: opts.Interpreter,
		shortcuts:   opts.Shortcuts,
		app:         opts.App,
		keywords:    append([]string(nil), opts.Keywords...),
		recorder:    opts.Recorder,
	}
}

// Dispatch runs one request to completion. It always returns a response
// with at least one text block, including when a handler panics.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (resp response.Response) {
	callID := uuid.New().String()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("call_id", callID).
				Str("tool", req.Name).
				Interface("panic", r).
				Msg("tool call panicked")
			resp = response.Error(fmt.Sprintf("Error: %v", r))
		}
		duration := time.Since(start)
		log.Info().
			Str("call_id", callID).
			Str("tool", req.Name).
			Bool("is_error", resp.IsError).
			Dur("duration", duration).
			Msg("tool call finished")

		if d.recorder != nil {
			d.recorder.Record(ctx, Record{
				CallID:    callID,
				Tool:      req.Name,
				Arguments: req.Arguments,
				Response:  resp,
				Started:   start,
				Duration:  duration,
			})
		}
	}()

	return d.route(ctx, req)
}

func (d *Dispatcher) route(ctx context.Context, req Request) response.Response {
	tool, ok := catalog.Lookup(req.Name)
	if !ok {
		return response.Error(fmt.Sprintf("Unknown tool: %s", req.Name))
	}
	if err := catalog.CheckRequired(tool, req.Arguments); err != nil {
		return invalidArguments(req.Name, err)
	}

	switch req.Name {
	case catalog.OpenHomeApp:
		return d.openHomeApp(ctx)
	case catalog.RunScene:
		return d.runScene(ctx, req.Arguments)
	case catalog.ControlDevice:
		return d.controlDevice(ctx, req.Arguments)
	case catalog.ListHomeShortcuts:
		return d.listHomeShortcuts(ctx, req.Arguments)
	case catalog.LightsOn:
		return d.lights(ctx, req.Name, req.Arguments, true)
	case catalog.LightsOff:
		return d.lights(ctx, req.Name, req.Arguments, false)
	case catalog.SetThermostat:
		return d.setThermostat(ctx, req.Arguments)
	case catalog.LockDoors:
		return d.doors(ctx, true)
	case catalog.UnlockDoors:
		return d.doors(ctx, false)
	case catalog.GetHomeStatus:
		return d.getHomeStatus(ctx)
	default:
		return response.Error(fmt.Sprintf("Unknown tool: %s", req.Name))
	}
}

func invalidArguments(tool string, err error) response.Response {
	return response.Error(fmt.Sprintf("Invalid arguments for %s: %v", tool, err))
}
