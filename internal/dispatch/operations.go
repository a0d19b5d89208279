package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/lydakis/homemcp/internal/catalog"
	"github.com/lydakis/homemcp/internal/command"
	"github.com/lydakis/homemcp/internal/response"
)

func (d *Dispatcher) activateScript() command.Line {
	return command.Script(d.interpreter, fmt.Sprintf(`tell application "%s" to activate`, d.app))
}

func (d *Dispatcher) openHomeApp(ctx context.Context) response.Response {
	outcome := d.runner.Run(ctx, d.activateScript())
	return hardResult(outcome,
		fmt.Sprintf("%s app opened", d.app),
		fmt.Sprintf("Error opening %s app", d.app),
	)
}

// getHomeStatus has no status API to query; it brings the app forward.
func (d *Dispatcher) getHomeStatus(ctx context.Context) response.Response {
	outcome := d.runner.Run(ctx, d.activateScript())
	return hardResult(outcome,
		fmt.Sprintf("%s app opened. Check the app for current device status.", d.app),
		"Error getting home status",
	)
}

func (d *Dispatcher) runScene(ctx context.Context, args map[string]any) response.Response {
	a, err := parseSceneArgs(args)
	if err != nil {
		return invalidArguments(catalog.RunScene, err)
	}
	return d.runQuickAction(ctx, quickAction{
		shortcut: a.scene,
		success:  `Scene "` + a.scene + `" activated`,
		purpose:  `runs the "` + a.scene + `" scene`,
		voice:    "Activate " + a.scene,
	})
}

func (d *Dispatcher) controlDevice(ctx context.Context, args map[string]any) response.Response {
	a, err := parseShortcutArgs(args)
	if err != nil {
		return invalidArguments(catalog.ControlDevice, err)
	}
	outcome := d.runner.Run(ctx, command.Automation(d.shortcuts, a.shortcut, a.input))
	if outcome.Failed {
		return response.Error(`Error running shortcut "` + a.shortcut + `": ` + outcome.Diagnostic)
	}

	resp := response.Text(`Shortcut "` + a.shortcut + `" ran successfully`)
	if out := strings.TrimSpace(outcome.Stdout); out != "" {
		resp.Content = append(resp.Content, response.Content{Type: "text", Text: out})
	}
	return resp
}

func (d *Dispatcher) listHomeShortcuts(ctx context.Context, args map[string]any) response.Response {
	a, err := parseListArgs(args)
	if err != nil {
		return invalidArguments(catalog.ListHomeShortcuts, err)
	}
	outcome := d.runner.Run(ctx, command.List(d.shortcuts))
	return listingResult(outcome, a.filter, d.keywords)
}

func (d *Dispatcher) lights(ctx context.Context, name string, args map[string]any, on bool) response.Response {
	a, err := parseRoomArgs(args)
	if err != nil {
		return invalidArguments(name, err)
	}

	state := "Off"
	verb := "off"
	if on {
		state = "On"
		verb = "on"
	}

	qa := quickAction{
		shortcut: "Lights " + state,
		success:  fmt.Sprintf("Lights turned %s", verb),
		purpose:  fmt.Sprintf("turns %s the lights", verb),
		voice:    fmt.Sprintf("turn %s the lights", verb),
	}
	if a.room != "" {
		qa.shortcut = a.room + " Lights " + state
		qa.success = fmt.Sprintf("Lights turned %s in %s", verb, a.room)
		qa.purpose = fmt.Sprintf("turns %s the lights in %s", verb, a.room)
		qa.voice = fmt.Sprintf("turn %s %s lights", verb, a.room)
	}
	return d.runQuickAction(ctx, qa)
}

func (d *Dispatcher) setThermostat(ctx context.Context, args map[string]any) response.Response {
	a, err := parseThermostatArgs(args)
	if err != nil {
		return invalidArguments(catalog.SetThermostat, err)
	}

	temperature := formatTemperature(a.temperature)
	return d.runQuickAction(ctx, quickAction{
		shortcut: "Set Thermostat",
		input:    fmt.Sprintf("%s degrees %s", temperature, a.unit),
		success:  fmt.Sprintf("Thermostat set to %s°%s", temperature, unitSymbol(a.unit)),
		purpose:  "sets the thermostat to the temperature it receives as input",
		voice:    fmt.Sprintf("set the thermostat to %s degrees", temperature),
	})
}

func (d *Dispatcher) doors(ctx context.Context, lock bool) response.Response {
	if lock {
		return d.runQuickAction(ctx, quickAction{
			shortcut: "Lock Doors",
			success:  "All doors locked",
			purpose:  "locks all of your doors",
			voice:    "lock all the doors",
		})
	}
	return d.runQuickAction(ctx, quickAction{
		shortcut: "Unlock Doors",
		success:  "All doors unlocked",
		purpose:  "unlocks all of your doors",
		voice:    "unlock all the doors",
	})
}
