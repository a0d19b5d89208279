package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"
)

// Operation names.
const (
	OpenHomeApp       = "open_home_app"
	RunScene          = "run_scene"
	ControlDevice     = "control_device"
	ListHomeShortcuts = "list_home_shortcuts"
	LightsOn          = "lights_on"
	LightsOff         = "lights_off"
	SetThermostat     = "set_thermostat"
	LockDoors         = "lock_doors"
	UnlockDoors       = "unlock_doors"
	GetHomeStatus     = "get_home_status"
)

// Names lists every operation in catalogue order.
func Names() []string {
	return []string{
		OpenHomeApp,
		RunScene,
		ControlDevice,
		ListHomeShortcuts,
		LightsOn,
		LightsOff,
		SetThermostat,
		LockDoors,
		UnlockDoors,
		GetHomeStatus,
	}
}

// Tools returns the operation descriptors. Each call builds fresh values.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(OpenHomeApp,
			mcp.WithDescription("Open the Home app"),
		),
		mcp.NewTool(RunScene,
			mcp.WithDescription("Run a HomeKit scene through a shortcut with the same name"),
			mcp.WithString("scene",
				mcp.Required(),
				mcp.Description("Name of the scene, for example \"Good Morning\" or \"Movie Time\""),
			),
		),
		mcp.NewTool(ControlDevice,
			mcp.WithDescription("Run any shortcut by name, optionally passing it text input"),
			mcp.WithString("shortcut",
				mcp.Required(),
				mcp.Description("Exact name of the shortcut to run"),
			),
			mcp.WithString("input",
				mcp.Description("Optional text input passed to the shortcut"),
			),
		),
		mcp.NewTool(ListHomeShortcuts,
			mcp.WithDescription("List shortcuts that look home-automation related"),
			mcp.WithString("filter",
				mcp.Description("Only list shortcuts whose name contains this text (case-insensitive)"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		mcp.NewTool(LightsOn,
			mcp.WithDescription("Turn lights on, optionally in one room"),
			mcp.WithString("room",
				mcp.Description("Room name, for example \"Living Room\""),
			),
		),
		mcp.NewTool(LightsOff,
			mcp.WithDescription("Turn lights off, optionally in one room"),
			mcp.WithString("room",
				mcp.Description("Room name, for example \"Bedroom\""),
			),
		),
		mcp.NewTool(SetThermostat,
			mcp.WithDescription("Set the thermostat temperature"),
			mcp.WithNumber("temperature",
				mcp.Required(),
				mcp.Description("Target temperature"),
			),
			mcp.WithString("unit",
				mcp.Description("Temperature unit, defaults to fahrenheit"),
				mcp.Enum("fahrenheit", "celsius"),
			),
		),
		mcp.NewTool(LockDoors,
			mcp.WithDescription("Lock all doors"),
		),
		mcp.NewTool(UnlockDoors,
			mcp.WithDescription("Unlock all doors"),
		),
		mcp.NewTool(GetHomeStatus,
			mcp.WithDescription("Open the Home app to check current device status"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

// Lookup returns the descriptor for name.
func Lookup(name string) (mcp.Tool, bool) {
	for _, t := range Tools() {
		if t.Name == name {
			return t, true
		}
	}
	return mcp.Tool{}, false
}

// CheckRequired reports required arguments of tool that are absent from args.
// A null value counts as absent. Property types are not checked.
func CheckRequired(tool mcp.Tool, args map[string]any) error {
	if len(tool.InputSchema.Required) == 0 {
		return nil
	}
	// Only presence matters; values such as NaN would not survive encoding.
	present := make(map[string]any, len(args))
	for k, v := range args {
		if v != nil {
			present[k] = true
		}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]any{
		"type":     "object",
		"required": tool.InputSchema.Required,
	}))
	if err != nil {
		return fmt.Errorf("compiling schema for %s: %w", tool.Name, err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(present))
	if err != nil {
		return fmt.Errorf("validating arguments for %s: %w", tool.Name, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, rerr := range result.Errors() {
		msgs = append(msgs, rerr.Description())
	}
	return errors.New(strings.Join(msgs, "; "))
}
