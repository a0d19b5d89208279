package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const (
	unitFahrenheit = "fahrenheit"
	unitCelsius    = "celsius"
)

var errTemperatureNotNumber = errors.New("temperature must be a number")

type sceneArgs struct {
	scene string
}

type shortcutArgs struct {
	shortcut string
	input    string
}

type listArgs struct {
	filter string
}

type roomArgs struct {
	room string
}

type thermostatArgs struct {
	temperature float64
	unit        string
}

// stringArg returns the scalar at key as text. Objects and arrays are rejected.
func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	switch v.(type) {
	case map[string]any, []any:
		return "", fmt.Errorf("%s must be a string", key)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

func parseSceneArgs(args map[string]any) (sceneArgs, error) {
	scene, err := stringArg(args, "scene")
	if err != nil {
		return sceneArgs{}, err
	}
	return sceneArgs{scene: scene}, nil
}

func parseShortcutArgs(args map[string]any) (shortcutArgs, error) {
	shortcut, err := stringArg(args, "shortcut")
	if err != nil {
		return shortcutArgs{}, err
	}
	input, err := stringArg(args, "input")
	if err != nil {
		return shortcutArgs{}, err
	}
	return shortcutArgs{shortcut: shortcut, input: input}, nil
}

func parseListArgs(args map[string]any) (listArgs, error) {
	filter, err := stringArg(args, "filter")
	if err != nil {
		return listArgs{}, err
	}
	return listArgs{filter: strings.TrimSpace(filter)}, nil
}

func parseRoomArgs(args map[string]any) (roomArgs, error) {
	room, err := stringArg(args, "room")
	if err != nil {
		return roomArgs{}, err
	}
	return roomArgs{room: strings.TrimSpace(room)}, nil
}

func parseThermostatArgs(args map[string]any) (thermostatArgs, error) {
	temperature, err := numberArg(args["temperature"])
	if err != nil {
		return thermostatArgs{}, err
	}
	unit, err := stringArg(args, "unit")
	if err != nil {
		return thermostatArgs{}, err
	}
	if unit == "" {
		unit = unitFahrenheit
	}
	return thermostatArgs{temperature: temperature, unit: unit}, nil
}

// numberArg accepts JSON numbers and numeric strings. Booleans, NaN and
// infinities are not temperatures.
func numberArg(v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case bool, nil, map[string]any, []any:
		return 0, errTemperatureNotNumber
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	case json.Number:
		f, err = n.Float64()
	default:
		f, err = cast.ToFloat64E(n)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errTemperatureNotNumber
	}
	return f, nil
}

// formatTemperature renders the shortest decimal form: 72, 72.5, -3.25.
func formatTemperature(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func unitSymbol(unit string) string {
	if unit == unitCelsius {
		return "C"
	}
	return "F"
}
