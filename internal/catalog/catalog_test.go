package catalog

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestToolsMatchNames(t *testing.T) {
	tools := Tools()
	names := Names()
	if len(tools) != len(names) {
		t.Fatalf("len(Tools()) = %d, want %d", len(tools), len(names))
	}
	for i, tool := range tools {
		if tool.Name != names[i] {
			t.Fatalf("Tools()[%d].Name = %q, want %q", i, tool.Name, names[i])
		}
		if tool.Description == "" {
			t.Fatalf("tool %s has no description", tool.Name)
		}
		if tool.InputSchema.Type != "object" {
			t.Fatalf("tool %s schema type = %q, want object", tool.Name, tool.InputSchema.Type)
		}
	}
}

func TestRequiredArguments(t *testing.T) {
	tests := map[string][]string{
		RunScene:      {"scene"},
		ControlDevice: {"shortcut"},
		SetThermostat: {"temperature"},
		LightsOn:      nil,
		LockDoors:     nil,
	}

	for name, want := range tests {
		tool, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) ok = false", name)
		}
		got := tool.InputSchema.Required
		if len(got) == 0 && len(want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s required = %#v, want %#v", name, got, want)
		}
	}
}

func TestToolsReturnsIndependentValues(t *testing.T) {
	first := Tools()
	first[0].Name = "mutated"

	if Tools()[0].Name != OpenHomeApp {
		t.Fatal("Tools() shares state between calls")
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("not_a_real_tool"); ok {
		t.Fatal("Lookup(not_a_real_tool) ok = true, want false")
	}
}

func TestCheckRequiredMissing(t *testing.T) {
	tool, _ := Lookup(RunScene)

	err := CheckRequired(tool, map[string]any{})
	if err == nil {
		t.Fatal("CheckRequired() error = nil, want non-nil")
	}
	if !strings.Contains(err.Error(), "scene is required") {
		t.Fatalf("CheckRequired() error = %q, want to contain %q", err.Error(), "scene is required")
	}
}

func TestCheckRequiredNullCountsAsMissing(t *testing.T) {
	tool, _ := Lookup(SetThermostat)

	if err := CheckRequired(tool, map[string]any{"temperature": nil}); err == nil {
		t.Fatal("CheckRequired() error = nil, want non-nil")
	}
}

func TestCheckRequiredIgnoresTypes(t *testing.T) {
	tool, _ := Lookup(SetThermostat)

	if err := CheckRequired(tool, map[string]any{"temperature": "72", "unit": "kelvin"}); err != nil {
		t.Fatalf("CheckRequired() error = %v, want nil", err)
	}
}

func TestCheckRequiredNoRequirements(t *testing.T) {
	tool, _ := Lookup(LightsOn)

	if err := CheckRequired(tool, nil); err != nil {
		t.Fatalf("CheckRequired() error = %v, want nil", err)
	}
}

func TestCheckRequiredAcceptsUnencodableValues(t *testing.T) {
	tool, _ := Lookup(SetThermostat)

	if err := CheckRequired(tool, map[string]any{"temperature": math.Inf(-1)}); err != nil {
		t.Fatalf("CheckRequired() error = %v, want nil", err)
	}
}
