package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lydakis/homemcp/internal/history"
	"github.com/lydakis/homemcp/internal/response"
)

func TestRunHistoryDisabledPrintsHint(t *testing.T) {
	cfg := writeConfig(t, "true", "true", "")

	stdout, _, code := runCLI(t, "", "history", "--config", cfg)
	if code != response.ExitOK {
		t.Fatalf("code = %d, want 0", code)
	}
	if !strings.Contains(stdout, "history.enabled = true") {
		t.Fatalf("stdout = %q, want enable hint", stdout)
	}
}

func TestRunHistoryListsRecordedCalls(t *testing.T) {
	cfg := writeConfig(t, "true", "true", "[history]\nenabled = true\n")

	if _, stderr, code := runCLI(t, "", "call", "--config", cfg, "lights_on", "--room=Kitchen"); code != response.ExitOK {
		t.Fatalf("lights_on code = %d (stderr %q)", code, stderr)
	}
	if _, stderr, code := runCLI(t, "", "call", "--config", cfg, "run_scene", "--scene=Movie"); code != response.ExitOK {
		t.Fatalf("run_scene code = %d (stderr %q)", code, stderr)
	}

	stdout, stderr, code := runCLI(t, "", "history", "--config", cfg, "--json")
	if code != response.ExitOK {
		t.Fatalf("code = %d, want 0 (stderr %q)", code, stderr)
	}
	var entries []history.Entry
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("history output is not JSON: %v\n%s", err, stdout)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Tool != "run_scene" || entries[1].Tool != "lights_on" {
		t.Fatalf("tools = %q, %q, want newest first", entries[0].Tool, entries[1].Tool)
	}
	if entries[1].Arguments["room"] != "Kitchen" || entries[1].IsError {
		t.Fatalf("lights_on entry = %+v", entries[1])
	}

	stdout, _, code = runCLI(t, "", "history", "--config", cfg, "--tool", "lights_on")
	if code != response.ExitOK {
		t.Fatalf("filtered code = %d, want 0", code)
	}
	if !strings.Contains(stdout, "Lights turned on in Kitchen") || strings.Contains(stdout, "run_scene") {
		t.Fatalf("filtered stdout = %q", stdout)
	}
}

func TestRunHistoryEmptyJournal(t *testing.T) {
	cfg := writeConfig(t, "true", "true", "[history]\nenabled = true\n")

	stdout, _, code := runCLI(t, "", "history", "--config", cfg)
	if code != response.ExitOK {
		t.Fatalf("code = %d, want 0", code)
	}
	if stdout != "No calls recorded.\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("a\nb"); got != "a" {
		t.Fatalf("firstLine() = %q, want a", got)
	}
	if got := firstLine("single"); got != "single" {
		t.Fatalf("firstLine() = %q, want single", got)
	}
}
