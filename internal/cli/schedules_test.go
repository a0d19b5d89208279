package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lydakis/homemcp/internal/response"
	"github.com/lydakis/homemcp/internal/schedule"
)

func TestRunSchedulesNoneConfigured(t *testing.T) {
	cfg := writeConfig(t, "true", "true", "")

	stdout, _, code := runCLI(t, "", "schedules", "--config", cfg)
	if code != response.ExitOK {
		t.Fatalf("code = %d, want 0", code)
	}
	if stdout != "No schedules configured.\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRunSchedulesListsNextRuns(t *testing.T) {
	extra := `
[[schedules]]
name = "evening"
cron = "0 19 * * *"
tool = "run_scene"
arguments = { scene = "Evening" }

[[schedules]]
name = "lock-up"
cron = "30 23 * * *"
tool = "lock_doors"
`
	cfg := writeConfig(t, "true", "true", extra)

	stdout, stderr, code := runCLI(t, "", "schedules", "--config", cfg, "--json")
	if code != response.ExitOK {
		t.Fatalf("code = %d, want 0 (stderr %q)", code, stderr)
	}
	var upcoming []schedule.Upcoming
	if err := json.Unmarshal([]byte(stdout), &upcoming); err != nil {
		t.Fatalf("schedules output is not JSON: %v\n%s", err, stdout)
	}
	if len(upcoming) != 2 {
		t.Fatalf("len(upcoming) = %d, want 2", len(upcoming))
	}
	for _, u := range upcoming {
		if u.Next.IsZero() {
			t.Fatalf("schedule %s has no next run", u.Name)
		}
	}

	stdout, _, code = runCLI(t, "", "schedules", "--config", cfg)
	if code != response.ExitOK {
		t.Fatalf("text code = %d, want 0", code)
	}
	if !strings.HasPrefix(stdout, "NAME") || !strings.Contains(stdout, "lock_doors") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRunSchedulesRejectsUnknownTool(t *testing.T) {
	extra := `
[[schedules]]
cron = "@hourly"
tool = "make_coffee"
`
	cfg := writeConfig(t, "true", "true", extra)

	_, stderr, code := runCLI(t, "", "schedules", "--config", cfg)
	if code != response.ExitUsageErr {
		t.Fatalf("code = %d, want %d", code, response.ExitUsageErr)
	}
	if !strings.Contains(stderr, "invalid config") {
		t.Fatalf("stderr = %q", stderr)
	}
}
