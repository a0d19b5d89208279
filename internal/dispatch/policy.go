package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/lydakis/homemcp/internal/command"
	"github.com/lydakis/homemcp/internal/invoke"
	"github.com/lydakis/homemcp/internal/response"
)

const listingHeader = "Available home automation shortcuts:"

// quickAction runs a named shortcut whose absence is expected and recoverable.
type quickAction struct {
	shortcut string
	input    string
	success  string
	// purpose completes "create a shortcut ... that <purpose>".
	purpose string
	voice   string
}

// hardResult reports a failed outcome as an error response.
func hardResult(outcome invoke.Outcome, success, failurePrefix string) response.Response {
	if outcome.Failed {
		return response.Error(failurePrefix + ": " + outcome.Diagnostic)
	}
	return response.Text(success)
}

// runQuickAction reports a failed outcome as guidance for creating the shortcut.
func (d *Dispatcher) runQuickAction(ctx context.Context, qa quickAction) response.Response {
	outcome := d.runner.Run(ctx, command.Automation(d.shortcuts, qa.shortcut, qa.input))
	if !outcome.Failed {
		return response.Text(qa.success)
	}
	return response.Text(guidance(qa))
}

func guidance(qa quickAction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Could not run the shortcut \"%s\".\n", qa.shortcut)
	fmt.Fprintf(&b, "To set this up, create a shortcut named \"%s\" in the Shortcuts app that %s.\n", qa.shortcut, qa.purpose)
	fmt.Fprintf(&b, "You can also ask Siri: \"%s\"", qa.voice)
	return b.String()
}

// filterShortcuts keeps non-blank lines containing filter, or any keyword
// when filter is empty. Matching is case-insensitive.
func filterShortcuts(output, filter string, keywords []string) []string {
	needles := keywords
	if filter != "" {
		needles = []string{filter}
	}
	lowered := make([]string, 0, len(needles))
	for _, n := range needles {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			lowered = append(lowered, n)
		}
	}

	var out []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name := strings.ToLower(line)
		for _, n := range lowered {
			if strings.Contains(name, n) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}

func listingResult(outcome invoke.Outcome, filter string, keywords []string) response.Response {
	if outcome.Failed {
		return response.Error("Error listing shortcuts: " + outcome.Diagnostic)
	}

	matches := filterShortcuts(outcome.Stdout, filter, keywords)
	if len(matches) == 0 {
		if filter != "" {
			return response.Text(fmt.Sprintf("No shortcuts found matching \"%s\".", filter))
		}
		return response.Text("No home automation shortcuts found.")
	}
	return response.Text(listingHeader + "\n" + strings.Join(matches, "\n"))
}
