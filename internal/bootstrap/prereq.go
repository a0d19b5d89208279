// Package bootstrap checks that the programs operations delegate to are
// reachable before the server starts taking calls.
package bootstrap

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/lydakis/homemcp/internal/config"
)

type lookupPathFunc func(file string) (string, error)

// Finding is the lookup result for one required program.
type Finding struct {
	Role    string
	Program string
	Path    string
	Err     error
}

// OK reports whether the program was found.
func (f Finding) OK() bool { return f.Err == nil }

// Check looks up the shell, scripting interpreter and shortcuts runner.
func Check(cfg config.AutomationConfig) []Finding {
	return checkWithLookup(cfg, exec.LookPath)
}

// CheckPrerequisites returns one joined error naming every missing program.
func CheckPrerequisites(cfg config.AutomationConfig) error {
	return findingsErr(Check(cfg))
}

func checkWithLookup(cfg config.AutomationConfig, lookup lookupPathFunc) []Finding {
	if lookup == nil {
		lookup = exec.LookPath
	}

	required := []struct{ role, program string }{
		{"shell", cfg.Shell},
		{"interpreter", cfg.Interpreter},
		{"runner", cfg.Runner},
	}

	findings := make([]Finding, 0, len(required))
	for _, r := range required {
		program := strings.TrimSpace(r.program)
		f := Finding{Role: r.role, Program: program}
		if program == "" {
			f.Err = fmt.Errorf("no %s configured", r.role)
			findings = append(findings, f)
			continue
		}
		path, err := lookup(program)
		if err != nil {
			f.Err = fmt.Errorf("required %s %q not found in PATH", r.role, program)
		}
		f.Path = path
		findings = append(findings, f)
	}
	return findings
}

func findingsErr(findings []Finding) error {
	var errs []error
	for _, f := range findings {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errors.Join(errs...)
}
