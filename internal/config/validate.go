package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lydakis/homemcp/internal/catalog"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Validate checks configuration invariants and returns actionable errors.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	var errs []error
	errs = append(errs, validateAutomation(cfg.Automation)...)
	errs = append(errs, validateServer(cfg.Server)...)
	errs = append(errs, validateClient(cfg.Client)...)
	errs = append(errs, validateHistory(cfg.History)...)
	errs = append(errs, validateSchedules(cfg.Schedules)...)
	errs = append(errs, validateLog(cfg.Log)...)
	return errors.Join(errs...)
}

func validateAutomation(a AutomationConfig) []error {
	var errs []error

	for _, field := range []struct {
		name  string
		value string
	}{
		{"interpreter", a.Interpreter},
		{"runner", a.Runner},
		{"shell", a.Shell},
		{"app", a.App},
	} {
		if strings.TrimSpace(field.value) == "" {
			errs = append(errs, fmt.Errorf("automation.%s: must not be empty", field.name))
		}
	}

	if a.MaxOutputBytes <= 0 {
		errs = append(errs, fmt.Errorf("automation.max_output_bytes: must be > 0, got %d", a.MaxOutputBytes))
	}

	if timeout, err := a.TimeoutDuration(); err != nil {
		errs = append(errs, fmt.Errorf("automation.timeout: %w", err))
	} else if timeout < 0 {
		errs = append(errs, fmt.Errorf("automation.timeout: must be >= 0, got %q", a.Timeout))
	}

	for i, kw := range a.Keywords {
		if strings.TrimSpace(kw) == "" {
			errs = append(errs, fmt.Errorf("automation.keywords[%d]: must not be empty", i))
		}
	}

	return errs
}

func validateServer(s ServerConfig) []error {
	var errs []error

	switch s.Transport {
	case TransportStdio:
	case TransportHTTP:
		if strings.TrimSpace(s.HTTPAddr) == "" {
			errs = append(errs, fmt.Errorf("server.http_addr: required for the %s transport", TransportHTTP))
		}
	default:
		errs = append(errs, fmt.Errorf("server.transport: unknown transport %q, want %s or %s", s.Transport, TransportStdio, TransportHTTP))
	}

	return errs
}

func validateClient(c ClientConfig) []error {
	var errs []error

	if c.URL != "" {
		u, err := url.Parse(c.URL)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("client.url: %w", err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, fmt.Errorf("client.url: scheme must be http or https, got %q", u.Scheme))
		case u.Host == "":
			errs = append(errs, fmt.Errorf("client.url: missing host"))
		}
	}

	for name := range c.Headers {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("client.headers: header name must not be empty"))
		}
	}

	return errs
}

func validateHistory(h HistoryConfig) []error {
	if h.MaxEntries < 0 {
		return []error{fmt.Errorf("history.max_entries: must be >= 0, got %d", h.MaxEntries)}
	}
	return nil
}

func validateSchedules(schedules []ScheduleConfig) []error {
	var errs []error

	seen := make(map[string]bool, len(schedules))
	for i, sc := range schedules {
		label := fmt.Sprintf("schedules[%d]", i)
		if sc.Name != "" {
			label = fmt.Sprintf("schedules[%d] (%s)", i, sc.Name)
			if seen[sc.Name] {
				errs = append(errs, fmt.Errorf("%s: duplicate name", label))
			}
			seen[sc.Name] = true
		}

		if strings.TrimSpace(sc.Cron) == "" {
			errs = append(errs, fmt.Errorf("%s.cron: must not be empty", label))
		} else if _, err := cron.ParseStandard(sc.Cron); err != nil {
			errs = append(errs, fmt.Errorf("%s.cron: %w", label, err))
		}

		if _, ok := catalog.Lookup(sc.Tool); !ok {
			errs = append(errs, fmt.Errorf("%s.tool: unknown tool %q", label, sc.Tool))
		}
	}

	return errs
}

func validateLog(l LogConfig) []error {
	if l.Level == "" {
		return nil
	}
	if _, err := zerolog.ParseLevel(l.Level); err != nil {
		return []error{fmt.Errorf("log.level: %w", err)}
	}
	return nil
}
