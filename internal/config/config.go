package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lydakis/homemcp/internal/paths"
)

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the default config file and returns the parsed Config.
// If the config file does not exist, it returns Default() (no error).
func Load() (*Config, error) {
	return LoadFrom(paths.ConfigFile())
}

// LoadFrom reads and parses a config file at the given path on top of the
// defaults. Keys absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	expandConfigEnvVars(cfg)
	return cfg, nil
}

// ExampleConfigPath returns the default config file path (for help messages).
func ExampleConfigPath() string {
	return paths.ConfigFile()
}

// TimeoutDuration returns the invocation timeout, zero when unset.
func (a AutomationConfig) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", a.Timeout, err)
	}
	return d, nil
}

func expandConfigEnvVars(cfg *Config) {
	if cfg == nil {
		return
	}

	a := &cfg.Automation
	a.Interpreter = expandEnvVars(a.Interpreter)
	a.Runner = expandEnvVars(a.Runner)
	a.Shell = expandEnvVars(a.Shell)
	a.App = expandEnvVars(a.App)
	a.Timeout = expandEnvVars(a.Timeout)

	cfg.Server.HTTPAddr = expandEnvVars(cfg.Server.HTTPAddr)
	cfg.Client.URL = expandEnvVars(cfg.Client.URL)
	for k, v := range cfg.Client.Headers {
		cfg.Client.Headers[k] = expandEnvVars(v)
	}
	cfg.History.Path = expandEnvVars(cfg.History.Path)
	cfg.Log.File = expandEnvVars(cfg.Log.File)
	cfg.Log.Level = expandEnvVars(cfg.Log.Level)
}

// HistoryPath returns the journal location, defaulting under the state dir.
func (h HistoryConfig) HistoryPath() string {
	if h.Path != "" {
		return h.Path
	}
	return paths.HistoryFile()
}

// expandEnvVars replaces ${VAR_NAME} with the value of the environment variable.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRe.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match // leave unresolved vars as-is
	})
}
