package config

// Config is the top-level homemcp configuration.
type Config struct {
	Automation AutomationConfig `toml:"automation"`
	Server     ServerConfig     `toml:"server"`
	Client     ClientConfig     `toml:"client"`
	History    HistoryConfig    `toml:"history"`
	Schedules  []ScheduleConfig `toml:"schedules,omitempty"`
	Log        LogConfig        `toml:"log"`
}

// AutomationConfig describes the external programs operations delegate to.
type AutomationConfig struct {
	Interpreter    string   `toml:"interpreter"`
	Runner         string   `toml:"runner"`
	Shell          string   `toml:"shell"`
	App            string   `toml:"app"`
	MaxOutputBytes int64    `toml:"max_output_bytes"`
	Timeout        string   `toml:"timeout"`
	Keywords       []string `toml:"keywords"`
}

// ServerConfig selects the MCP transport.
type ServerConfig struct {
	Transport string `toml:"transport"`
	HTTPAddr  string `toml:"http_addr"`
	// Watch reloads the automation section when the config file changes.
	Watch bool `toml:"watch"`
}

// ClientConfig points `homemcp call` and `homemcp tools` at a remote
// instance served over HTTP instead of dispatching in-process.
type ClientConfig struct {
	URL     string            `toml:"url,omitempty"`
	Headers map[string]string `toml:"headers,omitempty"`
}

// HistoryConfig controls the local call journal.
type HistoryConfig struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path,omitempty"`
	MaxEntries int    `toml:"max_entries"`
}

// ScheduleConfig runs one tool call on a cron schedule while serving.
type ScheduleConfig struct {
	Name      string         `toml:"name"`
	Cron      string         `toml:"cron"`
	Tool      string         `toml:"tool"`
	Arguments map[string]any `toml:"arguments,omitempty"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Pretty bool   `toml:"pretty"`
}

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Automation: AutomationConfig{
			Interpreter:    "osascript",
			Runner:         "shortcuts",
			Shell:          "/bin/sh",
			App:            "Home",
			MaxOutputBytes: 50 << 20,
			Keywords:       []string{"light", "home", "scene", "lock", "thermostat", "door", "room"},
		},
		Server: ServerConfig{
			Transport: TransportStdio,
			HTTPAddr:  "127.0.0.1:8787",
		},
		History: HistoryConfig{
			MaxEntries: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
