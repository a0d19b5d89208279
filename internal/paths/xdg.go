package paths

import (
	"os"
	"path/filepath"
)

const appName = "homemcp"

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

func xdgDir(envVar, fallbackSuffix string) string {
	if v := os.Getenv(envVar); v != "" {
		return filepath.Join(v, appName)
	}
	return filepath.Join(homeDir(), fallbackSuffix, appName)
}

// ConfigDir returns the homemcp config directory ($XDG_CONFIG_HOME/homemcp).
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the homemcp state directory ($XDG_STATE_HOME/homemcp).
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// ConfigFile returns the path to config.toml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogFile returns the suggested log file location for `log.file`.
func LogFile() string {
	return filepath.Join(StateDir(), "homemcp.log")
}

// HistoryFile returns the default call journal location.
func HistoryFile() string {
	return filepath.Join(StateDir(), "history.db")
}
