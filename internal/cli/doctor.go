package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/lydakis/homemcp/internal/bootstrap"
	"github.com/lydakis/homemcp/internal/config"
	"github.com/lydakis/homemcp/internal/response"
	"github.com/spf13/cobra"
)

func (a *app) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration and the programs tools delegate to",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.doctor()
		},
	}
}

func (a *app) doctor() error {
	path := a.configPath
	if path == "" {
		path = config.ExampleConfigPath()
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(a.stdout, "config   %s (not found, using defaults)\n", path)
	} else {
		fmt.Fprintf(a.stdout, "config   %s\n", path)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	healthy := true
	for _, f := range bootstrap.Check(cfg.Automation) {
		if f.OK() {
			fmt.Fprintf(a.stdout, "ok       %-11s %s\n", f.Role, f.Path)
			continue
		}
		healthy = false
		fmt.Fprintf(a.stdout, "missing  %-11s %v\n", f.Role, f.Err)
	}

	if runtime.GOOS != "darwin" {
		fmt.Fprintf(a.stdout, "note     the default interpreter and runner ship with macOS; this is %s\n", runtime.GOOS)
	}

	if !healthy {
		return silentExit(response.ExitToolErr)
	}
	return nil
}
