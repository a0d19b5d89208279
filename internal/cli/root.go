// Package cli implements the homemcp command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/lydakis/homemcp/internal/config"
	"github.com/lydakis/homemcp/internal/dispatch"
	"github.com/lydakis/homemcp/internal/history"
	"github.com/lydakis/homemcp/internal/invoke"
	"github.com/lydakis/homemcp/internal/logging"
	"github.com/lydakis/homemcp/internal/response"
	"github.com/spf13/cobra"
)

// exitError carries a process exit code out of a cobra RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error    { return &exitError{code: response.ExitUsageErr, err: err} }
func internalError(err error) error { return &exitError{code: response.ExitInternal, err: err} }

// silentExit ends the command with code without printing anything further.
func silentExit(code int) error { return &exitError{code: code} }

type app struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	logger     *logging.Logger
}

// Run is the main CLI entry point. Returns an exit code.
func Run(args []string) int {
	a := &app{stdin: rootStdin, stdout: rootStdout, stderr: rootStderr}
	defer a.closeLogger()

	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.Execute()
	if err == nil {
		return response.ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(a.stderr, "homemcp: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(a.stderr, "homemcp: %v\n", err)
	return response.ExitUsageErr
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "homemcp",
		Short: "Home automation tools for MCP clients",
		Long: "homemcp serves ten home automation tools over the Model Context Protocol.\n" +
			"Each tool runs an AppleScript snippet or a named shortcut on this machine.\n" +
			"Without a subcommand it serves MCP using the configured transport.",
		Version:       buildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), serveOptions{})
		},
	}
	root.SetVersionTemplate("homemcp {{.Version}}\n")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to config.toml (default: "+config.ExampleConfigPath()+")")

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.callCmd())
	root.AddCommand(a.toolsCmd())
	root.AddCommand(a.historyCmd())
	root.AddCommand(a.schedulesCmd())
	root.AddCommand(a.doctorCmd())
	root.AddCommand(a.initCmd())
	return root
}

// loadConfig reads and validates the configuration selected by --config.
func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFrom(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, internalError(err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, usageError(fmt.Errorf("invalid config: %w", err))
	}
	return cfg, nil
}

// setupLogging installs the global logger. A non-empty level overrides the
// configured one.
func (a *app) setupLogging(cfg config.LogConfig, level string) error {
	if level != "" {
		cfg.Level = level
	}
	logger, err := logging.New(logging.Config{
		Level:  cfg.Level,
		File:   cfg.File,
		Pretty: cfg.Pretty,
		Stderr: a.stderr,
	})
	if err != nil {
		return internalError(err)
	}
	a.closeLogger()
	a.logger = logger
	return nil
}

func (a *app) closeLogger() {
	if a.logger != nil {
		_ = a.logger.Close()
		a.logger = nil
	}
}

func newDispatcher(cfg config.AutomationConfig, rec dispatch.Recorder) (*dispatch.Dispatcher, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	runner := invoke.New(invoke.Options{
		Shell:     cfg.Shell,
		MaxOutput: cfg.MaxOutputBytes,
		Timeout:   timeout,
	})
	return dispatch.New(dispatch.Options{
		Runner:      runner,
		Interpreter: cfg.Interpreter,
		Shortcuts:   cfg.Runner,
		App:         cfg.App,
		Keywords:    cfg.Keywords,
		Recorder:    rec,
	}), nil
}

// openHistory opens the call journal when enabled. The returned recorder is
// nil otherwise.
func openHistory(cfg config.HistoryConfig) (*history.Store, dispatch.Recorder, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}
	store, err := history.Open(cfg.HistoryPath(), cfg.MaxEntries)
	if err != nil {
		return nil, nil, internalError(err)
	}
	return store, store, nil
}

func stdinIsTTY(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return true
	}
	return info.Mode()&fs.ModeCharDevice != 0
}
