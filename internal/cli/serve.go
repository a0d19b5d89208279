package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/lydakis/homemcp/internal/bootstrap"
	"github.com/lydakis/homemcp/internal/config"
	"github.com/lydakis/homemcp/internal/dispatch"
	"github.com/lydakis/homemcp/internal/response"
	"github.com/lydakis/homemcp/internal/schedule"
	"github.com/lydakis/homemcp/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		transport string
		addr      string
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP (stdio or streamable HTTP)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), serveOptions{transport: transport, addr: addr, watch: watch})
		},
	}
	cmd.Flags().StringVarP(&transport, "transport", "t", "", "transport to serve: stdio or http (default from config)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address for the http transport (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload automation settings when the config file changes")
	return cmd
}

type serveOptions struct {
	transport string
	addr      string
	watch     bool
}

// liveDispatcher forwards to the current dispatcher, which a config reload
// may replace between calls.
type liveDispatcher struct {
	current atomic.Pointer[dispatch.Dispatcher]
}

func (l *liveDispatcher) Dispatch(ctx context.Context, req dispatch.Request) response.Response {
	return l.current.Load().Dispatch(ctx, req)
}

func (a *app) serve(ctx context.Context, opts serveOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if opts.transport != "" {
		cfg.Server.Transport = opts.transport
	}
	if opts.addr != "" {
		cfg.Server.HTTPAddr = opts.addr
	}
	if opts.watch {
		cfg.Server.Watch = true
	}
	if err := config.Validate(cfg); err != nil {
		return usageError(err)
	}
	if err := a.setupLogging(cfg.Log, ""); err != nil {
		return err
	}

	if err := bootstrap.CheckPrerequisites(cfg.Automation); err != nil {
		log.Warn().Err(err).Msg("automation programs missing; affected tools will report failures")
	}

	store, rec, err := openHistory(cfg.History)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	d, err := newDispatcher(cfg.Automation, rec)
	if err != nil {
		return usageError(err)
	}
	live := &liveDispatcher{}
	live.current.Store(d)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	bgCtx, cancelBackground := context.WithCancel(ctx)
	defer cancelBackground()

	if len(cfg.Schedules) > 0 {
		sched, err := schedule.New(live, cfg.Schedules)
		if err != nil {
			return usageError(err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.Run(bgCtx)
		}()
	}

	if cfg.Server.Watch {
		path := a.configPath
		if path == "" {
			path = config.ExampleConfigPath()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := config.Watch(bgCtx, path, config.DefaultWatchDebounce, func(next *config.Config) {
				a.reload(live, next, rec)
			})
			if err != nil {
				log.Error().Err(err).Msg("config watcher stopped")
			}
		}()
	}

	srv := server.New(live, buildVersion)
	switch cfg.Server.Transport {
	case config.TransportHTTP:
		err = srv.ServeHTTP(ctx, cfg.Server.HTTPAddr)
	default:
		err = srv.ServeStdio(ctx, a.stdin, a.stdout)
	}
	cancelBackground()
	if err != nil {
		return internalError(fmt.Errorf("serving %s: %w", cfg.Server.Transport, err))
	}
	return nil
}

// reload swaps in a dispatcher built from next's automation settings.
// Transport, logging, history and schedules keep their startup values.
func (a *app) reload(live *liveDispatcher, next *config.Config, rec dispatch.Recorder) {
	d, err := newDispatcher(next.Automation, rec)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring config change")
		return
	}
	live.current.Store(d)
	log.Info().
		Str("interpreter", next.Automation.Interpreter).
		Str("runner", next.Automation.Runner).
		Strs("keywords", next.Automation.Keywords).
		Msg("automation settings reloaded")
}
