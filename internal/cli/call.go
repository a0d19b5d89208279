package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lydakis/homemcp/internal/catalog"
	"github.com/lydakis/homemcp/internal/config"
	"github.com/lydakis/homemcp/internal/dispatch"
	"github.com/lydakis/homemcp/internal/httpheaders"
	"github.com/lydakis/homemcp/internal/response"
	"github.com/lydakis/homemcp/internal/server"
	"github.com/spf13/cobra"
)

const remoteDialTimeout = 10 * time.Second

func (a *app) callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [--param=value ... | JSON]",
		Short: "Run one tool and print its response",
		Long: "Run one tool and print its response.\n\n" +
			"Tool parameters are given as --param=value flags, as one JSON object argument,\n" +
			"or as a JSON object on stdin. Run `homemcp call <tool> --help` for a tool's flags.\n\n" +
			"An unknown tool prints \"Unknown tool: <name>\" and exits 1. With --url the remote\n" +
			"server rejects it as a protocol error and the call exits 3.",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), args)
		},
	}
}

func (a *app) call(ctx context.Context, args []string) error {
	parsed, err := parseToolCallArgs(args, a.stdin, stdinIsTTY(a.stdin))
	if err != nil {
		return usageError(err)
	}
	if parsed.quiet {
		a.stderr = io.Discard
	}
	if parsed.configPath != "" {
		a.configPath = parsed.configPath
	}

	if parsed.help {
		return a.callHelp(parsed.tool)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	level := "warn"
	if parsed.verbose {
		level = "debug"
	}
	if err := a.setupLogging(cfg.Log, level); err != nil {
		return err
	}

	req := dispatch.Request{Name: parsed.tool, Arguments: parsed.toolArgs}
	resp, err := a.runCall(ctx, cfg, parsed, req)
	if err != nil {
		return err
	}
	return a.writeCallResponse(resp, parsed.output)
}

func (a *app) callHelp(tool string) error {
	if tool == "" {
		fmt.Fprintln(a.stdout, "Usage: homemcp call <tool> [--param=value ... | JSON]")
		fmt.Fprintln(a.stdout, "\nTools:")
		for _, name := range catalog.Names() {
			fmt.Fprintf(a.stdout, "  %s\n", name)
		}
		fmt.Fprintln(a.stdout, "\nAn unknown tool prints \"Unknown tool: <name>\" and exits 1. With --url the")
		fmt.Fprintln(a.stdout, "remote server rejects it as a protocol error and the call exits 3.")
		return nil
	}
	t, ok := catalog.Lookup(tool)
	if !ok {
		return usageError(fmt.Errorf("unknown tool: %s", tool))
	}
	printToolHelp(a.stdout, t)
	return nil
}

// runCall dispatches in-process, or over HTTP when a remote URL is set.
func (a *app) runCall(ctx context.Context, cfg *config.Config, parsed *toolCallArgs, req dispatch.Request) (response.Response, error) {
	client, err := a.dialRemote(ctx, cfg.Client, parsed.url, parsed.headers)
	if err != nil {
		return response.Response{}, err
	}
	if client == nil {
		store, rec, err := openHistory(cfg.History)
		if err != nil {
			return response.Response{}, err
		}
		if store != nil {
			defer store.Close()
		}
		d, err := newDispatcher(cfg.Automation, rec)
		if err != nil {
			return response.Response{}, usageError(err)
		}
		return d.Dispatch(ctx, req), nil
	}
	defer client.Close()

	resp, err := client.Call(ctx, req)
	if err != nil {
		return response.Response{}, internalError(fmt.Errorf("calling %s remotely: %w", req.Name, err))
	}
	return resp, nil
}

// dialRemote returns nil when neither url nor the configured client URL is set.
func (a *app) dialRemote(ctx context.Context, cc config.ClientConfig, url string, headerFlags []string) (*server.Client, error) {
	if url == "" {
		url = cc.URL
	}
	if url == "" {
		return nil, nil
	}

	flagHeaders, err := httpheaders.Parse(headerFlags)
	if err != nil {
		return nil, usageError(err)
	}
	headers := httpheaders.Merge(cc.Headers, flagHeaders)

	dialCtx, cancel := context.WithTimeout(ctx, remoteDialTimeout)
	defer cancel()
	client, err := server.Dial(dialCtx, url, buildVersion, headers)
	if err != nil {
		return nil, internalError(fmt.Errorf("connecting to %s: %w", url, err))
	}
	return client, nil
}

func (a *app) writeCallResponse(resp response.Response, mode outputMode) error {
	if mode.isJSON() {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return internalError(fmt.Errorf("writing response: %w", err))
		}
		if resp.IsError {
			return silentExit(response.ExitToolErr)
		}
		return nil
	}

	out, code := response.Render(resp)
	w := a.stdout
	if resp.IsError {
		w = a.stderr
	}
	if _, err := w.Write(out); err != nil {
		return internalError(fmt.Errorf("writing response: %w", err))
	}
	if code != response.ExitOK {
		return silentExit(code)
	}
	return nil
}
