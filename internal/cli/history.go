package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lydakis/homemcp/internal/history"
	"github.com/spf13/cobra"
)

func (a *app) historyCmd() *cobra.Command {
	var (
		limit   int
		tool    string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent tool calls, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			path := cfg.History.HistoryPath()
			if !cfg.History.Enabled {
				if _, err := os.Stat(path); os.IsNotExist(err) {
					fmt.Fprintln(a.stdout, "History is disabled. Set history.enabled = true in the config to record calls.")
					return nil
				}
			}

			store, err := history.Open(path, cfg.History.MaxEntries)
			if err != nil {
				return internalError(err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit, tool)
			if err != nil {
				return internalError(err)
			}
			if jsonOut {
				err = writeHistoryJSON(a.stdout, entries)
			} else {
				err = writeHistoryText(a.stdout, entries)
			}
			if err != nil {
				return internalError(err)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of calls to show")
	cmd.Flags().StringVar(&tool, "tool", "", "only show calls to this tool")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print entries as JSON")
	return cmd
}

func writeHistoryText(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No calls recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		status := "ok"
		if e.IsError {
			status = "error"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.StartedAt.Local().Format(time.DateTime),
			e.Tool,
			status,
			e.Duration.Round(time.Millisecond),
			firstLine(e.Text),
		)
	}
	return tw.Flush()
}

func writeHistoryJSON(w io.Writer, entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
