package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/lydakis/homemcp/internal/schedule"
	"github.com/spf13/cobra"
)

func (a *app) schedulesCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "List configured schedules and when each runs next",
		Long: "List the [[schedules]] entries from the config file.\n" +
			"Schedules only fire while `homemcp serve` is running.",
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			upcoming, err := schedule.Next(cfg.Schedules, time.Now())
			if err != nil {
				return usageError(err)
			}
			if jsonOut {
				err = writeSchedulesJSON(a.stdout, upcoming)
			} else {
				err = writeSchedulesText(a.stdout, upcoming)
			}
			if err != nil {
				return internalError(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print schedules as JSON")
	return cmd
}

func writeSchedulesText(w io.Writer, upcoming []schedule.Upcoming) error {
	if len(upcoming) == 0 {
		_, err := fmt.Fprintln(w, "No schedules configured.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCRON\tTOOL\tNEXT")
	for _, u := range upcoming {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Name, u.Cron, u.Tool, u.Next.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func writeSchedulesJSON(w io.Writer, upcoming []schedule.Upcoming) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(upcoming)
}
