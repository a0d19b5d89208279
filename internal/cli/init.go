package cli

import (
	"errors"
	"fmt"

	"github.com/lydakis/homemcp/internal/config"
	"github.com/lydakis/homemcp/internal/response"
	"github.com/spf13/cobra"
)

func (a *app) initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path := a.configPath
			if path == "" {
				path = config.ExampleConfigPath()
			}
			if err := config.Init(path, force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return &exitError{code: response.ExitToolErr, err: fmt.Errorf("%w (use --force to overwrite)", err)}
				}
				return internalError(err)
			}
			fmt.Fprintf(a.stdout, "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}
