package cli

import (
	"context"
	"fmt"

	"github.com/lydakis/homemcp/internal/catalog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

func (a *app) toolsCmd() *cobra.Command {
	var (
		jsonOut bool
		url     string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "tools [tool]",
		Short: "List the available tools, or show one tool's flags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				tool, ok := catalog.Lookup(args[0])
				if !ok {
					return usageError(fmt.Errorf("unknown tool: %s", args[0]))
				}
				printToolHelp(a.stdout, tool)
				return nil
			}

			tools, err := a.listTools(cmd.Context(), url, headers)
			if err != nil {
				return err
			}
			entries := toolListEntries(tools)
			if jsonOut {
				err = writeToolListJSON(a.stdout, entries)
			} else {
				err = writeToolListText(a.stdout, entries)
			}
			if err != nil {
				return internalError(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print names, descriptions and input schemas as JSON")
	cmd.Flags().StringVar(&url, "url", "", "list the tools of a homemcp instance served over HTTP")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra HTTP header for --url (\"Name: value\")")
	return cmd
}

func (a *app) listTools(ctx context.Context, url string, headers []string) ([]mcp.Tool, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := a.dialRemote(ctx, cfg.Client, url, headers)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return catalog.Tools(), nil
	}
	defer client.Close()

	tools, err := client.ListTools(ctx)
	if err != nil {
		return nil, internalError(fmt.Errorf("listing remote tools: %w", err))
	}
	return tools, nil
}
