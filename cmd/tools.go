package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BangRocket/mypalclara/internal/config"
	"github.com/BangRocket/mypalclara/internal/log"
	"github.com/BangRocket/mypalclara/internal/mcp"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the MCP server exposes",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Listing the catalog should not emit server logs.
	server, err := buildServer(cfg, log.NewNop())
	if err != nil {
		return err
	}

	return printCatalog(os.Stdout, server.Tools())
}

// printCatalog writes the catalog as a table, one tool per row, in
// registration order.
func printCatalog(w io.Writer, descriptors []*mcp.Descriptor) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tGROUP\tDESCRIPTION")
	for _, d := range descriptors {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Tool.Name, d.Group, d.Tool.Description)
	}
	return tw.Flush()
}
