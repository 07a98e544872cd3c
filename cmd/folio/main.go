package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/example/folio/internal/cli"
	"github.com/example/folio/internal/ctxutil"
	"github.com/example/folio/internal/version"
	"github.com/example/folio/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "folio",
		Short:   "folio - zone-based page layout editor",
		Version: version.String(),
		Long: `folio arranges content items into the zones of a page template.
Items are dragged between zones under each zone's kind and capacity rules,
and reusable sections are kept in a persistent library.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				wire.SetLogLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ZonesCmd())
	rootCmd.AddCommand(cli.ShowCmd())
	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.SavedCmd())

	ctx := ctxutil.WithLogger(context.Background(), wire.Logger())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
