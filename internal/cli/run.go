package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/folio/internal/ctxutil"
	"github.com/example/folio/internal/script"
	"github.com/example/folio/internal/wire"
)

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [script.yaml]",
		Short: "Replay an editing session script",
		Long: `Replay a YAML editing session against the project's zones.

Each step performs one intent (add, update, drag, save, remove, reorder...)
or asserts on the result with expect. Saved sections created by the script
are persisted to the library database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			s, err := script.Load(path)
			if err != nil {
				return err
			}
			ctxutil.LoggerFromContext(cmd.Context()).Debug("script loaded", "path", path, "steps", len(s.Steps))

			adapter := wire.PlacementAdapter()
			if err := adapter.Run(cmd.Context(), s, filepath.Dir(path)); err != nil {
				return err
			}

			show, _ := cmd.Flags().GetBool("show")
			if show {
				return adapter.Show(cmd.Context(), "")
			}
			return nil
		},
	}

	cmd.Flags().Bool("show", false, "Print the final placement after the script")
	return cmd
}
