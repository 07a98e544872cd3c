package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/folio/internal/wire"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved sections in the library",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.PlacementAdapter().Library(cmd.Context())
	},
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete [saved-id]",
	Short: "Delete a saved section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.PlacementAdapter().DeleteSaved(cmd.Context(), args[0])
	},
}

// SavedCmd returns the saved command
func SavedCmd() *cobra.Command {
	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedDeleteCmd)
	return savedCmd
}
