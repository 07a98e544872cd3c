package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/folio/internal/wire"
)

// ZonesCmd returns the zones command
func ZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List the configured zones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.PlacementAdapter().Zones(cmd.Context())
		},
	}
}

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [zone]",
		Short: "Show the items placed in one zone or in all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zoneID := ""
			if len(args) == 1 {
				zoneID = args[0]
			}
			return wire.PlacementAdapter().Show(cmd.Context(), zoneID)
		},
	}
}
