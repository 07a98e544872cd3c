package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/folio/internal/config"
	"github.com/example/folio/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a folio project",
		Long: `Write .folio/config.toml in the current directory with the default zone layout
and create the saved-section database it points at.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetBool("seed")
			force, _ := cmd.Flags().GetBool("force")

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg, err := config.LoadConfig(cwd)
			if err != nil || force {
				cfg = config.DefaultConfig()
				if err := config.SaveConfig(cwd, cfg); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", filepath.Join(cwd, ".folio", "config.toml"))
			} else {
				fmt.Println("✓ Existing config kept (use --force to overwrite)")
			}

			if _, err := cfg.Registry(); err != nil {
				return fmt.Errorf("invalid zone configuration: %w", err)
			}

			dbPath, err := cfg.DBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}
			conn, err := db.GetDB(dbPath)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Database initialized at %s\n", dbPath)

			if seed {
				if err := db.SeedFixtures(conn); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Example saved sections added")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  folio zones")
			fmt.Println("  folio run session.yaml")
			return nil
		},
	}

	cmd.Flags().Bool("seed", false, "Add example saved sections to the library")
	cmd.Flags().Bool("force", false, "Overwrite an existing config with the defaults")
	return cmd
}
