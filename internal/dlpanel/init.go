package dlpanel

import (
	"fmt"
	"os"

	"github.com/ameistad/dlpanel/internal/config"
	"github.com/ameistad/dlpanel/internal/ui"
	"github.com/spf13/cobra"
)

func InitCmd(s *session) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the current settings",
		Long: `Write a config file with the current settings.

The format follows the file extension: .yaml, .yml, .json or .toml.
Without a path the file is written to the dlpanel config directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			} else {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
			}

			if err := s.config.Save(path); err != nil {
				return err
			}
			ui.Success("Config written to %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}
