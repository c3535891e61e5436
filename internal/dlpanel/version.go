package dlpanel

import (
	"context"
	"fmt"
	"time"

	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/ameistad/dlpanel/internal/ui"
	"github.com/spf13/cobra"
)

func VersionCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of dlpanel and of the server it talks to",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dlpanel %s\n", constants.Version)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
			defer cancel()

			api := s.apiClient()
			response, err := api.Version(ctx)
			if err != nil {
				ui.Warn("Server at %s is not reachable: %v", api.BaseURL(), err)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "server %s\n", response.Version)
		},
	}

	return cmd
}
