package dlpanel

import (
	"context"
	"fmt"
	"time"

	"github.com/ameistad/dlpanel/internal/helpers"
	"github.com/ameistad/dlpanel/internal/ui"
	"github.com/spf13/cobra"
)

func StatusCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the current or last download",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultContextTimeout)
			defer cancel()

			api := s.apiClient()
			status, err := api.Status(ctx)
			if err != nil {
				ui.Error("Failed to get status: %v", err)
				return err
			}

			if status.RunID == "" {
				ui.Info("No download has run on %s yet", api.BaseURL())
				return nil
			}

			lines := []string{
				fmt.Sprintf("State:    %s", status.State),
				fmt.Sprintf("Name:     %s", status.Request.Name),
				fmt.Sprintf("Type:     %s", status.Request.TypeOfMedia),
				fmt.Sprintf("Language: %s", status.Request.Language),
			}
			if status.StartedAt != nil {
				lines = append(lines, fmt.Sprintf("Started:  %s", helpers.FormatSince(*status.StartedAt, time.Now())))
			}
			if status.ExitError != "" {
				lines = append(lines, fmt.Sprintf("Error:    %s", status.ExitError))
			}
			ui.Section(fmt.Sprintf("Download %s", helpers.ShortID(status.RunID)), lines)
			return nil
		},
	}

	return cmd
}
