package dlpanel

import (
	"context"
	"fmt"

	"github.com/ameistad/dlpanel/internal/apiclient"
	"github.com/ameistad/dlpanel/internal/stopctl"
	"github.com/ameistad/dlpanel/internal/ui"
	"github.com/spf13/cobra"
)

func StopCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running download",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultContextTimeout)
			defer cancel()

			api := s.apiClient(apiclient.WithTimeout(defaultContextTimeout))
			controller := stopctl.New(
				stopctl.NewButton(),
				api,
				stopctl.AlertFunc(ui.Alert),
				stopctl.WithLogger(s.logger),
			)

			ui.Info("Stopping download on %s", api.BaseURL())
			outcome, err := controller.Click(ctx)
			if err != nil {
				ui.Error("Failed to stop download: %v", err)
				return err
			}
			if outcome.Kind != stopctl.Success {
				// The alert already showed the message.
				if outcome.Err != nil {
					return fmt.Errorf("stop request failed: %w", outcome.Err)
				}
				return fmt.Errorf("stop request %s with status %d: %s", outcome.Kind, outcome.Status, outcome.Message)
			}
			message := outcome.Message
			if message == "" {
				message = "Stop request accepted"
			}
			ui.Success("%s", message)
			return nil
		},
	}

	return cmd
}
