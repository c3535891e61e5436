package dlpanel

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ameistad/dlpanel/internal/logstream"
	"github.com/ameistad/dlpanel/internal/ui"
	"github.com/spf13/cobra"
)

func LogsCmd(s *session) *cobra.Command {
	var noReconnect bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Stream the download output from the dlpanel server",
		Long: `Stream every output line of the download from the dlpanel server in real-time.

The stream reconnects when the connection drops and continues until interrupted (Ctrl+C).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := s.apiClient()

			ui.Info("Connecting to dlpanel server at %s", api.BaseURL())
			ui.Info("Streaming logs... (Press Ctrl+C to stop)")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stream, err := logstream.New(logstream.Config{
				URL:            api.StreamURL(),
				View:           ui.LogView{},
				Logger:         &s.logger,
				Reconnect:      s.config.Client.Reconnect && !noReconnect,
				ReconnectDelay: s.config.Client.ReconnectDelay.Std(),
			})
			if err != nil {
				return err
			}

			if err := stream.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				ui.Error("Failed to stream logs: %v", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noReconnect, "no-reconnect", false, "Exit when the stream ends instead of reconnecting")
	return cmd
}
