package dlpanel

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ameistad/dlpanel/internal/api"
	"github.com/ameistad/dlpanel/internal/logging"
	"github.com/ameistad/dlpanel/internal/runner"
	"github.com/ameistad/dlpanel/internal/ui"
	"github.com/spf13/cobra"
)

func ServeCmd(s *session) *cobra.Command {
	var listen string
	var command []string
	var dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dlpanel server",
		Long: `Run the dlpanel server.

The server starts the download command on POST /start-download, streams every
output line to clients on GET /log_stream and stops the download on POST /stop.

Its own log output is streamed to clients as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.config
			if listen != "" {
				cfg.Server.Listen = listen
			}
			if len(command) > 0 {
				cfg.Server.Command = command
			}
			if dir != "" {
				cfg.Server.Dir = dir
			}

			broker := logging.NewBroker(cfg.Server.SubscriberBuffer)
			brokerWriter := broker.Writer()
			logger := logging.Init(logging.Options{
				Level:   logging.ParseLevel(cfg.LogLevel),
				Writer:  os.Stderr,
				Console: true,
				Extra:   []io.Writer{brokerWriter},
			})

			r, err := runner.New(runner.Config{
				Command:     cfg.Server.Command,
				Dir:         cfg.Server.Dir,
				GracePeriod: cfg.Server.GracePeriod.Std(),
				Logger:      &logger,
			}, broker)
			if err != nil {
				return err
			}

			server := api.NewServer(broker, r, api.Options{
				StreamPath:        cfg.Paths.Stream,
				StopPath:          cfg.Paths.Stop,
				StartPath:         cfg.Paths.Start,
				KeepaliveInterval: cfg.Server.KeepaliveInterval.Std(),
				Logger:            &logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ui.Info("dlpanel server listening on http://%s", cfg.Server.Listen)
			serveErr := server.ListenAndServe(ctx, cfg.Server.Listen)

			// Do not leave the download running without a server to stop it.
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracePeriod.Std()*2)
			defer cancel()
			if _, err := r.Stop(stopCtx); err != nil && !errors.Is(err, runner.ErrNotRunning) {
				logger.Error().Err(err).Msg("Failed to stop download on shutdown")
			}
			brokerWriter.Flush()

			if serveErr != nil {
				return serveErr
			}
			ui.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Address to listen on (overrides config)")
	cmd.Flags().StringSliceVar(&command, "command", nil, "Download command and leading arguments, comma separated (overrides config)")
	cmd.Flags().StringVar(&dir, "dir", "", "Working directory of the download command")

	return cmd
}
