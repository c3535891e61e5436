package dlpanel

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ameistad/dlpanel/internal/apiclient"
	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/ameistad/dlpanel/internal/logging"
	"github.com/ameistad/dlpanel/internal/tui"
	"github.com/spf13/cobra"
)

func WatchCmd(s *session) *cobra.Command {
	var logFile string
	var noReconnect bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the log panel with a stop button",
		Long: `Open a terminal panel that follows the download output and has a stop button.

Press s or click the button to stop the download, q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The panel owns the terminal, so traces go to a file or nowhere.
			var out io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.ModeFileDefault)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			logger := logging.Init(logging.Options{
				Level:  logging.ParseLevel(s.config.LogLevel),
				Writer: out,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			return tui.Run(ctx, tui.Options{
				Client:         s.apiClient(apiclient.WithTimeout(defaultContextTimeout)),
				Reconnect:      s.config.Client.Reconnect && !noReconnect,
				ReconnectDelay: s.config.Client.ReconnectDelay.Std(),
				Logger:         logger,
			})
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write traces to this file")
	cmd.Flags().BoolVar(&noReconnect, "no-reconnect", false, "Do not reconnect when the stream ends")
	return cmd
}
