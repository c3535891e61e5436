package dlpanel

import (
	"context"
	"fmt"

	"github.com/ameistad/dlpanel/internal/apiclient"
	"github.com/ameistad/dlpanel/internal/apitypes"
	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/ameistad/dlpanel/internal/ui"
	"github.com/spf13/cobra"
)

func StartCmd(s *session) *cobra.Command {
	var req apitypes.DownloadRequest
	var follow bool

	cmd := &cobra.Command{
		Use:   "start [name]",
		Short: "Start a download on the dlpanel server",
		Long: `Start a download on the dlpanel server.

Fields left out are filled in by the server with its defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				req.Name = args[0]
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), defaultContextTimeout)
			defer cancel()

			api := s.apiClient(apiclient.WithTimeout(defaultContextTimeout))
			response, err := api.StartDownload(ctx, req)
			if err != nil {
				ui.Error("Failed to start download: %v", err)
				return err
			}

			received := response.ReceivedConfig
			ui.Success("%s", response.Message)
			ui.Section(fmt.Sprintf("Run %s", response.RunID), []string{
				fmt.Sprintf("Type:     %s", received.TypeOfMedia),
				fmt.Sprintf("Name:     %s", received.Name),
				fmt.Sprintf("Language: %s", received.Language),
				fmt.Sprintf("Mode:     %s", received.DLMode),
				fmt.Sprintf("Provider: %s", received.CLIProvider),
			})

			if follow {
				return LogsCmd(s).RunE(cmd, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.TypeOfMedia, "type", "", fmt.Sprintf("Type of media (default %q)", constants.DefaultTypeOfMedia))
	cmd.Flags().StringVar(&req.Name, "name", "", "Name of the series or movie")
	cmd.Flags().StringVar(&req.Language, "lang", "", fmt.Sprintf("Language, one of %v (default %q)", constants.SupportedLanguages, constants.DefaultLanguage))
	cmd.Flags().StringVar(&req.DLMode, "dl-mode", "", fmt.Sprintf("Download mode (default %q)", constants.DefaultDLMode))
	cmd.Flags().StringVar(&req.CLIProvider, "provider", "", fmt.Sprintf("Provider (default %q)", constants.DefaultProvider))
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream the logs after starting")

	return cmd
}
