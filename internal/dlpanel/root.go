package dlpanel

import (
	"fmt"
	"os"
	"time"

	"github.com/ameistad/dlpanel/internal/apiclient"
	"github.com/ameistad/dlpanel/internal/config"
	"github.com/ameistad/dlpanel/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultContextTimeout = 30 * time.Second

// rootFlags holds the values for all flags shared by every command.
type rootFlags struct {
	configPath string
	serverURL  string
	logLevel   string
}

// session is filled in before any command runs.
type session struct {
	flags  rootFlags
	config *config.Config
	logger zerolog.Logger
}

// apiClient builds a client for the configured server. The --server flag wins over config.
func (s *session) apiClient(opts ...apiclient.Option) *apiclient.APIClient {
	serverURL := s.config.Client.ServerURL
	if s.flags.serverURL != "" {
		serverURL = s.flags.serverURL
	}
	paths := s.config.Paths
	opts = append([]apiclient.Option{apiclient.WithPaths(paths.Stream, paths.Stop, paths.Start)}, opts...)
	return apiclient.New(serverURL, opts...)
}

func NewRootCmd() *cobra.Command {
	s := &session{}

	cmd := &cobra.Command{
		Use:   "dlpanel",
		Short: "dlpanel runs a download job and streams its output to a log panel",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFiles, err := config.LoadEnvFiles(s.flags.configPath)
			if err != nil {
				return err
			}

			if cmd.Name() == "completion" {
				return nil
			}

			cfg, err := config.Load(s.flags.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if s.flags.logLevel != "" {
				cfg.LogLevel = s.flags.logLevel
			}
			s.config = cfg
			s.logger = logging.Init(logging.Options{
				Level:   logging.ParseLevel(cfg.LogLevel),
				Writer:  os.Stderr,
				Console: true,
			})
			for _, path := range envFiles {
				s.logger.Debug().Str("path", path).Msg("Loaded env file")
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVarP(&s.flags.configPath, "config", "c", "", "Path to config file or directory (default: config dir)")
	cmd.PersistentFlags().StringVarP(&s.flags.serverURL, "server", "s", "", "dlpanel server URL (overrides config)")
	cmd.PersistentFlags().StringVar(&s.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		ServeCmd(s),
		LogsCmd(s),
		StopCmd(s),
		StartCmd(s),
		StatusCmd(s),
		WatchCmd(s),
		InitCmd(s),
		VersionCmd(s),
		CompletionCmd(),
	)

	return cmd
}
