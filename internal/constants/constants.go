package constants

import (
	"os"
	"time"
)

const (
	Version = "0.1.0"

	DefaultListenAddress = "127.0.0.1:5000"
	DefaultServerURL     = "http://127.0.0.1:5000" // Default URL for the dlpanel server
	DefaultStreamPath    = "/log_stream"
	DefaultStopPath      = "/stop"
	DefaultStartPath     = "/start-download"

	DefaultStopGracePeriod   = 5 * time.Second
	DefaultReconnectDelay    = 3 * time.Second
	DefaultKeepaliveInterval = 30 * time.Second
	DefaultSubscriberBuffer  = 100

	// Fallback text shown when the stop request fails without a usable message.
	StopFallbackMessage = "Failed to stop the download"

	// Environment variables
	EnvVarConfigDir = "DLPANEL_CONFIG_DIR"
	EnvVarServerURL = "DLPANEL_SERVER_URL"
	EnvVarListen    = "DLPANEL_LISTEN"
	EnvVarLogLevel  = "DLPANEL_LOG_LEVEL"
	EnvVarDebug     = "DLPANEL_DEBUG"

	// File names
	ConfigFileBaseName = "dlpanel"
	ConfigEnvFileName  = ".env"
	ProjectEnvFileName = "dlpanel.env"
)

// Download request defaults, matching what the web form sends when a field is left out.
const (
	DefaultTypeOfMedia = "anime"
	DefaultName        = "Name-Goes-Here"
	DefaultLanguage    = "Deutsch"
	DefaultDLMode      = "Series"
	DefaultProvider    = "VOE"
)

// SupportedLanguages lists the languages the downloader understands.
var SupportedLanguages = []string{"Deutsch", "Ger-Sub", "English"}

// File and directory permissions
const (
	ModeFileDefault os.FileMode = 0o644 // non-secret configs
	ModeDirPrivate  os.FileMode = 0o700 // private dirs
)
