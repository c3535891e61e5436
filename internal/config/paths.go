package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ameistad/dlpanel/internal/constants"
)

func ensureDir(dirPath string) error {
	return os.MkdirAll(dirPath, constants.ModeDirPrivate)
}

// ConfigDir returns the dlpanel configuration directory, creating it if needed.
// If DLPANEL_CONFIG_DIR is set, it will use that instead.
func ConfigDir() (string, error) {
	if envPath, ok := os.LookupEnv(constants.EnvVarConfigDir); ok && envPath != "" {
		if strings.HasPrefix(envPath, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			envPath = filepath.Join(home, envPath[2:])
		}
		if err := ensureDir(envPath); err != nil {
			return "", err
		}
		return envPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(home, ".config", "dlpanel")
	if err := ensureDir(path); err != nil {
		return "", err
	}
	return path, nil
}

// DefaultConfigPath is where init writes the config file when no path is given.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileBaseName+".yaml"), nil
}
