package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/joho/godotenv"
)

// envFileCandidates lists the env files dlpanel reads, highest priority first:
// next to the --config file (or inside the --config directory), dlpanel.env and
// .env in the working directory, then .env in the config directory.
func envFileCandidates(configPath string) []string {
	var candidates []string
	if configPath != "" {
		dir := configPath
		if info, err := os.Stat(configPath); err != nil || !info.IsDir() {
			dir = filepath.Dir(configPath)
		}
		candidates = append(candidates, filepath.Join(dir, constants.ConfigEnvFileName))
	}
	candidates = append(candidates, constants.ProjectEnvFileName, constants.ConfigEnvFileName)
	if configDir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(configDir, constants.ConfigEnvFileName))
	}

	seen := make(map[string]bool, len(candidates))
	unique := candidates[:0]
	for _, path := range candidates {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, path)
	}
	return unique
}

// LoadEnvFiles loads every env file that exists and returns the ones it read.
// Variables already set in the environment, or by an earlier file, are not overwritten.
func LoadEnvFiles(configPath string) ([]string, error) {
	var loaded []string
	for _, path := range envFileCandidates(configPath) {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
