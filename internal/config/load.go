package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	supportedExtensions  = []string{".json", ".yaml", ".yml", ".toml"}
	supportedConfigNames = []string{"dlpanel.json", "dlpanel.yaml", "dlpanel.yml", "dlpanel.toml"}
)

// ErrConfigNotFound is returned by FindConfigFile when a directory holds no config file.
var ErrConfigNotFound = errors.New("no dlpanel config file found")

// Load reads the config file at path, applies environment overrides, then
// normalizes and validates the result. An empty path looks in ConfigDir and
// falls back to the defaults when no file exists there.
func Load(path string) (*Config, error) {
	if path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		path = dir
	}

	cfg := Default()
	configFile, err := FindConfigFile(path)
	switch {
	case errors.Is(err, ErrConfigNotFound):
	case err != nil:
		return nil, err
	default:
		if err := loadFile(configFile, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(configFile string, cfg *Config) error {
	format, err := getConfigFormat(configFile)
	if err != nil {
		return err
	}
	parser, err := getConfigParser(configFile)
	if err != nil {
		return err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configFile), parser); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	if err := checkUnknownFields(reflect.TypeOf(*cfg), k.Keys(), format); err != nil {
		return fmt.Errorf("%s: %w", configFile, err)
	}

	decoderConfig := &mapstructure.DecoderConfig{
		TagName: format,
		Result:  cfg,
		// Replace default slices instead of merging into them.
		ZeroFields: true,
		DecodeHook: durationDecodeHook(),
	}
	unmarshalConf := koanf.UnmarshalConf{
		Tag:           format,
		DecoderConfig: decoderConfig,
	}
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(constants.EnvVarListen); ok && v != "" {
		cfg.Server.Listen = v
	}
	if v, ok := os.LookupEnv(constants.EnvVarServerURL); ok && v != "" {
		cfg.Client.ServerURL = v
	}
	if v, ok := os.LookupEnv(constants.EnvVarLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(constants.EnvVarDebug); ok && isTruthy(v) {
		cfg.LogLevel = "debug"
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// FindConfigFile finds a dlpanel config file based on the given path
// It supports:
// - Full path to a config file
// - Directory containing a dlpanel config file
func FindConfigFile(path string) (string, error) {
	if path == "" {
		path = "."
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %s", absPath)
	}

	if !stat.IsDir() {
		ext := filepath.Ext(absPath)
		if !slices.Contains(supportedExtensions, ext) {
			return "", fmt.Errorf("file %s is not a valid dlpanel config file (must be .json, .yaml, .yml, or .toml)", absPath)
		}
		return absPath, nil
	}

	for _, configName := range supportedConfigNames {
		configPath := filepath.Join(absPath, configName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", fmt.Errorf("%w in directory %s (looking for: %s)",
		ErrConfigNotFound, absPath, strings.Join(supportedConfigNames, ", "))
}

// getConfigFormat returns the struct tag name used to decode the file.
func getConfigFormat(configFile string) (string, error) {
	switch ext := filepath.Ext(configFile); ext {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".toml":
		return "toml", nil
	default:
		return "", fmt.Errorf("unsupported config file type: %s", ext)
	}
}

func getConfigParser(configFile string) (koanf.Parser, error) {
	var parser koanf.Parser
	ext := filepath.Ext(configFile)
	switch ext {
	case ".json":
		parser = json.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return nil, fmt.Errorf("unsupported config file type: %s", ext)
	}
	return parser, nil
}

// checkUnknownFields reports keys in the loaded file that no struct field maps to.
func checkUnknownFields(structType reflect.Type, keys []string, format string) error {
	known := make(map[string]bool)
	collectFieldNames(structType, format, "", known)

	var unknown []string
	for _, key := range keys {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown config fields: %s", strings.Join(unknown, ", "))
}

func collectFieldNames(structType reflect.Type, tagName, prefix string, known map[string]bool) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag := field.Tag.Get(tagName)
		if tag == "" || tag == "-" {
			continue
		}
		name := prefix + strings.Split(tag, ",")[0]
		known[name] = true

		if field.Type.Kind() == reflect.Struct {
			collectFieldNames(field.Type, tagName, name+".", known)
		}
	}
}
