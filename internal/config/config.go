package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"
)

// Config is the dlpanel configuration shared by the server and the client commands.
type Config struct {
	LogLevel string       `json:"logLevel,omitempty" yaml:"logLevel,omitempty" toml:"logLevel,omitempty"`
	Paths    PathsConfig  `json:"paths" yaml:"paths" toml:"paths"`
	Server   ServerConfig `json:"server" yaml:"server" toml:"server"`
	Client   ClientConfig `json:"client" yaml:"client" toml:"client"`
}

// PathsConfig holds the endpoint paths. Server and client must agree on them.
type PathsConfig struct {
	Stream string `json:"stream" yaml:"stream" toml:"stream"`
	Stop   string `json:"stop" yaml:"stop" toml:"stop"`
	Start  string `json:"start" yaml:"start" toml:"start"`
}

type ServerConfig struct {
	Listen string `json:"listen" yaml:"listen" toml:"listen"`
	// Command is the download program and its fixed leading arguments.
	Command           []string `json:"command" yaml:"command" toml:"command"`
	Dir               string   `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty"`
	GracePeriod       Duration `json:"gracePeriod" yaml:"gracePeriod" toml:"gracePeriod"`
	KeepaliveInterval Duration `json:"keepaliveInterval" yaml:"keepaliveInterval" toml:"keepaliveInterval"`
	SubscriberBuffer  int      `json:"subscriberBuffer" yaml:"subscriberBuffer" toml:"subscriberBuffer"`
}

type ClientConfig struct {
	ServerURL      string   `json:"serverUrl" yaml:"serverUrl" toml:"serverUrl"`
	Reconnect      bool     `json:"reconnect" yaml:"reconnect" toml:"reconnect"`
	ReconnectDelay Duration `json:"reconnectDelay" yaml:"reconnectDelay" toml:"reconnectDelay"`
}

var defaultConfig = Config{
	LogLevel: "info",
	Paths: PathsConfig{
		Stream: constants.DefaultStreamPath,
		Stop:   constants.DefaultStopPath,
		Start:  constants.DefaultStartPath,
	},
	Server: ServerConfig{
		Listen:            constants.DefaultListenAddress,
		Command:           []string{"python3", "py_main.py"},
		GracePeriod:       Duration(constants.DefaultStopGracePeriod),
		KeepaliveInterval: Duration(constants.DefaultKeepaliveInterval),
		SubscriberBuffer:  constants.DefaultSubscriberBuffer,
	},
	Client: ClientConfig{
		ServerURL:      constants.DefaultServerURL,
		Reconnect:      true,
		ReconnectDelay: Duration(constants.DefaultReconnectDelay),
	},
}

// Default returns a fresh copy of the default configuration.
func Default() *Config {
	var c Config
	if err := copier.CopyWithOption(&c, &defaultConfig, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("failed to copy default config: %v", err))
	}
	return &c
}

// Normalize fills zero values with defaults and cleans up user input.
func (c *Config) Normalize() {
	d := defaultConfig
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Paths.Stream == "" {
		c.Paths.Stream = d.Paths.Stream
	}
	if c.Paths.Stop == "" {
		c.Paths.Stop = d.Paths.Stop
	}
	if c.Paths.Start == "" {
		c.Paths.Start = d.Paths.Start
	}
	if c.Server.Listen == "" {
		c.Server.Listen = d.Server.Listen
	}
	if c.Server.GracePeriod == 0 {
		c.Server.GracePeriod = d.Server.GracePeriod
	}
	if c.Server.KeepaliveInterval == 0 {
		c.Server.KeepaliveInterval = d.Server.KeepaliveInterval
	}
	if c.Server.SubscriberBuffer == 0 {
		c.Server.SubscriberBuffer = d.Server.SubscriberBuffer
	}
	c.Client.ServerURL = strings.TrimRight(strings.TrimSpace(c.Client.ServerURL), "/")
	if c.Client.ServerURL == "" {
		c.Client.ServerURL = d.Client.ServerURL
	}
	if c.Client.ReconnectDelay == 0 {
		c.Client.ReconnectDelay = d.Client.ReconnectDelay
	}
}

func (c *Config) Validate() error {
	var errs []error

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("logLevel: unknown level %q", c.LogLevel))
	}
	for name, path := range map[string]string{
		"paths.stream": c.Paths.Stream,
		"paths.stop":   c.Paths.Stop,
		"paths.start":  c.Paths.Start,
	} {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, fmt.Errorf("%s: path %q must start with a slash", name, path))
		}
	}
	if c.Paths.Stream == c.Paths.Stop || c.Paths.Stream == c.Paths.Start || c.Paths.Stop == c.Paths.Start {
		errs = append(errs, errors.New("paths: stream, stop and start paths must be different"))
	}

	if len(c.Server.Command) == 0 || strings.TrimSpace(c.Server.Command[0]) == "" {
		errs = append(errs, errors.New("server.command: must name a program"))
	}
	if c.Server.GracePeriod < 0 {
		errs = append(errs, errors.New("server.gracePeriod: must not be negative"))
	}
	if c.Server.KeepaliveInterval < 0 {
		errs = append(errs, errors.New("server.keepaliveInterval: must not be negative"))
	}
	if c.Server.SubscriberBuffer < 0 {
		errs = append(errs, errors.New("server.subscriberBuffer: must not be negative"))
	}

	if err := validateServerURL(c.Client.ServerURL); err != nil {
		errs = append(errs, fmt.Errorf("client.serverUrl: %w", err))
	}
	if c.Client.ReconnectDelay < 0 {
		errs = append(errs, errors.New("client.reconnectDelay: must not be negative"))
	}

	return errors.Join(errs...)
}

func validateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}
