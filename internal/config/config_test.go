package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// chdirForTest changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(oldDir); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		constants.EnvVarListen,
		constants.EnvVarServerURL,
		constants.EnvVarLogLevel,
		constants.EnvVarDebug,
	} {
		t.Setenv(name, "")
	}
}

func TestDefaultIsIndependentCopy(t *testing.T) {
	a := Default()
	b := Default()
	a.Server.Command[0] = "changed"

	assert.Equal(t, "python3", b.Server.Command[0])
	assert.NoError(t, b.Validate())
}

func TestLoadFormats(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "dlpanel.yaml",
			content: `
logLevel: debug
server:
  listen: 0.0.0.0:8080
  command: ["./aniworld"]
  gracePeriod: 10s
client:
  serverUrl: http://example.com:8080/
  reconnect: false
`,
		},
		{
			name: "json",
			file: "dlpanel.json",
			content: `{
  "logLevel": "debug",
  "server": {"listen": "0.0.0.0:8080", "command": ["./aniworld"], "gracePeriod": 10},
  "client": {"serverUrl": "http://example.com:8080", "reconnect": false}
}`,
		},
		{
			name: "toml",
			file: "dlpanel.toml",
			content: `
logLevel = "debug"

[server]
listen = "0.0.0.0:8080"
command = ["./aniworld"]
gracePeriod = "10s"

[client]
serverUrl = "http://example.com:8080"
reconnect = false
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			cfg, err := Load(dir)
			require.NoError(t, err)

			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, "0.0.0.0:8080", cfg.Server.Listen)
			assert.Equal(t, []string{"./aniworld"}, cfg.Server.Command)
			assert.Equal(t, 10*time.Second, cfg.Server.GracePeriod.Std())
			assert.Equal(t, "http://example.com:8080", cfg.Client.ServerURL)
			assert.False(t, cfg.Client.Reconnect)

			// Untouched values keep their defaults.
			assert.Equal(t, constants.DefaultStreamPath, cfg.Paths.Stream)
			assert.Equal(t, constants.DefaultReconnectDelay, cfg.Client.ReconnectDelay.Std())
			assert.Equal(t, constants.DefaultSubscriberBuffer, cfg.Server.SubscriberBuffer)
		})
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadUsesConfigDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(constants.EnvVarConfigDir, dir)
	writeFile(t, dir, "dlpanel.yml", "paths:\n  stream: /events\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/events", cfg.Paths.Stream)
}

func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadEnvFiles(t *testing.T) {
	const sharedKey, configDirKey = "DLPANEL_ENVFILE_SHARED", "DLPANEL_ENVFILE_CONFIGDIR"

	tests := []struct {
		name       string
		configPath func(projectDir string) string
	}{
		{name: "config_file", configPath: func(dir string) string { return filepath.Join(dir, "dlpanel.yml") }},
		{name: "config_directory", configPath: func(dir string) string { return dir }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetForTest(t, sharedKey, configDirKey)
			configDir := t.TempDir()
			t.Setenv(constants.EnvVarConfigDir, configDir)
			chdirForTest(t, t.TempDir())

			projectDir := t.TempDir()
			writeFile(t, projectDir, "dlpanel.yml", "log_level: info\n")
			projectEnv := writeFile(t, projectDir, ".env", sharedKey+"=project\n")
			configEnv := writeFile(t, configDir, ".env", sharedKey+"=configdir\n"+configDirKey+"=yes\n")

			loaded, err := LoadEnvFiles(tt.configPath(projectDir))
			require.NoError(t, err)
			assert.Equal(t, []string{projectEnv, configEnv}, loaded)
			assert.Equal(t, "project", os.Getenv(sharedKey))
			assert.Equal(t, "yes", os.Getenv(configDirKey))
		})
	}
}

func TestLoadEnvFilesWorkingDirectory(t *testing.T) {
	const key = "DLPANEL_ENVFILE_WORKDIR"
	unsetForTest(t, key)
	t.Setenv(constants.EnvVarConfigDir, t.TempDir())
	workDir := t.TempDir()
	chdirForTest(t, workDir)
	writeFile(t, workDir, constants.ProjectEnvFileName, key+"=dlpanel\n")
	writeFile(t, workDir, constants.ConfigEnvFileName, key+"=generic\n")

	loaded, err := LoadEnvFiles("")
	require.NoError(t, err)
	assert.Equal(t, []string{constants.ProjectEnvFileName, constants.ConfigEnvFileName}, loaded)
	assert.Equal(t, "dlpanel", os.Getenv(key))
}

func TestLoadEnvFilesKeepsExistingEnvironment(t *testing.T) {
	const key = "DLPANEL_ENVFILE_EXISTING"
	t.Setenv(key, "from-shell")
	configDir := t.TempDir()
	t.Setenv(constants.EnvVarConfigDir, configDir)
	chdirForTest(t, t.TempDir())
	writeFile(t, configDir, ".env", key+"=from-file\n")

	_, err := LoadEnvFiles("")
	require.NoError(t, err)
	assert.Equal(t, "from-shell", os.Getenv(key))
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "dlpanel.yaml", "server:\n  listen: 127.0.0.1:1\n")
	t.Setenv(constants.EnvVarListen, "127.0.0.1:9000")
	t.Setenv(constants.EnvVarServerURL, "https://panel.local")
	t.Setenv(constants.EnvVarDebug, "true")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, "https://panel.local", cfg.Client.ServerURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{name: "unknown field", file: "dlpanel.yaml", content: "server:\n  listn: x\n", wantErr: "unknown config fields: server.listn"},
		{name: "bad duration", file: "dlpanel.yaml", content: "server:\n  gracePeriod: soon\n", wantErr: "invalid duration"},
		{name: "bad url", file: "dlpanel.yaml", content: "client:\n  serverUrl: ftp://host\n", wantErr: "must use http or https"},
		{name: "relative path", file: "dlpanel.yaml", content: "paths:\n  stop: stop\n", wantErr: "must start with a slash"},
		{name: "same paths", file: "dlpanel.yaml", content: "paths:\n  stop: /log_stream\n", wantErr: "must be different"},
		{name: "bad level", file: "dlpanel.yaml", content: "logLevel: loud\n", wantErr: "unknown level"},
		{name: "empty command", file: "dlpanel.yaml", content: "server:\n  command: []\n", wantErr: "server.command"},
		{name: "unsupported extension", file: "settings.ini", content: "", wantErr: "not a valid dlpanel config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)

	for _, ext := range []string{".yaml", ".json", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			cfg := Default()
			cfg.Server.Command = []string{"python3", "main.py", "--quiet"}
			cfg.Server.GracePeriod = Duration(1500 * time.Millisecond)
			cfg.Client.Reconnect = false

			path := filepath.Join(t.TempDir(), "nested", "dlpanel"+ext)
			require.NoError(t, cfg.Save(path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestSaveUnsupportedExtension(t *testing.T) {
	err := Default().Save(filepath.Join(t.TempDir(), "dlpanel.ini"))
	assert.ErrorContains(t, err, "unsupported config file type")
}

func TestFindConfigFileMissingDir(t *testing.T) {
	_, err := FindConfigFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "path does not exist")
}
