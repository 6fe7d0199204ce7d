package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cintel/internal/logging"
)

// isolate points HOME at an empty directory and clears config env vars.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvDashboard, "")
	return home
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "penguins", cfg.Dashboard)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `
version: 1.2.0
dashboard: tips
data:
  tips: csv:/srv/data/tips.csv
widgets:
  plotly_bin_count: 30
  selected_day_list: Sat,Sun
logging:
  level: debug
metrics:
  addr: ":9464"
`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "tips", cfg.Dashboard)
	assert.Equal(t, "csv:/srv/data/tips.csv", cfg.Data["tips"])
	assert.Equal(t, "30", cfg.Widgets["plotly_bin_count"])
	assert.Equal(t, "Sat,Sun", cfg.Widgets["selected_day_list"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, logging.FormatConsole, cfg.Logging.Format, "unset logging fields keep defaults")
	assert.Equal(t, ":9464", cfg.Metrics.Addr)
}

func TestLoad_PathResolution(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, configDirName)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	writeConfig(t, dir, "dashboard: tips\n")

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "tips", cfg.Dashboard, "home config is read")

	envPath := writeConfig(t, t.TempDir(), "dashboard: penguins\n")
	t.Setenv(EnvConfig, envPath)
	cfg, err = Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "penguins", cfg.Dashboard, "env beats home")

	path, explicit := ResolvePath("/etc/cintel.yaml")
	assert.Equal(t, "/etc/cintel.yaml", path)
	assert.True(t, explicit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvDashboard, "tips")

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "tips", cfg.Dashboard)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "future version", body: "version: 2.0.0\n", wantErr: ErrUnsupportedVersion},
		{name: "garbage version", body: "version: latest\n", wantErr: ErrUnsupportedVersion},
		{name: "unknown dashboard", body: "dashboard: iris\n", wantErr: ErrInvalidConfig},
		{name: "unknown key", body: "plugins: {}\n", wantErr: ErrInvalidConfig},
		{name: "bad level", body: "logging:\n  level: loud\n", wantErr: ErrInvalidConfig},
		{name: "bad format", body: "logging:\n  format: xml\n", wantErr: ErrInvalidConfig},
		{name: "empty source", body: "data:\n  penguins: \"\"\n", wantErr: ErrInvalidConfig},
		{name: "malformed yaml", body: "dashboard: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(context.Background(), path)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoggingConfig_ToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: logging.FormatJSON}

	console := lc.ToLoggingConfig(false)
	assert.Empty(t, console.File)
	assert.Equal(t, "debug", console.Level)

	file := lc.ToLoggingConfig(true)
	assert.Equal(t, DefaultLogFile(), file.File)

	lc.File = "/var/log/cintel.log"
	assert.Equal(t, "/var/log/cintel.log", lc.ToLoggingConfig(true).File)
}
