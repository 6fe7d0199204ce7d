package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/rshade/cintel/internal/dashboard"
	"github.com/rshade/cintel/internal/logging"
)

// Environment variables consulted by Load.
const (
	EnvConfig    = "CINTEL_CONFIG"
	EnvLogLevel  = "CINTEL_LOG_LEVEL"
	EnvDashboard = "CINTEL_DASHBOARD"
)

// SupportedVersions is the semver constraint a config file's version must satisfy.
const SupportedVersions = "^1.0.0"

const (
	configDirName  = ".cintel"
	configFileName = "config.yaml"
	logFileName    = "cintel.log"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for configuration.
var (
	// ErrUnsupportedVersion indicates a config file written for an incompatible schema.
	ErrUnsupportedVersion = constError("unsupported config version")

	// ErrInvalidConfig indicates a field with an unusable value.
	ErrInvalidConfig = constError("invalid config")
)

// Config is the on-disk configuration.
type Config struct {
	// Version is the config schema version; empty means current.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
	// Dashboard selects which dashboard starts.
	Dashboard string `yaml:"dashboard" json:"dashboard"`
	// Data overrides dataset sources by dataset name (e.g. penguins: csv:/data/penguins.csv).
	Data map[string]string `yaml:"data,omitempty" json:"data,omitempty"`
	// Widgets overrides widget defaults by widget id, using the CLI value syntax.
	Widgets map[string]string `yaml:"widgets,omitempty" json:"widgets,omitempty"`
	Logging LoggingConfig     `yaml:"logging" json:"logging"`
	Metrics MetricsConfig     `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	// File receives log output while the interactive dashboard owns the terminal.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables the endpoint.
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dashboard: dashboard.NamePenguins,
		Logging: LoggingConfig{
			Level:  zerolog.InfoLevel.String(),
			Format: logging.FormatConsole,
			File:   DefaultLogFile(),
		},
	}
}

// DefaultLogFile is the log destination used while the terminal UI runs.
func DefaultLogFile() string {
	return filepath.Join(os.TempDir(), logFileName)
}

// ResolvePath determines which config file to read. It checks (in order):
//  1. flagValue (--config)
//  2. CINTEL_CONFIG
//  3. ~/.cintel/config.yaml
//
// explicit is true when the path came from the flag or the environment, in which case
// a missing file is an error.
func ResolvePath(flagValue string) (path string, explicit bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, configDirName, configFileName), false
}

// Load builds the effective configuration: defaults, then the resolved config file,
// then environment overrides. The result is validated.
func Load(ctx context.Context, flagValue string) (*Config, error) {
	log := logging.ComponentLogger(logging.FromContext(ctx), "config")
	cfg := Default()

	path, explicit := ResolvePath(flagValue)
	if path != "" {
		_, statErr := os.Stat(path)
		switch {
		case statErr == nil:
			if err := ShallowMergeYAML(cfg, path); err != nil {
				return nil, err
			}
			log.Debug().Str("path", path).Msg("loaded config file")
		case explicit || !errors.Is(statErr, os.ErrNotExist):
			return nil, fmt.Errorf("reading config %s: %w", path, statErr)
		default:
			log.Debug().Str("path", path).Msg("no config file, using defaults")
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies CINTEL_LOG_LEVEL and CINTEL_DASHBOARD on top of the loaded values.
func (c *Config) ApplyEnv() {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}
	if name := os.Getenv(EnvDashboard); name != "" {
		c.Dashboard = name
	}
}

// Validate checks the schema version, dashboard name and logging settings.
// Widget overrides are checked against the chosen dashboard's panel when it is built.
func (c *Config) Validate() error {
	if c.Version != "" {
		v, err := semver.NewVersion(c.Version)
		if err != nil {
			return fmt.Errorf("%w: %q is not a semantic version: %w", ErrUnsupportedVersion, c.Version, err)
		}
		constraint, err := semver.NewConstraint(SupportedVersions)
		if err != nil {
			return err
		}
		if !constraint.Check(v) {
			return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, SupportedVersions)
		}
	}

	if !slices.Contains(dashboard.Names(), c.Dashboard) {
		return fmt.Errorf("%w: dashboard %q (known: %s)",
			ErrInvalidConfig, c.Dashboard, strings.Join(dashboard.Names(), ", "))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: logging.format %q (want %s or %s)",
			ErrInvalidConfig, c.Logging.Format, logging.FormatConsole, logging.FormatJSON)
	}

	for name, source := range c.Data {
		if strings.TrimSpace(source) == "" {
			return fmt.Errorf("%w: data.%s has an empty source", ErrInvalidConfig, name)
		}
	}
	return nil
}

// ToLoggingConfig converts the logging section for use with the logging package.
// toFile selects whether the configured file is used; the console is used otherwise.
func (lc LoggingConfig) ToLoggingConfig(toFile bool) logging.Config {
	out := logging.Config{Level: lc.Level, Format: lc.Format}
	if toFile {
		out.File = lc.File
		if out.File == "" {
			out.File = DefaultLogFile()
		}
	}
	return out
}
