package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyVersion   = "version"
	keyDashboard = "dashboard"
	keyData      = "data"
	keyWidgets   = "widgets"
	keyLogging   = "logging"
	keyMetrics   = "metrics"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the file replace entire sections
// in the target. Keys absent in the file are left unchanged; unknown keys are errors.
func ShallowMergeYAML(target *Config, path string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", path, err)
	}

	for key, node := range overlay {
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying config section %q from %s: %w", key, path, err)
		}
	}
	return nil
}

// unmarshalSection decodes one section into a fresh value so it replaces the target field
// outright (decoding into an existing map would merge keys).
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyVersion:
		return node.Decode(&target.Version)
	case keyDashboard:
		return node.Decode(&target.Dashboard)
	case keyData:
		var v map[string]string
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Data = v
	case keyWidgets:
		var v map[string]string
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Widgets = v
	case keyLogging:
		// Logging fields absent from the file keep their defaults.
		v := target.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyMetrics:
		var v MetricsConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Metrics = v
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, key)
	}
	return nil
}
