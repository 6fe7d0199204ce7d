package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rshade/cintel/internal/config"
	"github.com/rshade/cintel/internal/dashboard"
	"github.com/rshade/cintel/internal/dataset"
	"github.com/rshade/cintel/internal/logging"
	"github.com/rshade/cintel/internal/metrics"
	"github.com/rshade/cintel/internal/runtime"
)

// parseAssignments parses repeated key=value flags. Later assignments win.
func parseAssignments(flag string, pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%s %q: expected name=value", flag, p)
		}
		out[k] = v
	}
	return out, nil
}

// checkDatasetNames rejects dataset names the dashboard does not use.
func checkDatasetNames(name string, datasets map[string]string) error {
	sources, err := dashboard.Sources(name)
	if err != nil {
		return err
	}
	for _, ds := range slices.Sorted(maps.Keys(datasets)) {
		if _, ok := sources[ds]; !ok {
			return fmt.Errorf("dashboard %q has no dataset %q (datasets: %s)",
				name, ds, strings.Join(slices.Sorted(maps.Keys(sources)), ", "))
		}
	}
	return nil
}

// buildDefinition loads the datasets of the configured dashboard (with overrides) and
// composes it. Widget defaults from the config are applied to the panel. The config file
// is shared by every dashboard, so data sources and widgets another dashboard uses are skipped.
func buildDefinition(ctx context.Context, cfg *config.Config) (*dashboard.Definition, error) {
	log := logging.FromContext(ctx)

	sources, err := dashboard.Sources(cfg.Dashboard)
	if err != nil {
		return nil, err
	}
	for name, source := range cfg.Data {
		if _, ok := sources[name]; !ok {
			log.Debug().Str("dashboard", cfg.Dashboard).Str("dataset", name).
				Msg("skipping data source not used by this dashboard")
			continue
		}
		sources[name] = source
	}

	tables, err := dataset.LoadAll(ctx, sources)
	if err != nil {
		return nil, err
	}
	def, err := dashboard.Build(cfg.Dashboard, tables)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]string, len(cfg.Widgets))
	for id, raw := range cfg.Widgets {
		if _, ok := def.Panel.Lookup(id); !ok {
			log.Debug().Str("dashboard", cfg.Dashboard).Str("widget", id).
				Msg("skipping widget default not used by this dashboard")
			continue
		}
		overrides[id] = raw
	}
	if len(overrides) > 0 {
		if def.Panel, err = def.Panel.WithDefaults(overrides); err != nil {
			return nil, fmt.Errorf("config widgets: %w", err)
		}
	}
	return def, nil
}

// startRuntime builds the dashboard, renders it once and applies sets in id order.
func startRuntime(
	ctx context.Context,
	cfg *config.Config,
	rec *metrics.Recorder,
	sets map[string]string,
) (*runtime.Runtime, error) {
	def, err := buildDefinition(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rt, err := runtime.New(def, runtime.WithLogger(logging.FromContext(ctx)), runtime.WithMetrics(rec))
	if err != nil {
		return nil, err
	}
	if _, err = rt.Start(ctx); err != nil {
		return nil, err
	}
	for _, id := range slices.Sorted(maps.Keys(sets)) {
		if _, err = rt.SetString(ctx, id, sets[id]); err != nil {
			return nil, err
		}
	}
	return rt, nil
}
