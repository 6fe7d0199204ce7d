package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/cintel/internal/config"
	"github.com/rshade/cintel/internal/logging"
	"github.com/rshade/cintel/internal/tui"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath  string
	debug       bool
	plain       bool
	dashboard   string
	data        []string
	metricsAddr string
}

// appState is what PersistentPreRunE prepares for the subcommands.
type appState struct {
	opts      rootOptions
	cfg       *config.Config
	mode      tui.OutputMode
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the cintel CLI.
// Without a subcommand it starts the dashboard: interactive on a terminal,
// a static snapshot otherwise.
func NewRootCmd(ver string) *cobra.Command {
	st := &appState{}

	cmd := &cobra.Command{
		Use:          "cintel",
		Short:        "Reactive data dashboards in the terminal",
		Long:         "cintel: explore the Palmer penguins and restaurant tips datasets with linked widgets and charts",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, &st.opts)
			if err != nil {
				return err
			}
			st.cfg = cfg

			st.mode = tui.DetectOutputMode(st.opts.plain, false, cmd != cmd.Root())
			result := setupLogging(cmd, st)
			st.logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(st.logResult)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, st)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&st.opts.configPath, "config", "", "config file (default $CINTEL_CONFIG or ~/.cintel/config.yaml)")
	flags.BoolVar(&st.opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&st.opts.plain, "plain", false, "print a plain snapshot instead of the interactive dashboard")
	flags.StringVar(&st.opts.dashboard, "dashboard", "", "dashboard to show: penguins or tips")
	flags.StringArrayVar(&st.opts.data, "data", nil, "dataset source override as name=source (repeatable)")
	flags.StringVar(&st.opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	cmd.AddCommand(newRenderCmd(st), newWidgetsCmd(st), newOutputsCmd(st))
	return cmd
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context(), opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dashboard") {
		cfg.Dashboard = opts.dashboard
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	var sources map[string]string
	if len(opts.data) > 0 {
		if sources, err = parseAssignments("--data", opts.data); err != nil {
			return nil, err
		}
		if cfg.Data == nil {
			cfg.Data = make(map[string]string, len(sources))
		}
		for name, source := range sources {
			cfg.Data[name] = source
		}
	}
	if opts.debug {
		cfg.Logging.Level = zerolog.DebugLevel.String()
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	if err = checkDatasetNames(cfg.Dashboard, sources); err != nil {
		return nil, fmt.Errorf("--data: %w", err)
	}
	return cfg, nil
}

const rootCmdExample = `  # Start the penguins dashboard
  cintel

  # Start the tips dashboard with a CSV copy of the data
  cintel --dashboard tips --data tips=csv:./tips.csv

  # Load penguins from a SQLite table and expose metrics
  cintel --data penguins=sqlite:./lab.db?table=penguins --metrics-addr :9464

  # Render two outputs with 40 bins as JSON
  cintel render plotly_hist seaborn_hist --set plotly_bin_count=40 --output json

  # List widgets and the outputs that depend on them
  cintel widgets`
