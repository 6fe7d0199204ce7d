package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/cintel/internal/metrics"
	"github.com/rshade/cintel/internal/render"
	"github.com/rshade/cintel/internal/runtime"
	"github.com/rshade/cintel/internal/tui"
)

// Render output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

const (
	defaultRenderWidth  = 100
	defaultRenderHeight = 20
)

// renderFlags holds the flags of the render command.
type renderFlags struct {
	sets   []string
	format string
	width  int
	height int
}

// renderedOutput is the JSON form of one output.
type renderedOutput struct {
	ID      string        `json:"id"`
	Kind    string        `json:"kind"`
	Summary string        `json:"summary,omitempty"`
	Error   string        `json:"error,omitempty"`
	Output  render.Output `json:"output,omitempty"`
}

func newRenderCmd(st *appState) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [output...]",
		Short: "Render outputs to stdout",
		Long:  "Render the named outputs (all outputs in layout order when none are named) after applying widget values.",
		Example: `  # Render every output of the penguins dashboard
  cintel render

  # Render the sparkline histogram of flipper length with 50 bins
  cintel render seaborn_hist --set selected_attribute=flipper_length_mm --set seaborn_bin_count=50

  # Emit the tips scatter plot data as JSON
  cintel --dashboard tips render plotly_scatterplot --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, st, args, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.sets, "set", nil, "widget value as id=value (repeatable; checkbox values are comma-separated)")
	cmd.Flags().StringVarP(&flags.format, "output", "o", formatText, "output format: text or json")
	cmd.Flags().IntVar(&flags.width, "width", defaultRenderWidth, "width of text output")
	cmd.Flags().IntVar(&flags.height, "height", defaultRenderHeight, "height of each text output")
	return cmd
}

func runRender(cmd *cobra.Command, st *appState, ids []string, flags renderFlags) error {
	if flags.format != formatText && flags.format != formatJSON {
		return fmt.Errorf("--output %q: want %s or %s", flags.format, formatText, formatJSON)
	}
	if flags.width <= 0 || flags.height <= 0 {
		return fmt.Errorf("--width and --height must be positive")
	}
	sets, err := parseAssignments("--set", flags.sets)
	if err != nil {
		return err
	}

	rt, err := startRuntime(cmd.Context(), st.cfg, metrics.NewRecorder(), sets)
	if err != nil {
		return err
	}
	def := rt.Definition()

	if len(ids) == 0 {
		ids = def.Layout.Outputs()
	}
	for _, id := range ids {
		if _, err = def.Registry.Get(id); err != nil {
			return fmt.Errorf("%w (outputs: %s)", err, strings.Join(def.Registry.IDs(), ", "))
		}
	}

	rendered := make([]renderedOutput, 0, len(ids))
	failed := 0
	for _, id := range ids {
		res, _ := rt.Result(id)
		b, _ := def.Registry.Get(id)
		out := renderedOutput{ID: id, Kind: b.Kind.String(), Output: res.Output}
		if res.Err != nil {
			out.Error = res.Err.Error()
			failed++
		}
		if c, ok := res.Output.(*render.ChartOutput); ok {
			out.Summary = c.Describe()
		}
		rendered = append(rendered, out)
	}

	w := cmd.OutOrStdout()
	if flags.format == formatJSON {
		err = writeJSON(w, rendered)
	} else {
		err = writeText(w, rt, ids, flags, st.mode)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d outputs failed to render", failed, len(ids))
	}
	return nil
}

func writeJSON(w io.Writer, outputs []renderedOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}

func writeText(w io.Writer, rt *runtime.Runtime, ids []string, flags renderFlags, mode tui.OutputMode) error {
	def := rt.Definition()
	for _, id := range ids {
		title := id
		if c, ok := def.Layout.Find(id); ok && c.Header != "" {
			title = c.Header + " (" + id + ")"
		}
		res, ran := rt.Result(id)
		body := tui.RenderOutput(id, res, ran, flags.width, flags.height)
		text := mode.Present(tui.HeaderStyle.Render(title) + "\n" + body)
		if _, err := fmt.Fprintf(w, "%s\n\n", text); err != nil {
			return err
		}
	}
	return nil
}
