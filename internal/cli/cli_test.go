package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cintel/internal/cli"
)

// execute runs the root command with args in an isolated environment.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CINTEL_CONFIG", "")
	t.Setenv("CINTEL_DASHBOARD", "")
	t.Setenv("CINTEL_LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_Snapshot(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "penguins by default",
			args: []string{"--plain"},
			want: []string{"Palmer Penguins", "Plotly Scatterplot: Species", "Altair Ridgeline Plot"},
		},
		{
			name: "tips dashboard",
			args: []string{"--plain", "--dashboard", "tips"},
			want: []string{"Restaurant Tips", "Plotly Scatterplot: Time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown dashboard", args: []string{"--plain", "--dashboard", "iris"}},
		{name: "malformed data flag", args: []string{"--plain", "--data", "penguins"}},
		{name: "unknown dataset", args: []string{"--plain", "--data", "iris=builtin:penguins"}},
		{name: "unreadable dataset", args: []string{"--plain", "--data", "penguins=csv:/no/such/file.csv"}},
		{name: "missing config file", args: []string{"--plain", "--config", "/no/such/config.yaml"}},
		{name: "stray argument", args: []string{"--plain", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

type renderedOutput struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Summary string `json:"summary"`
	Error   string `json:"error"`
	Output  struct {
		Backend   string `json:"backend"`
		Histogram *struct {
			Column string `json:"column"`
			Bins   []struct {
				Count int `json:"count"`
			} `json:"bins"`
			Missing int `json:"missing"`
		} `json:"histogram"`
	} `json:"output"`
}

func TestRender_JSON(t *testing.T) {
	out, err := execute(t, "render", "plotly_hist", "seaborn_hist",
		"--set", "plotly_bin_count=7",
		"--set", "selected_attribute=body_mass_g",
		"--output", "json")
	require.NoError(t, err)

	var got []renderedOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "plotly_hist", got[0].ID)
	assert.Equal(t, "chart", got[0].Kind)
	assert.Equal(t, "barchart", got[0].Output.Backend)
	require.NotNil(t, got[0].Output.Histogram)
	assert.Len(t, got[0].Output.Histogram.Bins, 7)
	assert.Equal(t, "body_mass_g", got[0].Output.Histogram.Column)
	assert.Equal(t, 2, got[0].Output.Histogram.Missing)

	assert.Equal(t, "sparkline", got[1].Output.Backend)
	assert.Len(t, got[1].Output.Histogram.Bins, 20, "seaborn bins untouched")
	assert.Contains(t, got[1].Summary, "body_mass_g")
}

func TestRender_Text(t *testing.T) {
	out, err := execute(t, "--dashboard", "tips", "render", "table", "plotly_scatterplot", "--width", "80")
	require.NoError(t, err)
	assert.Contains(t, out, "total_bill")
	assert.Contains(t, out, "Plotly Scatterplot: Time (plotly_scatterplot)")
	assert.Contains(t, out, "Lunch")
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown output", args: []string{"render", "violin"}},
		{name: "ridgeline on tips", args: []string{"--dashboard", "tips", "render", "altair_ridgeline"}},
		{name: "out of domain", args: []string{"render", "--set", "seaborn_bin_count=500"}},
		{name: "unknown widget", args: []string{"render", "--set", "selected_island=Dream"}},
		{name: "bad format", args: []string{"render", "--output", "yaml"}},
		{name: "bad width", args: []string{"render", "--width", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRender_FailedBindingIsReported(t *testing.T) {
	// A penguins file without the measurement columns still loads; only the bindings
	// that read those columns fail.
	path := filepath.Join(t.TempDir(), "penguins.csv")
	require.NoError(t, os.WriteFile(path, []byte("species,island\nAdelie,Torgersen\nGentoo,Biscoe\n"), 0o600))

	out, err := execute(t, "--data", "penguins=csv:"+path, "render", "table", "plotly_hist", "--output", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 outputs failed")

	var got []renderedOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Empty(t, got[0].Error)
	assert.Contains(t, got[1].Error, "bill_length_mm")
}

func TestWidgetsAndOutputs(t *testing.T) {
	out, err := execute(t, "widgets")
	require.NoError(t, err)
	assert.Contains(t, out, "selected_attribute")
	assert.Contains(t, out, "plotly_hist,seaborn_hist")
	assert.Contains(t, out, "selected_species_list")
	assert.Contains(t, out, "1..500 step 1")

	out, err = execute(t, "--dashboard", "tips", "outputs")
	require.NoError(t, err)
	assert.Contains(t, out, "selected_attribute,seaborn_bin_count")
	assert.Contains(t, out, "Plotly Scatterplot: Time")
	assert.NotContains(t, out, "altair_ridgeline")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dashboard: tips
widgets:
  plotly_bin_count: 12
`), 0o600))

	out, err := execute(t, "--config", path, "render", "plotly_hist", "--output", "json")
	require.NoError(t, err)

	var got []renderedOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Len(t, got[0].Output.Histogram.Bins, 12)
	assert.Equal(t, "total_bill", got[0].Output.Histogram.Column)
}

func TestConfigFile_SharedAcrossDashboards(t *testing.T) {
	dir := t.TempDir()
	tipsPath := filepath.Join(dir, "tips.csv")
	require.NoError(t, os.WriteFile(tipsPath, []byte(`total_bill,tip,sex,smoker,day,time,size
10.5,1.5,Female,No,Sun,Dinner,2
22.0,3.0,Male,Yes,Sat,Dinner,3
15.25,2.0,Male,No,Thur,Lunch,2
`), 0o600))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  penguins: builtin:penguins
  tips: csv:`+tipsPath+`
widgets:
  plotly_bin_count: 12
  selected_species_list: Adelie,Gentoo
  selected_day_list: Sat,Sun
`), 0o600))

	tests := []struct {
		name      string
		dashboard string
		column    string
		rows      int
	}{
		{name: "penguins ignores tips entries", dashboard: "penguins", column: "bill_length_mm"},
		{name: "tips ignores penguin entries", dashboard: "tips", column: "total_bill", rows: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "--config", path, "--dashboard", tt.dashboard,
				"render", "plotly_hist", "--output", "json")
			require.NoError(t, err)

			var got []renderedOutput
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			require.Len(t, got, 1)
			require.NotNil(t, got[0].Output.Histogram)
			assert.Equal(t, tt.column, got[0].Output.Histogram.Column)
			assert.Len(t, got[0].Output.Histogram.Bins, 12)

			if tt.rows > 0 {
				total := 0
				for _, b := range got[0].Output.Histogram.Bins {
					total += b.Count
				}
				assert.Equal(t, tt.rows, total)
			}
		})
	}
}

func TestDataFlag_RejectsDatasetOfOtherDashboard(t *testing.T) {
	_, err := execute(t, "--plain", "--data", "tips=builtin:tips")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `dashboard "penguins" has no dataset "tips"`)
}
