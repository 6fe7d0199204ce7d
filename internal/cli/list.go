package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newWidgetsCmd(st *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "widgets",
		Short: "List the dashboard's widgets",
		Long:  "List every widget with its kind, default, domain and the outputs that re-render when it changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := buildDefinition(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // tab padding
			fmt.Fprintln(w, "ID\tKIND\tDEFAULT\tDOMAIN\tDEPENDENTS")
			for _, wd := range def.Panel.Widgets {
				deps := strings.Join(def.Registry.Dependents(wd.ID), ",")
				if deps == "" {
					deps = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", wd.ID, wd.Kind, wd.Default, wd.Describe(), deps)
			}
			return w.Flush()
		},
	}
}

func newOutputsCmd(st *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "outputs",
		Short: "List the dashboard's outputs",
		Long:  "List every render binding with its kind, the widgets it reads and its card.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := buildDefinition(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // tab padding
			fmt.Fprintln(w, "ID\tKIND\tDEPS\tCARD")
			for _, b := range def.Registry.Bindings() {
				deps := strings.Join(b.Deps, ",")
				if deps == "" {
					deps = "-"
				}
				card := "-"
				if c, ok := def.Layout.Find(b.ID); ok && c.Header != "" {
					card = c.Header
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Kind, deps, card)
			}
			return w.Flush()
		},
	}
}
