package commands

import (
	"fmt"

	"crimedash/internal/visuals"

	"github.com/spf13/cobra"
)

var (
	summaryFilters filterFlags
	summaryCharts  bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the summary block for a filter selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := summaryFilters.selection()
		if err != nil {
			return err
		}
		ctrl, _, err := newController(cmd.Context())
		if err != nil {
			return err
		}

		v, err := ctrl.Select(sel)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !summaryCharts {
			fmt.Fprint(out, visuals.SummaryTable(v.Summary))
			return nil
		}

		mermaid := &visuals.MermaidAdapter{}
		if err := ctrl.Attach(mermaid); err != nil {
			return err
		}
		fmt.Fprint(out, mermaid.Markdown())
		return nil
	},
}

func init() {
	summaryFilters.register(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryCharts, "charts", false, "append Mermaid category and trend charts")
	rootCmd.AddCommand(summaryCmd)
}
