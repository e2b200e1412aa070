package commands

import (
	"fmt"

	"crimedash/internal/visuals"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	renderFilters filterFlags
	renderOut     string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the category and trend charts as PNG files",
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := renderFilters.selection()
		if err != nil {
			return err
		}
		ctrl, _, err := newController(cmd.Context())
		if err != nil {
			return err
		}

		if _, err := ctrl.Select(sel); err != nil {
			return err
		}
		dir := cfg.OutputPath(renderOut, "charts")
		if err := ctrl.Attach(&visuals.PlotAdapter{Dir: dir}); err != nil {
			return err
		}

		log.Info().Str("dir", dir).Msg("Charts rendered")
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

func init() {
	renderFilters.register(renderCmd)
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output directory (default <DATA_PATH>/cache/charts)")
	rootCmd.AddCommand(renderCmd)
}
