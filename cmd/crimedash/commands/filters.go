package commands

import (
	"crimedash/internal/stats"

	"github.com/spf13/cobra"
)

// filterFlags mirrors the four dashboard controls.
type filterFlags struct {
	year     string
	category string
	weapon   string
	status   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.year, "year", "all", "calendar year of occurrence")
	cmd.Flags().StringVar(&f.category, "category", "all", "crime category")
	cmd.Flags().StringVar(&f.weapon, "weapon", "all", "weapon description")
	cmd.Flags().StringVar(&f.status, "status", "all", "SOLVED, UNSOLVED or UNKNOWN")
}

func (f *filterFlags) selection() (stats.Selection, error) {
	return stats.ParseSelection(f.year, f.category, f.weapon, f.status)
}
