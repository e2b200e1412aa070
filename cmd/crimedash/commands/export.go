package commands

import (
	"fmt"

	"crimedash/internal/incident"

	"github.com/spf13/cobra"
)

var (
	exportFilters filterFlags
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered, normalized records as a JSONL snapshot",
	Long: `Writes one JSON record per line. The snapshot can be used as DATA_SOURCE
(any source ending in .jsonl is read as a snapshot).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := exportFilters.selection()
		if err != nil {
			return err
		}
		ctrl, loadErr, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if loadErr != nil {
			return fmt.Errorf("nothing to export: %w", loadErr)
		}

		out := cfg.OutputPath(exportOut, "incidents.jsonl")
		records := ctrl.Records(sel)
		if err := incident.SaveSnapshot(out, records); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d records written to %s\n", len(records), out)
		return nil
	},
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "snapshot file (default <DATA_PATH>/cache/incidents.jsonl)")
	rootCmd.AddCommand(exportCmd)
}
