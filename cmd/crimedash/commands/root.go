package commands

import (
	"context"
	"fmt"

	"crimedash/internal/config"
	"crimedash/internal/dashboard"
	"crimedash/internal/incident"
	"crimedash/internal/logging"
	"crimedash/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	dataSource string
	cfg        *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "crimedash",
	Short: "crimedash is a crime incident dashboard and MCP server",
	Long: `Loads a table of crime incidents, classifies each case as solved or unsolved
from its disposition, and serves filtered summaries, category and year breakdowns,
and map markers over MCP (stdio), HTTP, or the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("crimedash starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		ctrl, loadErr, err := newController(ctx)
		if err != nil {
			return err
		}
		server := mcp.NewServer(ctrl, mcp.Options{
			MermaidCharts: cfg.EnableMermaidCharts,
			LoadErr:       loadErr,
		})
		return server.Serve(ctx)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataSource, "data", "", "dataset path or URL (overrides DATA_SOURCE)")
}

// newController loads the dataset and builds the dashboard state. A failed
// load is returned as loadErr alongside a controller over an empty dataset;
// err is reserved for configuration problems.
func newController(ctx context.Context) (ctrl *dashboard.Controller, loadErr error, err error) {
	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load disposition table: %w", err)
	}

	source := cfg.ResolveSource(dataSource)
	ds, loadErr := incident.Load(ctx, source, incident.LoadOptions{Timeout: cfg.FetchTimeout})
	if loadErr != nil {
		log.Error().Err(loadErr).Str("source", source).Msg("Failed to load incident dataset, continuing with empty dataset")
		ds = incident.NewDataset(source, nil)
	}

	return dashboard.NewController(ds, classifier, cfg.YearDomain), loadErr, nil
}
