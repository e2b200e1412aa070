package main

import (
	"crimedash/cmd/mockgen/engine"
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, messy")
	outDir := flag.String("out", "./.cache", "Output directory for mock files")
	name := flag.String("name", "cleaned_data.csv", "Output file name")
	count := flag.Int("count", 500, "Number of incidents to generate")
	startYear := flag.Int("start", 2020, "First year of occurrence")
	endYear := flag.Int("end", 2025, "Last year of occurrence")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:  *scenario,
		Count:     *count,
		StartYear: *startYear,
		EndYear:   *endYear,
		Seed:      *seed,
	}

	fmt.Printf("Generating scenario '%s' (Count: %d, Years: %d-%d) to %s...\n", cfg.Scenario, cfg.Count, cfg.StartYear, cfg.EndYear, *outDir)

	rows := engine.Generate(cfg)
	path, err := engine.Save(*outDir, *name, rows)
	if err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. Set DATA_SOURCE=%s\n", path)
}
