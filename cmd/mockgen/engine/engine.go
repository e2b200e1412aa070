package engine

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Header uses the raw LAPD export column names, which DefaultColumns also reads.
var Header = []string{"DATE OCC", "LAT", "LON", "Crime_Category", "Weapon_Category", "Status_Desc"}

type GeneratorConfig struct {
	Scenario  string // "mild" or "messy"
	Count     int
	StartYear int
	EndYear   int
	Seed      int64
}

var (
	categories = []string{"ASSAULT", "BURGLARY", "ROBBERY", "THEFT", "VANDALISM", "VEHICLE THEFT"}
	weapons    = []string{"", "", "", "HANDGUN", "KNIFE", "BLUNT OBJECT", "STRONG-ARM"}

	// Weighted toward open cases, roughly like the LAPD export.
	dispositions = []string{"Invest Cont", "Invest Cont", "Invest Cont", "Adult Arrest", "Adult Other", "Juv Arrest", "Juv Other", "UNK"}

	// Neighbourhood centers to cluster incidents around.
	hotspots = [][2]float64{
		{34.0522, -118.2437},
		{34.0928, -118.3287},
		{33.9731, -118.2479},
		{34.1808, -118.3090},
	}
)

// Generate produces cfg.Count incident rows. The "messy" scenario mixes in
// malformed dates and coordinates, surrounding whitespace, and dispositions
// no table knows about.
func Generate(cfg GeneratorConfig) [][]string {
	if cfg.StartYear == 0 {
		cfg.StartYear = 2020
	}
	if cfg.EndYear < cfg.StartYear {
		cfg.EndYear = cfg.StartYear
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	messy := cfg.Scenario == "messy"

	start := time.Date(cfg.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(cfg.EndYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	span := end.Sub(start)

	rows := make([][]string, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		occurred := start.Add(time.Duration(rng.Int63n(int64(span))))
		center := hotspots[rng.Intn(len(hotspots))]

		// Snap to a ~100m grid so nearby incidents share a marker.
		lat := snap(center[0] + rng.NormFloat64()*0.02)
		lon := snap(center[1] + rng.NormFloat64()*0.02)

		row := []string{
			occurred.Format("01/02/2006 03:04:05 PM"),
			strconv.FormatFloat(lat, 'f', 4, 64),
			strconv.FormatFloat(lon, 'f', 4, 64),
			categories[rng.Intn(len(categories))],
			weapons[rng.Intn(len(weapons))],
			dispositions[rng.Intn(len(dispositions))],
		}
		if messy {
			mangle(rng, row)
		}
		rows = append(rows, row)
	}
	return rows
}

func mangle(rng *rand.Rand, row []string) {
	switch rng.Intn(10) {
	case 0:
		row[0] = "unknown"
	case 1:
		row[1], row[2] = "", ""
	case 2:
		row[1] = "NaN"
	case 3:
		row[5] = "Referred"
	case 4:
		row[5] = "  " + row[5] + " "
	case 5:
		row[0] = ""
	}
}

func snap(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Save writes rows with Header as CSV to outDir/name.
func Save(outDir, name string, rows [][]string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return "", err
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, f.Close()
}
