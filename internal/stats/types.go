package stats

import "crimedash/internal/incident"

// CategoryStatus is one bar group of the category chart.
type CategoryStatus struct {
	Category string `json:"category"`
	Solved   int    `json:"solved"`
	Unsolved int    `json:"unsolved"`
	Unknown  int    `json:"unknown"` // in neither series
	Total    int    `json:"total"`
}

// YearStatus is one point of the trend line chart.
type YearStatus struct {
	Year     int `json:"year"`
	Solved   int `json:"solved"`
	Unsolved int `json:"unsolved"`
}

// YearDomain is the inclusive year range the trend chart reports over.
type YearDomain struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DefaultYearDomain is 2020 through 2025.
var DefaultYearDomain = YearDomain{Start: 2020, End: 2025}

// Contains reports whether year falls inside the domain.
func (d YearDomain) Contains(year int) bool {
	return year >= d.Start && year <= d.End
}

// LocationTally is one map marker.
type LocationTally struct {
	Latitude  float64         `json:"lat"`
	Longitude float64         `json:"lon"`
	Solved    int             `json:"solved"`
	Unsolved  int             `json:"unsolved"`
	Dominant  incident.Status `json:"dominant"`
	Radius    float64         `json:"radius"`
}

// Bounds frames the map around the markers.
type Bounds struct {
	South     float64 `json:"south"`
	West      float64 `json:"west"`
	North     float64 `json:"north"`
	East      float64 `json:"east"`
	CenterLat float64 `json:"centerLat"`
	CenterLon float64 `json:"centerLon"`
}

// Summary is the scalar block of the dashboard.
//
// Unsolved is Total - Solved, so UNKNOWN dispositions count as unsolved here
// while CategoryStatus keeps them apart.
type Summary struct {
	Total      int     `json:"total"`
	Solved     int     `json:"solved"`
	Unsolved   int     `json:"unsolved"`
	SolvedRate float64 `json:"solvedRate"`
	Categories int     `json:"categories"`
}
