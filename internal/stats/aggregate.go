package stats

import (
	"math"

	"crimedash/internal/incident"

	"github.com/golang/geo/s2"
	"github.com/shopspring/decimal"
)

const (
	markerScale     = 4.0
	markerMaxRadius = 15.0
)

// AggregateByCategory counts outcomes per category in first-seen order.
func AggregateByCategory(records []incident.Record, c *incident.Classifier) []CategoryStatus {
	out := []CategoryStatus{}
	index := make(map[string]int)

	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(out)
			index[r.Category] = i
			out = append(out, CategoryStatus{Category: r.Category})
		}

		cs := &out[i]
		cs.Total++
		switch c.Classify(r.DispositionRaw) {
		case incident.Solved:
			cs.Solved++
		case incident.Unsolved:
			cs.Unsolved++
		default:
			cs.Unknown++
		}
	}
	return out
}

// AggregateByYear counts outcomes per year over the whole domain, zero-filled.
// Undated records and years outside the domain are dropped.
func AggregateByYear(records []incident.Record, c *incident.Classifier, domain YearDomain) []YearStatus {
	if domain.End < domain.Start {
		return []YearStatus{}
	}

	out := make([]YearStatus, domain.End-domain.Start+1)
	for i := range out {
		out[i].Year = domain.Start + i
	}

	for _, r := range records {
		y, ok := r.Year()
		if !ok || !domain.Contains(y) {
			continue
		}
		switch c.Classify(r.DispositionRaw) {
		case incident.Solved:
			out[y-domain.Start].Solved++
		case incident.Unsolved:
			out[y-domain.Start].Unsolved++
		}
	}
	return out
}

type coordinate struct {
	lat, lon float64
}

// AggregateByLocation produces one marker per exact coordinate pair, in
// first-seen order. Records without both coordinates are skipped. As in the
// summary, anything not SOLVED counts as unsolved.
func AggregateByLocation(records []incident.Record, c *incident.Classifier) []LocationTally {
	out := []LocationTally{}
	index := make(map[coordinate]int)

	for _, r := range records {
		lat, lon, ok := r.Coordinates()
		if !ok {
			continue
		}
		st := c.Classify(r.DispositionRaw)

		key := coordinate{lat, lon}
		i, seen := index[key]
		if !seen {
			i = len(out)
			index[key] = i
			out = append(out, LocationTally{Latitude: lat, Longitude: lon})
		}
		if st == incident.Solved {
			out[i].Solved++
		} else {
			out[i].Unsolved++
		}
	}

	for i := range out {
		out[i].Dominant = DominantStatus(out[i].Solved, out[i].Unsolved)
		out[i].Radius = MarkerRadius(out[i].Solved + out[i].Unsolved)
	}
	return out
}

// DominantStatus is Solved only when solved strictly outnumbers unsolved.
func DominantStatus(solved, unsolved int) incident.Status {
	if solved > unsolved {
		return incident.Solved
	}
	return incident.Unsolved
}

// MarkerRadius scales with the square root of the count, capped at 15.
func MarkerRadius(count int) float64 {
	return math.Min(math.Sqrt(float64(count))*markerScale, markerMaxRadius)
}

// LocationBounds returns the rectangle enclosing every marker, or nil when
// there are none.
func LocationBounds(tallies []LocationTally) *Bounds {
	if len(tallies) == 0 {
		return nil
	}

	rect := s2.EmptyRect()
	for _, t := range tallies {
		rect = rect.AddPoint(s2.LatLngFromDegrees(t.Latitude, t.Longitude))
	}

	lo, hi, center := rect.Lo(), rect.Hi(), rect.Center()
	return &Bounds{
		South:     lo.Lat.Degrees(),
		West:      lo.Lng.Degrees(),
		North:     hi.Lat.Degrees(),
		East:      hi.Lng.Degrees(),
		CenterLat: center.Lat.Degrees(),
		CenterLon: center.Lng.Degrees(),
	}
}

// Summarize computes the summary block. Unsolved is derived by subtraction.
func Summarize(records []incident.Record, c *incident.Classifier) Summary {
	s := Summary{Total: len(records)}
	categories := make(map[string]bool)
	for _, r := range records {
		categories[r.Category] = true
		if c.Classify(r.DispositionRaw) == incident.Solved {
			s.Solved++
		}
	}
	s.Unsolved = s.Total - s.Solved
	s.Categories = len(categories)
	s.SolvedRate = SolvedRate(s.Solved, s.Total)
	return s
}

// SolvedRate is 100*solved/total rounded to two decimals, or 0 for an empty
// total.
func SolvedRate(solved, total int) float64 {
	if total == 0 {
		return 0
	}
	rate, _ := decimal.NewFromInt(int64(solved)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		Float64()
	return rate
}
