package stats

import (
	"math"
	"reflect"
	"testing"

	"crimedash/internal/incident"
)

func TestScenario_ThreeRecords(t *testing.T) {
	c := incident.NewClassifier(nil)
	records := []incident.Record{
		rec(2021, "THEFT", "", "Adult Arrest"),
		rec(2021, "THEFT", "", "UNK"),
		rec(2021, "ASSAULT", "", "Invest Cont"),
	}

	got := AggregateByCategory(records, c)
	want := []CategoryStatus{
		{Category: "THEFT", Solved: 1, Unsolved: 1, Total: 2},
		{Category: "ASSAULT", Solved: 0, Unsolved: 1, Total: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AggregateByCategory() = %+v, want %+v", got, want)
	}

	s := Summarize(records, c)
	if s.Total != 3 || s.Solved != 1 || s.Unsolved != 2 || s.SolvedRate != 33.33 {
		t.Errorf("Summarize() = %+v, want total 3, solved 1, unsolved 2, rate 33.33", s)
	}
	if s.Categories != 2 {
		t.Errorf("Expected 2 categories, got %d", s.Categories)
	}
}

func TestAggregateByCategory_UnknownInNeitherSeries(t *testing.T) {
	c := incident.NewClassifier(nil)
	records := []incident.Record{
		rec(2021, "FRAUD", "", "Referred"),
		rec(2021, "FRAUD", "", "Adult Arrest"),
		rec(2021, "ARSON", "", ""),
	}

	got := AggregateByCategory(records, c)
	want := []CategoryStatus{
		{Category: "FRAUD", Solved: 1, Unsolved: 0, Unknown: 1, Total: 2},
		{Category: "ARSON", Solved: 0, Unsolved: 0, Unknown: 1, Total: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AggregateByCategory() = %+v, want %+v", got, want)
	}

	for _, cs := range got {
		if cs.Solved+cs.Unsolved+cs.Unknown != cs.Total {
			t.Errorf("%s: buckets do not sum to total: %+v", cs.Category, cs)
		}
	}
}

func TestAggregateByCategory_FirstSeenOrder(t *testing.T) {
	c := incident.NewClassifier(nil)
	records := []incident.Record{
		rec(0, "ZEBRA", "", "UNK"),
		rec(0, "ALPHA", "", "UNK"),
		rec(0, "ZEBRA", "", "UNK"),
		rec(0, "MIDDLE", "", "UNK"),
	}

	var got []string
	for _, cs := range AggregateByCategory(records, c) {
		got = append(got, cs.Category)
	}
	if !reflect.DeepEqual(got, []string{"ZEBRA", "ALPHA", "MIDDLE"}) {
		t.Errorf("Expected first-seen order, got %v", got)
	}
}

func TestAggregateByYear(t *testing.T) {
	c := incident.NewClassifier(nil)
	records := []incident.Record{
		rec(2019, "THEFT", "", "Adult Arrest"),
		rec(2020, "THEFT", "", "Adult Arrest"),
		rec(2020, "THEFT", "", "Invest Cont"),
		rec(2022, "THEFT", "", "UNK"),
		rec(2022, "THEFT", "", "Referred"),
		rec(2025, "THEFT", "", "Juv Arrest"),
		rec(2026, "THEFT", "", "Invest Cont"),
		rec(0, "THEFT", "", "Adult Arrest"),
	}

	got := AggregateByYear(records, c, DefaultYearDomain)
	want := []YearStatus{
		{Year: 2020, Solved: 1, Unsolved: 1},
		{Year: 2021},
		{Year: 2022, Unsolved: 1},
		{Year: 2023},
		{Year: 2024},
		{Year: 2025, Solved: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AggregateByYear() = %+v, want %+v", got, want)
	}
}

func TestAggregateByYear_EmptyAndInverted(t *testing.T) {
	c := incident.NewClassifier(nil)

	got := AggregateByYear(nil, c, DefaultYearDomain)
	if len(got) != 6 {
		t.Fatalf("Expected 6 zero-filled years, got %d", len(got))
	}
	for _, ys := range got {
		if ys.Solved != 0 || ys.Unsolved != 0 {
			t.Errorf("Expected zero counts, got %+v", ys)
		}
	}

	if got := AggregateByYear(nil, c, YearDomain{Start: 2025, End: 2020}); len(got) != 0 {
		t.Errorf("Expected no buckets for inverted domain, got %d", len(got))
	}
}

func located(lat, lon float64, disposition string) incident.Record {
	r := rec(2021, "THEFT", "", disposition)
	r.Latitude = coord(lat)
	r.Longitude = coord(lon)
	return r
}

func TestAggregateByLocation_TieIsUnsolved(t *testing.T) {
	c := incident.NewClassifier(nil)
	records := []incident.Record{
		located(34.05, -118.24, "Adult Arrest"),
		located(34.05, -118.24, "Invest Cont"),
	}

	got := AggregateByLocation(records, c)
	if len(got) != 1 {
		t.Fatalf("Expected 1 marker, got %d", len(got))
	}
	m := got[0]
	if m.Solved != 1 || m.Unsolved != 1 {
		t.Errorf("Expected 1/1 tally, got %d/%d", m.Solved, m.Unsolved)
	}
	if m.Dominant != incident.Unsolved {
		t.Errorf("Expected tie to resolve to UNSOLVED, got %s", m.Dominant)
	}
	if want := math.Sqrt(2) * 4; math.Abs(m.Radius-want) > 1e-9 {
		t.Errorf("Expected radius %v, got %v", want, m.Radius)
	}
}

func TestAggregateByLocation_Grouping(t *testing.T) {
	c := incident.NewClassifier(nil)
	undated := rec(0, "THEFT", "", "Adult Arrest")
	undated.Latitude = coord(34.0)

	records := []incident.Record{
		located(34.05, -118.24, "Adult Arrest"),
		located(34.050000001, -118.24, "Adult Arrest"),
		located(34.05, -118.24, "Juv Other"),
		located(35.0, -117.0, "Referred"),
		undated,
	}

	got := AggregateByLocation(records, c)
	if len(got) != 3 {
		t.Fatalf("Expected 3 markers (exact pairs, half-located skipped), got %d: %+v", len(got), got)
	}
	if got[0].Latitude != 34.05 || got[0].Solved != 2 || got[0].Dominant != incident.Solved {
		t.Errorf("Unexpected first marker %+v", got[0])
	}
	if got[1].Latitude != 34.050000001 || got[1].Solved != 1 {
		t.Errorf("Unexpected second marker %+v", got[1])
	}
	if got[2].Latitude != 35.0 || got[2].Unsolved != 1 || got[2].Dominant != incident.Unsolved {
		t.Errorf("Expected unknown-only pair tallied as unsolved, got %+v", got[2])
	}
}

func TestAggregateByLocation_UnknownOnlyPairKeepsMarker(t *testing.T) {
	c := incident.NewClassifier(nil)
	records := []incident.Record{
		located(34.1, -118.3, "Referred"),
		located(34.1, -118.3, ""),
	}

	got := AggregateByLocation(records, c)
	if len(got) != 1 {
		t.Fatalf("Expected one marker per located pair, got %d", len(got))
	}
	if got[0].Solved != 0 || got[0].Unsolved != 2 {
		t.Errorf("Expected 0 solved / 2 unsolved, got %d / %d", got[0].Solved, got[0].Unsolved)
	}
	if got[0].Radius != MarkerRadius(2) {
		t.Errorf("Expected radius %v, got %v", MarkerRadius(2), got[0].Radius)
	}
}

func TestMarkerRadius(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{0, 0},
		{1, 4},
		{4, 8},
		{9, 12},
		{15, 15},
		{100, 15},
	}
	for _, tt := range tests {
		if got := MarkerRadius(tt.count); got != tt.want {
			t.Errorf("MarkerRadius(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestLocationBounds(t *testing.T) {
	if b := LocationBounds(nil); b != nil {
		t.Errorf("Expected nil bounds for no markers, got %+v", b)
	}

	b := LocationBounds([]LocationTally{
		{Latitude: 34.0, Longitude: -118.5},
		{Latitude: 34.2, Longitude: -118.1},
	})
	if b == nil {
		t.Fatal("Expected bounds")
	}
	const eps = 1e-9
	if math.Abs(b.South-34.0) > eps || math.Abs(b.North-34.2) > eps {
		t.Errorf("Unexpected latitude bounds %+v", b)
	}
	if math.Abs(b.West+118.5) > eps || math.Abs(b.East+118.1) > eps {
		t.Errorf("Unexpected longitude bounds %+v", b)
	}
	if math.Abs(b.CenterLat-34.1) > eps || math.Abs(b.CenterLon+118.3) > eps {
		t.Errorf("Unexpected center %+v", b)
	}
}

func TestSummarize(t *testing.T) {
	c := incident.NewClassifier(nil)

	t.Run("Empty", func(t *testing.T) {
		s := Summarize(nil, c)
		if s != (Summary{}) {
			t.Errorf("Expected zero summary, got %+v", s)
		}
	})

	t.Run("UnknownFoldsIntoUnsolved", func(t *testing.T) {
		records := []incident.Record{
			rec(2021, "THEFT", "", "Adult Arrest"),
			rec(2021, "THEFT", "", "Referred"),
		}
		s := Summarize(records, c)
		if s.Unsolved != 1 || s.SolvedRate != 50 {
			t.Errorf("Expected unsolved 1 and rate 50, got %+v", s)
		}
	})
}

func TestSolvedRate(t *testing.T) {
	tests := []struct {
		solved, total int
		want          float64
	}{
		{0, 0, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{1, 8, 12.5},
		{5, 5, 100},
		{1, 6, 16.67},
	}
	for _, tt := range tests {
		if got := SolvedRate(tt.solved, tt.total); got != tt.want {
			t.Errorf("SolvedRate(%d, %d) = %v, want %v", tt.solved, tt.total, got, tt.want)
		}
	}
}
