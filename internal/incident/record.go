package incident

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NoWeapon is substituted when a row has no weapon value.
const NoWeapon = "NO WEAPON INVOLVED"

// Record is one normalized incident row. Nil fields could not be parsed.
type Record struct {
	OccurredAt     *time.Time `json:"occurredAt,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Category       string     `json:"category"`
	Weapon         string     `json:"weapon"`
	DispositionRaw string     `json:"disposition"`
}

// Year returns the year the incident occurred, if the date was parseable.
func (r Record) Year() (int, bool) {
	if r.OccurredAt == nil {
		return 0, false
	}
	return r.OccurredAt.Year(), true
}

// Coordinates returns the location when both coordinates are present.
func (r Record) Coordinates() (lat, lon float64, ok bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return 0, 0, false
	}
	return *r.Latitude, *r.Longitude, true
}

// Columns names the source header for each record field. Matching is done on
// folded header names (see foldHeader), so aliases only need one spelling.
type Columns struct {
	DateOccurred []string
	// Year is read only when the row has no date value.
	Year         []string
	Latitude     []string
	Longitude    []string
	Category     []string
	Weapon       []string
	Disposition  []string
}

// DefaultColumns covers the cleaned dashboard file (year, lat, lon,
// crime_category, status) and the raw LAPD export.
func DefaultColumns() Columns {
	return Columns{
		DateOccurred: []string{"date_occ", "date", "date_occurred"},
		Year:         []string{"year", "year_occ"},
		Latitude:     []string{"lat", "latitude"},
		Longitude:    []string{"lon", "lng", "longitude"},
		Category:     []string{"crime_category", "crm_cd_desc", "category"},
		Weapon:       []string{"weapon_category", "weapon_desc", "weapon"},
		Disposition:  []string{"status_desc", "status"},
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04",
	"01/02/2006",
}

// Normalize converts a raw row (header -> value) into a Record. Malformed
// fields degrade to nil or the sentinel weapon; the row is never rejected.
func Normalize(row map[string]string, cols Columns) Record {
	folded := make(map[string]string, len(row))
	for k, v := range row {
		folded[foldHeader(k)] = strings.TrimSpace(v)
	}

	rec := Record{
		OccurredAt:     parseDate(lookup(folded, cols.DateOccurred)),
		Latitude:       parseCoordinate(lookup(folded, cols.Latitude)),
		Longitude:      parseCoordinate(lookup(folded, cols.Longitude)),
		Category:       lookup(folded, cols.Category),
		Weapon:         lookup(folded, cols.Weapon),
		DispositionRaw: lookup(folded, cols.Disposition),
	}
	if rec.OccurredAt == nil && lookup(folded, cols.DateOccurred) == "" {
		rec.OccurredAt = parseYear(lookup(folded, cols.Year))
	}
	if rec.Weapon == "" {
		rec.Weapon = NoWeapon
	}
	return rec
}

func lookup(row map[string]string, names []string) string {
	for _, n := range names {
		if v, ok := row[foldHeader(n)]; ok {
			return v
		}
	}
	return ""
}

// foldHeader makes "Crm Cd Desc", "crm-cd-desc" and "CRM_CD_DESC" equal.
func foldHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseYear maps a bare year to January 1 of that year, UTC.
func parseYear(s string) *time.Time {
	if s == "" {
		return nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 || y > 9999 {
		return nil
	}
	t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func parseCoordinate(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
