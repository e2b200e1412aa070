package stats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"crimedash/internal/incident"
)

// ErrInvalidSelection is returned when a filter value cannot be parsed.
var ErrInvalidSelection = errors.New("invalid filter selection")

// Selection is the current filter state. The zero value selects everything;
// each non-zero field adds one predicate.
type Selection struct {
	Year     *int            `json:"year,omitempty"`
	Category string          `json:"category,omitempty"`
	Weapon   string          `json:"weapon,omitempty"`
	Status   incident.Status `json:"status,omitempty"`
}

// ParseSelection builds a Selection from control values. Empty strings and
// "all" leave a field unset.
func ParseSelection(year, category, weapon, status string) (Selection, error) {
	var sel Selection

	if !isAll(year) {
		y, err := strconv.Atoi(strings.TrimSpace(year))
		if err != nil {
			return Selection{}, fmt.Errorf("%w: year %q", ErrInvalidSelection, year)
		}
		sel.Year = &y
	}
	if !isAll(category) {
		sel.Category = category
	}
	if !isAll(weapon) {
		sel.Weapon = weapon
	}
	if !isAll(status) {
		st, ok := incident.ParseStatus(status)
		if !ok {
			return Selection{}, fmt.Errorf("%w: status %q", ErrInvalidSelection, status)
		}
		sel.Status = st
	}
	return sel, nil
}

// YearString renders a decoded JSON year, number or string, as a control
// value for ParseSelection.
func YearString(v any) string {
	switch y := v.(type) {
	case float64:
		return strconv.FormatFloat(y, 'f', -1, 64)
	case int:
		return strconv.Itoa(y)
	case string:
		return y
	default:
		return ""
	}
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

// IsAll reports whether no predicate is active.
func (s Selection) IsAll() bool {
	return s.Year == nil && s.Category == "" && s.Weapon == "" && s.Status == ""
}

// Matches reports whether r passes every active predicate.
func (s Selection) Matches(r incident.Record, c *incident.Classifier) bool {
	if s.Year != nil {
		y, ok := r.Year()
		if !ok || y != *s.Year {
			return false
		}
	}
	if !s.matchesDimensions(r) {
		return false
	}
	if s.Status != "" && c.Classify(r.DispositionRaw) != s.Status {
		return false
	}
	return true
}

func (s Selection) matchesDimensions(r incident.Record) bool {
	if s.Category != "" && r.Category != s.Category {
		return false
	}
	if s.Weapon != "" && r.Weapon != s.Weapon {
		return false
	}
	return true
}

// Apply returns the records that match every active predicate, in input
// order. The input is not modified.
func Apply(records []incident.Record, sel Selection, c *incident.Classifier) []incident.Record {
	out := make([]incident.Record, 0, len(records))
	for _, r := range records {
		if sel.Matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

// ApplyTimeSeries filters by category and weapon only. The trend view keeps
// every year and both outcome series regardless of the year and status
// filters.
func ApplyTimeSeries(records []incident.Record, sel Selection) []incident.Record {
	out := make([]incident.Record, 0, len(records))
	for _, r := range records {
		if sel.matchesDimensions(r) {
			out = append(out, r)
		}
	}
	return out
}
