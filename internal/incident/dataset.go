package incident

import (
	"slices"
	"sort"
)

// Dataset holds the records exactly as loaded, in source order. It is
// written once by the loader and never modified afterwards, so it is safe
// for concurrent readers.
type Dataset struct {
	source  string
	records []Record
}

// NewDataset takes ownership of records.
func NewDataset(source string, records []Record) *Dataset {
	return &Dataset{source: source, records: records}
}

// Source is the path or URL the records came from.
func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of the records in source order.
func (d *Dataset) Records() []Record {
	if d == nil {
		return []Record{}
	}
	return slices.Clone(d.records)
}

// FilterOptions lists the values each filter control can take.
type FilterOptions struct {
	Years      []int    `json:"years"`
	Categories []string `json:"categories"`
	Weapons    []string `json:"weapons"`
	Statuses   []Status `json:"statuses"`
}

// Options derives the filter option lists from distinct field values.
func (d *Dataset) Options() FilterOptions {
	years := make(map[int]bool)
	categories := make(map[string]bool)
	weapons := make(map[string]bool)

	if d != nil {
		for _, r := range d.records {
			if y, ok := r.Year(); ok {
				years[y] = true
			}
			categories[r.Category] = true
			weapons[r.Weapon] = true
		}
	}

	opts := FilterOptions{
		Years:      make([]int, 0, len(years)),
		Categories: sortedKeys(categories),
		Weapons:    sortedKeys(weapons),
		Statuses:   slices.Clone(Statuses),
	}
	for y := range years {
		opts.Years = append(opts.Years, y)
	}
	sort.Ints(opts.Years)
	return opts
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
