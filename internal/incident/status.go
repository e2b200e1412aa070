package incident

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Status is the investigative outcome bucket a disposition falls into.
type Status string

const (
	Solved   Status = "SOLVED"
	Unsolved Status = "UNSOLVED"
	Unknown  Status = "UNKNOWN"
)

// Statuses lists every status in display order.
var Statuses = []Status{Solved, Unsolved, Unknown}

// ParseStatus resolves a status name case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case Solved:
		return Solved, true
	case Unsolved:
		return Unsolved, true
	case Unknown:
		return Unknown, true
	}
	return "", false
}

// DispositionTable maps raw disposition strings to a status.
type DispositionTable map[string]Status

// DefaultDispositionTable returns the dispositions used by the LAPD export,
// plus the already classified values found in the cleaned dashboard file.
func DefaultDispositionTable() DispositionTable {
	return DispositionTable{
		"Adult Arrest": Solved,
		"Adult Other":  Solved,
		"Juv Arrest":   Solved,
		"Juv Other":    Solved,
		"Invest Cont":  Unsolved,
		"UNK":          Unsolved,
		"SOLVED":       Solved,
		"UNSOLVED":     Unsolved,
	}
}

// LoadDispositionTable reads a JSON object of disposition -> status name.
// The result replaces the defaults; it is not merged with them.
func LoadDispositionTable(path string) (DispositionTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read disposition table: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse disposition table %s: %w", path, err)
	}

	table := make(DispositionTable, len(raw))
	for disposition, name := range raw {
		st, ok := ParseStatus(name)
		if !ok {
			return nil, fmt.Errorf("disposition %q maps to unknown status %q", disposition, name)
		}
		table[strings.TrimSpace(disposition)] = st
	}
	return table, nil
}

// Classifier maps dispositions to statuses using a fixed table.
type Classifier struct {
	table DispositionTable
}

// NewClassifier creates a classifier over a copy of table. A nil table
// selects the defaults.
func NewClassifier(table DispositionTable) *Classifier {
	if table == nil {
		table = DefaultDispositionTable()
	}
	c := &Classifier{table: make(DispositionTable, len(table))}
	for k, v := range table {
		c.table[k] = v
	}
	return c
}

// Classify never fails: anything not in the table is Unknown.
func (c *Classifier) Classify(disposition string) Status {
	if st, ok := c.table[strings.TrimSpace(disposition)]; ok {
		return st
	}
	return Unknown
}
