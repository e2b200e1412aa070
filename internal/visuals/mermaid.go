package visuals

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"crimedash/internal/dashboard"
	"crimedash/internal/stats"
)

// GenerateCategoryChart creates a Mermaid bar chart of solved and unsolved
// counts per category. Mermaid draws the two bar series overlapping, so the
// solved series comes second to stay visible.
func GenerateCategoryChart(categories []stats.CategoryStatus) string {
	if len(categories) == 0 {
		return ""
	}

	var labels, solved, unsolved []string
	maxVal := 0

	// Limit to 20 categories to keep the text chart readable
	limit := len(categories)
	if limit > 20 {
		limit = 20
	}

	for _, cs := range categories[:limit] {
		labels = append(labels, fmt.Sprintf("\"%s\"", escapeLabel(cs.Category)))
		solved = append(solved, fmt.Sprintf("%d", cs.Solved))
		unsolved = append(unsolved, fmt.Sprintf("%d", cs.Unsolved))
		if cs.Solved > maxVal {
			maxVal = cs.Solved
		}
		if cs.Unsolved > maxVal {
			maxVal = cs.Unsolved
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Solved vs Unsolved by Category\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Incidents\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(unsolved, ", ")))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(solved, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTrendChart creates a Mermaid line chart of solved and unsolved
// counts per year.
func GenerateTrendChart(years []stats.YearStatus) string {
	if len(years) == 0 {
		return ""
	}

	var labels, solved, unsolved []string
	maxVal := 0
	for _, ys := range years {
		labels = append(labels, fmt.Sprintf("\"%d\"", ys.Year))
		solved = append(solved, fmt.Sprintf("%d", ys.Solved))
		unsolved = append(unsolved, fmt.Sprintf("%d", ys.Unsolved))
		if ys.Solved > maxVal {
			maxVal = ys.Solved
		}
		if ys.Unsolved > maxVal {
			maxVal = ys.Unsolved
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Solved vs Unsolved per Year\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Incidents\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(solved, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(unsolved, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateOutcomePie creates a Mermaid pie of the summary split.
func GenerateOutcomePie(s stats.Summary) string {
	if s.Total == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("pie title Outcomes (%.2f%% solved)\n", s.SolvedRate))
	sb.WriteString(fmt.Sprintf("    \"Solved\" : %d\n", s.Solved))
	sb.WriteString(fmt.Sprintf("    \"Unsolved\" : %d\n", s.Unsolved))
	sb.WriteString("```")
	return sb.String()
}

// SummaryTable renders the summary block as a Markdown table.
func SummaryTable(s stats.Summary) string {
	var sb strings.Builder
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Total incidents | %d |\n", s.Total))
	sb.WriteString(fmt.Sprintf("| Solved | %d |\n", s.Solved))
	sb.WriteString(fmt.Sprintf("| Unsolved | %d |\n", s.Unsolved))
	sb.WriteString(fmt.Sprintf("| Solved rate | %.2f%% |\n", s.SolvedRate))
	sb.WriteString(fmt.Sprintf("| Crime categories | %d |\n", s.Categories))
	return sb.String()
}

// Charts collects every Mermaid block for a view, keyed by chart name.
// Empty charts are omitted.
func Charts(v dashboard.View) map[string]string {
	charts := make(map[string]string)
	if c := GenerateCategoryChart(v.Categories); c != "" {
		charts["categories"] = c
	}
	if c := GenerateTrendChart(v.Years); c != "" {
		charts["years"] = c
	}
	if c := GenerateOutcomePie(v.Summary); c != "" {
		charts["outcomes"] = c
	}
	return charts
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

// MermaidAdapter keeps a Markdown rendering of the latest view.
type MermaidAdapter struct {
	mu       sync.RWMutex
	markdown string
}

func (m *MermaidAdapter) Name() string { return "mermaid" }

// Update re-renders the Markdown document.
func (m *MermaidAdapter) Update(v dashboard.View) error {
	var sb strings.Builder
	sb.WriteString(SummaryTable(v.Summary))
	for _, chart := range []string{GenerateCategoryChart(v.Categories), GenerateTrendChart(v.Years)} {
		if chart != "" {
			sb.WriteString("\n")
			sb.WriteString(chart)
			sb.WriteString("\n")
		}
	}

	m.mu.Lock()
	m.markdown = sb.String()
	m.mu.Unlock()
	return nil
}

// Markdown returns the latest rendering.
func (m *MermaidAdapter) Markdown() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.markdown
}
