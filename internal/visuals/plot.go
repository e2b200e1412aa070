package visuals

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"crimedash/internal/dashboard"
	"crimedash/internal/stats"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 5 * vg.Inch
	barWidth    = vg.Length(12)
)

var (
	solvedColor   = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	unsolvedColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// CategoryPlot builds the grouped solved/unsolved bar chart.
func CategoryPlot(categories []stats.CategoryStatus) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Solved vs Unsolved by Category"
	p.Y.Label.Text = "Incidents"
	p.Legend.Top = true

	if len(categories) == 0 {
		return p, nil
	}

	solved := make(plotter.Values, len(categories))
	unsolved := make(plotter.Values, len(categories))
	names := make([]string, len(categories))
	for i, cs := range categories {
		solved[i] = float64(cs.Solved)
		unsolved[i] = float64(cs.Unsolved)
		names[i] = cs.Category
	}

	solvedBars, err := plotter.NewBarChart(solved, barWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to build solved bars: %w", err)
	}
	solvedBars.Color = solvedColor
	solvedBars.LineStyle.Width = 0
	solvedBars.Offset = -barWidth / 2

	unsolvedBars, err := plotter.NewBarChart(unsolved, barWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to build unsolved bars: %w", err)
	}
	unsolvedBars.Color = unsolvedColor
	unsolvedBars.LineStyle.Width = 0
	unsolvedBars.Offset = barWidth / 2

	p.Add(solvedBars, unsolvedBars)
	p.Legend.Add("Solved", solvedBars)
	p.Legend.Add("Unsolved", unsolvedBars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.6
	return p, nil
}

// TrendPlot builds the per-year solved/unsolved line chart.
func TrendPlot(years []stats.YearStatus) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Solved vs Unsolved per Year"
	p.Y.Label.Text = "Incidents"
	p.Legend.Top = true

	if len(years) == 0 {
		return p, nil
	}

	solved := make(plotter.XYs, len(years))
	unsolved := make(plotter.XYs, len(years))
	labels := make([]string, len(years))
	for i, ys := range years {
		solved[i] = plotter.XY{X: float64(i), Y: float64(ys.Solved)}
		unsolved[i] = plotter.XY{X: float64(i), Y: float64(ys.Unsolved)}
		labels[i] = strconv.Itoa(ys.Year)
	}

	for _, series := range []struct {
		name string
		xys  plotter.XYs
		c    color.Color
	}{
		{"Solved", solved, solvedColor},
		{"Unsolved", unsolved, unsolvedColor},
	} {
		line, points, err := plotter.NewLinePoints(series.xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s line: %w", series.name, err)
		}
		line.Color = series.c
		points.Color = series.c
		p.Add(line, points)
		p.Legend.Add(series.name, line, points)
	}
	p.NominalX(labels...)
	p.Y.Min = 0
	return p, nil
}

// WritePNG encodes p as a PNG of the default chart size.
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// PlotAdapter writes categories.png and years.png into Dir on every update.
type PlotAdapter struct {
	Dir string
}

func (a *PlotAdapter) Name() string { return "plot" }

// Update renders both charts for the view.
func (a *PlotAdapter) Update(v dashboard.View) error {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	cp, err := CategoryPlot(v.Categories)
	if err != nil {
		return err
	}
	if err := cp.Save(chartWidth, chartHeight, filepath.Join(a.Dir, "categories.png")); err != nil {
		return fmt.Errorf("failed to save category chart: %w", err)
	}

	tp, err := TrendPlot(v.Years)
	if err != nil {
		return err
	}
	if err := tp.Save(chartWidth, chartHeight, filepath.Join(a.Dir, "years.png")); err != nil {
		return fmt.Errorf("failed to save trend chart: %w", err)
	}
	return nil
}
