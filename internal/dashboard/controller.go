package dashboard

import (
	"errors"
	"fmt"
	"sync"

	"crimedash/internal/incident"
	"crimedash/internal/stats"

	"github.com/rs/zerolog/log"
)

// View is everything the dashboard renders for one selection.
type View struct {
	Selection  stats.Selection        `json:"selection"`
	Summary    stats.Summary          `json:"summary"`
	Categories []stats.CategoryStatus `json:"categories"`
	Years      []stats.YearStatus     `json:"years"`
	Locations  []stats.LocationTally  `json:"locations"`
	Bounds     *stats.Bounds          `json:"bounds,omitempty"`
}

// Adapter owns a rendered view and redraws it from a new View.
type Adapter interface {
	Name() string
	Update(View) error
}

// Compute derives a View from scratch. The trend chart uses the
// category/weapon-only filter; every other view uses the full selection.
func Compute(records []incident.Record, sel stats.Selection, c *incident.Classifier, domain stats.YearDomain) View {
	filtered := stats.Apply(records, sel, c)
	locations := stats.AggregateByLocation(filtered, c)

	return View{
		Selection:  sel,
		Summary:    stats.Summarize(filtered, c),
		Categories: stats.AggregateByCategory(filtered, c),
		Years:      stats.AggregateByYear(stats.ApplyTimeSeries(records, sel), c, domain),
		Locations:  locations,
		Bounds:     stats.LocationBounds(locations),
	}
}

// Controller holds the application state: the loaded dataset, the current
// selection and the adapters that render it. Recomputations are serialized.
type Controller struct {
	dataset    *incident.Dataset
	records    []incident.Record
	classifier *incident.Classifier
	domain     stats.YearDomain

	mu       sync.Mutex
	adapters []Adapter
	current  View
}

// NewController computes the initial unfiltered view. A nil dataset is
// treated as empty so a failed load still yields a working dashboard.
func NewController(ds *incident.Dataset, c *incident.Classifier, domain stats.YearDomain) *Controller {
	if c == nil {
		c = incident.NewClassifier(nil)
	}
	if ds == nil {
		ds = incident.NewDataset("", nil)
	}
	ctrl := &Controller{
		dataset:    ds,
		records:    ds.Records(),
		classifier: c,
		domain:     domain,
	}
	ctrl.current = Compute(ctrl.records, stats.Selection{}, c, domain)
	return ctrl
}

// Dataset returns the loaded dataset.
func (c *Controller) Dataset() *incident.Dataset {
	return c.dataset
}

// Classifier returns the disposition classifier in use.
func (c *Controller) Classifier() *incident.Classifier {
	return c.classifier
}

// Options lists the filter values available in the dataset.
func (c *Controller) Options() incident.FilterOptions {
	return c.dataset.Options()
}

// Attach registers an adapter and renders the current view into it.
func (c *Controller) Attach(a Adapter) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.adapters = append(c.adapters, a)
	if err := a.Update(c.current); err != nil {
		return fmt.Errorf("adapter %s: %w", a.Name(), err)
	}
	return nil
}

// Select makes sel the current selection, recomputes every view and pushes
// it to each adapter before returning. Concurrent callers are serialized.
func (c *Controller) Select(sel stats.Selection) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = Compute(c.records, sel, c.classifier, c.domain)
	log.Debug().
		Interface("selection", sel).
		Int("matched", c.current.Summary.Total).
		Msg("Dashboard recomputed")

	var errs []error
	for _, a := range c.adapters {
		if err := a.Update(c.current); err != nil {
			log.Error().Err(err).Str("adapter", a.Name()).Msg("Adapter update failed")
			errs = append(errs, fmt.Errorf("adapter %s: %w", a.Name(), err))
		}
	}
	return c.current, errors.Join(errs...)
}

// Current returns the most recently computed view.
func (c *Controller) Current() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Preview computes the view for sel without changing the current state or
// notifying adapters.
func (c *Controller) Preview(sel stats.Selection) View {
	return Compute(c.records, sel, c.classifier, c.domain)
}

// Records returns the records matching sel.
func (c *Controller) Records(sel stats.Selection) []incident.Record {
	return stats.Apply(c.records, sel, c.classifier)
}
