package backend

import (
	"fmt"
	"slices"
	"time"

	"git.sr.ht/~whereswaldon/drill-chart/granularity"
)

// Drilldown is the state machine behind the chart. Each call to Reset,
// Click or SetDatasets replaces the current Chart with a newly generated one.
//
// A Drilldown is not safe for concurrent use; it is meant to be driven from
// a single event loop.
type Drilldown struct {
	gen   *Generator
	now   func() time.Time
	defs  []DatasetDef
	chart Chart
}

// NewDrilldown returns a controller with no labels. Call Reset to generate
// the first window. A nil now uses time.Now.
func NewDrilldown(gen *Generator, defs []DatasetDef, now func() time.Time) *Drilldown {
	if now == nil {
		now = time.Now
	}
	return &Drilldown{
		gen:  gen,
		now:  now,
		defs: slices.Clone(defs),
	}
}

// State returns the current window.
func (d *Drilldown) State() Chart {
	return d.chart
}

func (d *Drilldown) Granularity() granularity.Granularity {
	return d.chart.Granularity
}

func (d *Drilldown) Selection() Selection {
	return d.chart.Selection
}

// Datasets returns the definitions currently plotted.
func (d *Drilldown) Datasets() []DatasetDef {
	return slices.Clone(d.defs)
}

func (d *Drilldown) wallClock() time.Time {
	return d.now().In(d.gen.Locale.location())
}

// Reset returns to the month view anchored at the current time. The previous
// selection is discarded; the new window records its own.
func (d *Drilldown) Reset() Chart {
	d.chart = d.gen.Generate(granularity.Month, d.wallClock(), d.defs)
	return d.chart
}

// Click drills into the sample at index. It reports whether the window
// changed. Clicks at the finest granularity, before any window exists, or
// outside the window are ignored. A label that cannot be read back into a
// timestamp leaves the state unchanged and returns an error wrapping
// ErrBadLabel.
func (d *Drilldown) Click(index int) (bool, error) {
	if d.chart.Len() == 0 {
		return false, nil
	}
	next, ok := d.chart.Granularity.Next()
	if !ok {
		return false, nil
	}
	if index < 0 || index >= d.chart.Len() {
		return false, nil
	}
	anchor, err := d.anchorAt(index)
	if err != nil {
		return false, fmt.Errorf("drilling into %s sample %d: %w", d.chart.Granularity, index, err)
	}
	d.chart = d.gen.Generate(next, anchor, d.defs)
	return true, nil
}

// anchorAt derives the timestamp implied by the label at index, based on the
// current (coarser) granularity.
func (d *Drilldown) anchorAt(index int) (time.Time, error) {
	label := d.chart.Labels[index]
	if d.chart.Granularity != granularity.Day {
		return d.gen.Locale.ParseDate(label)
	}
	hour, err := ParseHour(label)
	if err != nil {
		return time.Time{}, err
	}
	// An hour label carries no date, so start from today and restore what
	// the selection remembers. Each field is applied in turn and normalized
	// before the next one.
	t := d.wallClock()
	sel := d.chart.Selection
	// January reads as unset, like Sunday below, and keeps today's month.
	if sel.Month > time.January {
		t = withDate(t, t.Year(), sel.Month, t.Day())
	}
	if sel.Day != 0 {
		// Day is a weekday number; it is applied as a day of the month.
		t = withDate(t, t.Year(), t.Month(), sel.Day)
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), hour, t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	return t, nil
}

func withDate(t time.Time, year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// SetDatasets replaces the plotted datasets and draws new values for the
// current window. Labels and granularity are unchanged.
func (d *Drilldown) SetDatasets(defs []DatasetDef) {
	d.defs = slices.Clone(defs)
	if d.chart.Len() == 0 {
		return
	}
	d.chart = d.gen.Redraw(d.chart, d.defs)
}
