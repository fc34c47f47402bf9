package backend

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"git.sr.ht/~whereswaldon/drill-chart/granularity"
)

const (
	// ValueMin and ValueMax bound generated values to [ValueMin,ValueMax).
	ValueMin = 0
	ValueMax = 100
)

// Series represents one data set in a visualization.
type Series struct {
	Def    DatasetDef
	Values []float64
}

// Stats summarizes the series. If the series is empty, ok is false and all
// other returns are zero.
func (s Series) Stats() (minimum, mean, maximum float64, ok bool) {
	if len(s.Values) == 0 {
		return 0, 0, 0, false
	}
	return floats.Min(s.Values), stat.Mean(s.Values, nil), floats.Max(s.Values), true
}

// Selection remembers the anchor of the most recent window. Day holds a
// weekday (0 is Sunday), not a day of the month. A zero field means unset.
type Selection struct {
	Month time.Month
	Day   int
}

// Chart is one generated window. A Chart is never modified after it has
// been generated; drilling down produces a new one.
type Chart struct {
	Granularity granularity.Granularity
	Anchor      time.Time
	// Labels and Timestamps are parallel, oldest first.
	Labels     []string
	Timestamps []time.Time
	// Every series holds exactly len(Labels) values.
	Series    []Series
	Selection Selection
}

// Len returns the number of samples in the window.
func (c Chart) Len() int {
	return len(c.Labels)
}

// ValuesAt returns the value of every series at sample index i.
func (c Chart) ValuesAt(i int) []float64 {
	if i < 0 || i >= c.Len() {
		return nil
	}
	out := make([]float64, len(c.Series))
	for s, series := range c.Series {
		out[s] = series.Values[i]
	}
	return out
}

// Generator produces synthetic windows of uniformly random values.
type Generator struct {
	Locale Locale
	dist   distuv.Uniform
}

// NewGenerator returns a generator drawing from src. A nil src uses a source
// seeded from the wall clock.
func NewGenerator(locale Locale, src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	return &Generator{
		Locale: locale,
		dist: distuv.Uniform{
			Min: ValueMin,
			Max: ValueMax,
			Src: src,
		},
	}
}

// Generate builds the window of g.Points()+1 samples ending at anchor, with
// one freshly drawn value per sample for each of defs.
func (gen *Generator) Generate(g granularity.Granularity, anchor time.Time, defs []DatasetDef) Chart {
	points := g.Points()
	interval := g.Interval()
	c := Chart{
		Granularity: g,
		Anchor:      anchor,
		Labels:      make([]string, 0, points+1),
		Timestamps:  make([]time.Time, 0, points+1),
		Series:      make([]Series, len(defs)),
		Selection: Selection{
			Month: anchor.Month(),
			Day:   int(anchor.Weekday()),
		},
	}
	for i, def := range defs {
		c.Series[i] = Series{
			Def:    def,
			Values: make([]float64, 0, points+1),
		}
	}
	for offset := points; offset >= 0; offset-- {
		ts := anchor.Add(-time.Duration(offset) * interval)
		c.Timestamps = append(c.Timestamps, ts)
		c.Labels = append(c.Labels, gen.Locale.Label(g, ts))
		for i := range c.Series {
			c.Series[i].Values = append(c.Series[i].Values, gen.dist.Rand())
		}
	}
	return c
}

// Redraw returns a copy of c with new values drawn for defs. Labels,
// timestamps and the selection are kept.
func (gen *Generator) Redraw(c Chart, defs []DatasetDef) Chart {
	out := c
	out.Series = make([]Series, len(defs))
	for i, def := range defs {
		values := make([]float64, c.Len())
		for v := range values {
			values[v] = gen.dist.Rand()
		}
		out.Series[i] = Series{Def: def, Values: values}
	}
	return out
}
