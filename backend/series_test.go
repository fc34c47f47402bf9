package backend

import (
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"git.sr.ht/~whereswaldon/drill-chart/granularity"
)

func makeTestGenerator() *Generator {
	l := DefaultLocale()
	l.Location = time.UTC
	return NewGenerator(l, rand.NewSource(1))
}

func TestGenerateShape(t *testing.T) {
	gen := makeTestGenerator()
	anchor := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	defs := DefaultDefinitions()
	for _, g := range []granularity.Granularity{granularity.Month, granularity.Day, granularity.Hour} {
		t.Run(g.String(), func(t *testing.T) {
			c := gen.Generate(g, anchor, defs)
			if c.Len() != g.Points()+1 {
				t.Errorf("expected %d labels, got %d", g.Points()+1, c.Len())
			}
			if len(c.Timestamps) != c.Len() {
				t.Errorf("expected %d timestamps, got %d", c.Len(), len(c.Timestamps))
			}
			if len(c.Series) != len(defs) {
				t.Fatalf("expected %d series, got %d", len(defs), len(c.Series))
			}
			for i, s := range c.Series {
				if len(s.Values) != c.Len() {
					t.Errorf("series %d: expected %d values, got %d", i, c.Len(), len(s.Values))
				}
				for j, v := range s.Values {
					if v < ValueMin || v >= ValueMax {
						t.Errorf("series %d value %d out of range: %f", i, j, v)
					}
				}
			}
			if !c.Timestamps[c.Len()-1].Equal(anchor) {
				t.Errorf("expected window to end at the anchor, ended at %v", c.Timestamps[c.Len()-1])
			}
			for i := 1; i < c.Len(); i++ {
				if d := c.Timestamps[i].Sub(c.Timestamps[i-1]); d != g.Interval() {
					t.Errorf("samples %d and %d are %v apart, expected %v", i-1, i, d, g.Interval())
				}
			}
			if c.Selection.Month != time.February || c.Selection.Day != int(time.Thursday) {
				t.Errorf("expected selection {February, 4}, got %+v", c.Selection)
			}
		})
	}
}

func TestGenerateReplacesValues(t *testing.T) {
	gen := makeTestGenerator()
	anchor := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	first := gen.Generate(granularity.Day, anchor, DefaultDefinitions())
	second := gen.Generate(granularity.Day, anchor, DefaultDefinitions())
	same := true
	for i, v := range first.Series[0].Values {
		if second.Series[0].Values[i] != v {
			same = false
			break
		}
	}
	if same {
		t.Errorf("expected regeneration to draw new values")
	}
	for i, l := range first.Labels {
		if second.Labels[i] != l {
			t.Errorf("label %d changed between identical windows: %q != %q", i, l, second.Labels[i])
		}
	}
}

func TestRedraw(t *testing.T) {
	gen := makeTestGenerator()
	anchor := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	c := gen.Generate(granularity.Hour, anchor, DefaultDefinitions())
	defs := []DatasetDef{{Name: "only"}}
	r := gen.Redraw(c, defs)
	if len(r.Series) != 1 || r.Series[0].Def.Name != "only" {
		t.Fatalf("expected a single series named %q, got %+v", "only", r.Series)
	}
	if len(r.Series[0].Values) != c.Len() {
		t.Errorf("expected %d values, got %d", c.Len(), len(r.Series[0].Values))
	}
	if r.Granularity != c.Granularity || r.Selection != c.Selection || len(r.Labels) != len(c.Labels) {
		t.Errorf("expected redraw to keep the window, got %v %+v", r.Granularity, r.Selection)
	}
	if len(c.Series) != 2 {
		t.Errorf("expected the original chart to be left alone, it has %d series", len(c.Series))
	}
}

func TestSeriesStats(t *testing.T) {
	s := Series{Values: []float64{4, 1, 7}}
	minimum, mean, maximum, ok := s.Stats()
	if !ok {
		t.Fatalf("expected stats for a populated series")
	}
	if minimum != 1 || mean != 4 || maximum != 7 {
		t.Errorf("expected 1/4/7, got %f/%f/%f", minimum, mean, maximum)
	}
	if _, _, _, ok := (Series{}).Stats(); ok {
		t.Errorf("expected no stats for an empty series")
	}
}

func TestValuesAt(t *testing.T) {
	c := Chart{
		Labels: []string{"a", "b"},
		Series: []Series{
			{Values: []float64{1, 2}},
			{Values: []float64{3, 4}},
		},
	}
	got := c.ValuesAt(1)
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("expected [2 4], got %v", got)
	}
	if c.ValuesAt(2) != nil || c.ValuesAt(-1) != nil {
		t.Errorf("expected nil outside the window")
	}
}
