package main

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/guptarohit/asciigraph"
	"golang.org/x/exp/rand"

	"git.sr.ht/~whereswaldon/drill-chart/backend"
	"git.sr.ht/~whereswaldon/drill-chart/granularity"
)

func makeTestDrilldown() *backend.Drilldown {
	l := backend.DefaultLocale()
	l.Location = time.UTC
	now := func() time.Time {
		return time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	}
	d := backend.NewDrilldown(backend.NewGenerator(l, rand.NewSource(3)), backend.DefaultDefinitions(), now)
	d.Reset()
	return d
}

func TestDrillAll(t *testing.T) {
	d := makeTestDrilldown()
	if err := drillAll(d, []int{12, 3, 7}); err != nil {
		t.Fatalf("expected drill-downs to succeed, got %v", err)
	}
	if g := d.Granularity(); g != granularity.Hour {
		t.Errorf("expected hour granularity, got %v", g)
	}
}

func TestInteractive(t *testing.T) {
	d := makeTestDrilldown()
	in := strings.NewReader("12\nbanana\n\n3\n5\nreset\nquit\n")
	var out bytes.Buffer
	if err := interactive(d, in, &out); err != nil {
		t.Fatalf("expected session to end cleanly, got %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"month view, 2/6/2023 .. 2/1/2024",
		"day view, 00:00:00 .. 00:00:00",
		`not an index: "banana"`,
		"hour view, 17:00:00 .. 03:00:00",
		"nothing to drill into",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if g := d.Granularity(); g != granularity.Month {
		t.Errorf("expected reset to return to month granularity, got %v", g)
	}
}

func TestLabelTable(t *testing.T) {
	c := backend.Chart{Labels: []string{"a", "b", "c", "d", "e"}}
	got := labelTable(c)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if !strings.HasPrefix(lines[1], "  4 e") {
		t.Errorf("expected second line to start with index 4, got %q", lines[1])
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := render(backend.Chart{}, plotOptions{Height: 5}); got != "no data\n" {
		t.Errorf("expected placeholder for an empty chart, got %q", got)
	}
}

func TestAnsiColor(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   color.NRGBA
		want asciigraph.AnsiColor
	}{
		{name: "black", in: color.NRGBA{A: 0xff}, want: 16},
		{name: "white", in: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, want: 231},
		{name: "red", in: color.NRGBA{R: 0xff, A: 0xff}, want: 196},
		{name: "first default", in: color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xff}, want: 31},
		{name: "second default", in: color.NRGBA{R: 0xa4, G: 0x63, B: 0x3a, A: 0xff}, want: 131},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := ansiColor(tc.in); got != tc.want {
				t.Errorf("expected colour %d, got %d", tc.want, got)
			}
		})
	}
}

func TestSeriesColor(t *testing.T) {
	defs := backend.DefaultDefinitions()
	if got := seriesColor(defs[0], 0); got != 31 {
		t.Errorf("expected the dataset colour to be used, got %d", got)
	}
	if got := seriesColor(backend.DatasetDef{Name: "plain"}, 1); got != seriesColors[1] {
		t.Errorf("expected fallback colour %d, got %d", seriesColors[1], got)
	}
	if got := seriesColor(backend.DatasetDef{Name: "bad", Color: "teal"}, 7); got != seriesColors[1] {
		t.Errorf("expected fallback colour %d, got %d", seriesColors[1], got)
	}
}
