package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/guptarohit/asciigraph"

	"git.sr.ht/~whereswaldon/drill-chart/backend"
	"git.sr.ht/~whereswaldon/drill-chart/granularity"
)

// seriesColors is used for datasets without a usable colour of their own.
var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Yellow,
	asciigraph.Magenta,
	asciigraph.Cyan,
}

type plotOptions struct {
	Height int
	Width  int
}

// render draws every series of c as one ASCII plot, followed by an index
// ruler so that a sample can be picked for the next drill-down.
func render(c backend.Chart, opts plotOptions) string {
	if c.Len() == 0 || len(c.Series) == 0 {
		return "no data\n"
	}
	data := make([][]float64, len(c.Series))
	colors := make([]asciigraph.AnsiColor, len(c.Series))
	legends := make([]string, len(c.Series))
	for i, s := range c.Series {
		data[i] = s.Values
		colors[i] = seriesColor(s.Def, i)
		legends[i] = s.Def.Name
	}
	plotOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.LowerBound(backend.ValueMin),
		asciigraph.UpperBound(backend.ValueMax),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption(caption(c)),
	}
	if opts.Width > 0 {
		plotOpts = append(plotOpts, asciigraph.Width(opts.Width))
	}
	var b strings.Builder
	b.WriteString(asciigraph.PlotMany(data, plotOpts...))
	b.WriteString("\n\n")
	b.WriteString(labelTable(c))
	return b.String()
}

func caption(c backend.Chart) string {
	s := fmt.Sprintf("%s view, %s .. %s", c.Granularity, c.Labels[0], c.Labels[c.Len()-1])
	if c.Granularity != granularity.Finest {
		s += " (pick an index to drill down)"
	}
	return s
}

// labelTable lists sample indices and labels, four to a line.
func labelTable(c backend.Chart) string {
	const perLine = 4
	var b strings.Builder
	for i, label := range c.Labels {
		fmt.Fprintf(&b, "%3d %-12s", i, label)
		if i%perLine == perLine-1 || i == c.Len()-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func seriesColor(def backend.DatasetDef, i int) asciigraph.AnsiColor {
	c, err := backend.ParseColor(def.Color)
	if err != nil {
		return seriesColors[i%len(seriesColors)]
	}
	return ansiColor(c)
}

// ansiColor maps c to the nearest entry of the xterm 6x6x6 colour cube.
func ansiColor(c color.NRGBA) asciigraph.AnsiColor {
	// Cube steps are 0, 95, 135, 175, 215 and 255.
	level := func(v uint8) int {
		switch {
		case v < 48:
			return 0
		case v < 115:
			return 1
		default:
			return (int(v) - 35) / 40
		}
	}
	return asciigraph.AnsiColor(16 + 36*level(c.R) + 6*level(c.G) + level(c.B))
}
