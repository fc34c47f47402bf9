package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"strconv"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"

	"git.sr.ht/~whereswaldon/drill-chart/backend"
)

// ChartData draws the drill-down state and turns clicks on the plot into
// drill-downs.
type ChartData struct {
	drill    *backend.Drilldown
	Enabled  []*widget.Bool
	Stacked  widget.Bool
	keyTable component.GridState
	// plotWidth is the width of the plot area in the last frame, used to
	// map pointer positions back to sample indices.
	plotWidth int
	// Err is the error from the most recent drill-down, if any.
	Err error
	// hover gesture state
	pos       f32.Point
	isHovered bool
}

func NewChart(drill *backend.Drilldown) *ChartData {
	return &ChartData{
		drill:   drill,
		Stacked: widget.Bool{Value: true},
	}
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

// indexAt maps an x coordinate within a plot of the given width to the
// nearest of n evenly spaced samples. It returns -1 when there are no
// samples.
func indexAt(x, width float32, n int) int {
	if n <= 0 {
		return -1
	}
	if n == 1 || width <= 0 {
		return 0
	}
	step := width / float32(n-1)
	idx := int(math.Round(float64(x / step)))
	return max(0, min(n-1, idx))
}

func (c *ChartData) seriesColor(i int, s backend.Series) color.NRGBA {
	return s.Def.NRGBA(colors[i%len(colors)])
}

func (c *ChartData) enabled(i int) bool {
	return i < len(c.Enabled) && c.Enabled[i].Value
}

func (c *ChartData) Update(gtx C) {
	chart := c.drill.State()
	for len(c.Enabled) < len(chart.Series) {
		c.Enabled = append(c.Enabled, &widget.Bool{Value: true})
	}
	c.Stacked.Update(gtx)
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Press | pointer.Enter | pointer.Leave | pointer.Move,
		})
		if !ok {
			break
		}
		switch ev := ev.(type) {
		case pointer.Event:
			switch ev.Kind {
			case pointer.Enter:
				c.isHovered = true
				c.pos = ev.Position
			case pointer.Leave, pointer.Cancel:
				c.isHovered = false
			case pointer.Move:
				c.pos = ev.Position
			case pointer.Press:
				if !ev.Buttons.Contain(pointer.ButtonPrimary) {
					continue
				}
				c.click(ev.Position)
			}
		}
	}
}

func (c *ChartData) click(pos f32.Point) {
	chart := c.drill.State()
	idx := indexAt(pos.X, float32(c.plotWidth), chart.Len())
	if idx < 0 {
		return
	}
	changed, err := c.drill.Click(idx)
	c.Err = err
	if err != nil {
		log.Warnf("[chart] %v", err)
		return
	}
	if changed {
		next := c.drill.State()
		log.Debugf("[chart] drilled into %q, now showing %s ending %s", chart.Labels[idx], next.Granularity, next.Anchor)
	}
}

// rangeMax is the top of the value axis: one value band per enabled series
// when stacked.
func (c *ChartData) rangeMax(chart backend.Chart) float64 {
	if !c.Stacked.Value {
		return backend.ValueMax
	}
	total := 0.0
	for i := range chart.Series {
		if c.enabled(i) {
			total += backend.ValueMax
		}
	}
	return max(total, backend.ValueMax)
}

func (c *ChartData) Layout(gtx C, th *material.Theme) D {
	c.Update(gtx)
	chart := c.drill.State()
	if chart.Len() < 1 {
		return D{Size: gtx.Constraints.Max}
	}
	rangeMax := c.rangeMax(chart)
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}

	// Determine the amount of space to reserve for axis labels.
	widestValue := material.Body2(th, strconv.FormatFloat(rangeMax, 'f', 0, 64))
	valueLabelDims, _ := rec(gtx, widestValue.Layout)
	widestLabel := material.Body2(th, chart.Labels[len(chart.Labels)-1])
	xLabelDims, _ := rec(gtx, widestLabel.Layout)

	// Determine the space occupied by the key.
	macro := op.Record(gtx.Ops)
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y/3, gtx.Sp(20)*(len(chart.Series)+1))
	keyDims := c.layoutControls(gtx, th, chart)
	keyCall := macro.Stop()
	gtx.Constraints = origConstraints

	yAxisWidth := valueLabelDims.Size.X + gtx.Dp(8)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D {
			return layout.Flex{}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					gtx.Constraints.Max.Y -= xLabelDims.Size.Y
					gtx.Constraints.Max.X = yAxisWidth
					gtx.Constraints.Min = gtx.Constraints.Max
					return c.layoutYAxisLabels(gtx, th, rangeMax)
				}),
				layout.Flexed(1, func(gtx C) D {
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
						layout.Flexed(1, func(gtx C) D {
							return c.layoutPlot(gtx, th, chart, rangeMax)
						}),
						layout.Rigid(func(gtx C) D {
							return c.layoutXAxisLabels(gtx, th, chart, xLabelDims.Size.X)
						}),
					)
				}),
			)
		}),
		layout.Rigid(func(gtx C) D {
			keyCall.Add(gtx.Ops)
			return keyDims
		}),
	)
}

func (c *ChartData) layoutYAxisLabels(gtx C, th *material.Theme, rangeMax float64) D {
	maxY := gtx.Constraints.Max.Y
	step := 10.0
	if rangeMax > backend.ValueMax {
		step = backend.ValueMax / 2
	}
	label := material.Body2(th, "")
	label.Alignment = text.End
	for v := 0.0; v <= rangeMax; v += step {
		label.Text = strconv.FormatFloat(v, 'f', 0, 64)
		gtx.Constraints.Min = image.Point{}
		dims, call := rec(gtx, label.Layout)
		y := maxY - int(float64(maxY)*v/rangeMax) - dims.Size.Y/2
		y = max(0, min(maxY-dims.Size.Y, y))
		stack := op.Offset(image.Pt(gtx.Constraints.Max.X-dims.Size.X-gtx.Dp(4), y)).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}
	return D{Size: gtx.Constraints.Max}
}

// layoutXAxisLabels draws as many sample labels as fit without overlapping,
// always including the newest one.
func (c *ChartData) layoutXAxisLabels(gtx C, th *material.Theme, chart backend.Chart, labelWidth int) D {
	n := chart.Len()
	width := gtx.Constraints.Max.X
	gap := gtx.Dp(12)
	stride := 1
	if n > 1 {
		step := float32(width) / float32(n-1)
		stride = max(1, int(ceil(float32(labelWidth+gap)/step)))
	}
	label := material.Body2(th, "")
	label.MaxLines = 1
	var height int
	for i := n - 1; i >= 0; i -= stride {
		label.Text = chart.Labels[i]
		gtx.Constraints.Min = image.Point{}
		dims, call := rec(gtx, label.Layout)
		height = max(height, dims.Size.Y)
		x := 0
		if n > 1 {
			x = int(float32(width)*float32(i)/float32(n-1)) - dims.Size.X/2
		}
		x = max(0, min(width-dims.Size.X, x))
		stack := op.Offset(image.Pt(x, 0)).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}
	return D{Size: image.Pt(width, height)}
}

func (c *ChartData) layoutControls(gtx C, th *material.Theme, chart backend.Chart) D {
	table := component.Table(th, &c.keyTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	statColWidth := gtx.Dp(80)
	nameColWidth := gtx.Constraints.Max.X - colorColWidth - 3*statColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	const (
		colorCol = iota
		seriesNameCol
		minCol
		meanCol
		maxCol
		numCols
	)
	return table.Layout(gtx, len(chart.Series), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}

			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case seriesNameCol:
				size = nameColWidth
			default:
				size = statColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Color")
			case seriesNameCol:
				l = material.Body1(th, "Dataset")
				l.Alignment = text.Middle
			case minCol:
				l = material.Body1(th, "Min")
				l.Alignment = text.End
			case meanCol:
				l = material.Body1(th, "Mean")
				l.Alignment = text.End
			case maxCol:
				l = material.Body1(th, "Max")
				l.Alignment = text.End
			default:
				l = material.Body1(th, "???")
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, func(gtx C) D {
					return l.Layout(gtx)
				},
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			series := chart.Series[row]
			seriesColor := c.seriesColor(row, series)
			dims = layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				c.Enabled[row].Update(gtx)
				enabled := c.Enabled[row].Value
				disabledAlpha := uint8(100)
				minimum, mean, maximum, _ := series.Stats()
				stat := func(v float64) D {
					l := material.Body2(th, fmt.Sprintf("%.2f", v))
					if !enabled {
						l.Color.A = disabledAlpha
					}
					l.Alignment = text.End
					return l.Layout(gtx)
				}
				switch col {
				case colorCol:
					return c.Enabled[row].Layout(gtx, func(gtx C) D {
						return layout.Center.Layout(gtx, func(gtx C) D {
							sideLen := gtx.Dp(10)
							sz := image.Pt(sideLen, sideLen)
							fullColor := seriesColor
							if !enabled {
								fullColor.A = disabledAlpha
							}
							paint.FillShape(gtx.Ops, fullColor, clip.Rect{Max: sz}.Op())
							return D{Size: sz}
						})
					})
				case seriesNameCol:
					l := material.Body2(th, series.Def.Name)
					if !enabled {
						l.Color.A = disabledAlpha
					}
					return l.Layout(gtx)
				case minCol:
					return stat(minimum)
				case meanCol:
					return stat(mean)
				case maxCol:
					return stat(maximum)
				default:
					return D{Size: gtx.Constraints.Max}
				}
			})
			if row&1 != 0 {
				col := seriesColor
				col.A = 50
				paint.FillShape(gtx.Ops, col, clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}

// point returns the plot position of value v at sample index i.
func point(i, n int, v, rangeMax float64, size image.Point) f32.Point {
	x := float32(0)
	if n > 1 {
		x = float32(size.X) * float32(i) / float32(n-1)
	}
	y := float32(size.Y) - float32(v/rangeMax)*float32(size.Y)
	return f32.Pt(x, y)
}

func (c *ChartData) layoutPlot(gtx C, th *material.Theme, chart backend.Chart, rangeMax float64) D {
	size := gtx.Constraints.Max
	c.plotWidth = size.X
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, c)
	pointer.CursorPointer.Add(gtx.Ops)

	// Draw grid underneath plot.
	c.layoutYAxisGrid(gtx, rangeMax)
	if c.Stacked.Value {
		c.layoutStackPlot(gtx, chart, rangeMax)
	} else {
		c.layoutLinePlot(gtx, chart, rangeMax)
	}
	if c.isHovered {
		c.layoutHover(gtx, th, chart, rangeMax)
	}
	return D{Size: size}
}

func (c *ChartData) layoutYAxisGrid(gtx C, rangeMax float64) {
	oneDp := gtx.Dp(1)
	maxY := gtx.Constraints.Max.Y
	for v := 0.0; v <= rangeMax; v += 10 {
		yT := maxY - int(float64(maxY)*v/rangeMax)
		a := uint8(30)
		if int(v)%backend.ValueMax == 0 {
			a = 100
		}
		paint.FillShape(gtx.Ops, color.NRGBA{A: a}, clip.Rect{
			Min: image.Point{
				Y: yT - oneDp,
			},
			Max: image.Point{
				Y: yT,
				X: gtx.Constraints.Max.X,
			},
		}.Op())
	}
}

func (c *ChartData) layoutLinePlot(gtx C, chart backend.Chart, rangeMax float64) {
	size := gtx.Constraints.Max
	n := chart.Len()
	for i, series := range chart.Series {
		if !c.enabled(i) {
			continue
		}
		seriesColor := c.seriesColor(i, series)
		if series.Def.Fill {
			var p clip.Path
			p.Begin(gtx.Ops)
			p.MoveTo(f32.Pt(0, float32(size.Y)))
			for idx, v := range series.Values {
				p.LineTo(point(idx, n, v, rangeMax, size))
			}
			p.LineTo(layout.FPt(size))
			p.Close()
			fill := seriesColor
			fill.A = 50
			paint.FillShape(gtx.Ops, fill, clip.Outline{Path: p.End()}.Op())
		}
		var p clip.Path
		p.Begin(gtx.Ops)
		for idx, v := range series.Values {
			pt := point(idx, n, v, rangeMax, size)
			if idx == 0 {
				p.MoveTo(pt)
			} else {
				p.LineTo(pt)
			}
		}
		paint.FillShape(gtx.Ops, seriesColor, clip.Stroke{
			Path:  p.End(),
			Width: float32(gtx.Dp(2)),
		}.Op())
	}
}

func (c *ChartData) layoutStackPlot(gtx C, chart backend.Chart, rangeMax float64) {
	size := gtx.Constraints.Max
	n := chart.Len()
	stackSums := make([]float64, n)
	layers := make([]op.CallOp, 0, len(chart.Series))
	for i, series := range chart.Series {
		if !c.enabled(i) {
			continue
		}
		macro := op.Record(gtx.Ops)
		var p clip.Path
		p.Begin(gtx.Ops)
		// Build the path for the top of the area.
		for idx, v := range series.Values {
			stackSums[idx] += v
			pt := point(idx, n, stackSums[idx], rangeMax, size)
			if idx == 0 {
				p.MoveTo(pt)
			} else {
				p.LineTo(pt)
			}
		}
		p.LineTo(layout.FPt(size))
		p.LineTo(f32.Pt(0, float32(size.Y)))
		p.Close()
		paint.FillShape(gtx.Ops, c.seriesColor(i, series), clip.Outline{Path: p.End()}.Op())
		layers = append(layers, macro.Stop())
	}
	// Lower layers are drawn last so that every band stays visible.
	for i := len(layers) - 1; i >= 0; i-- {
		layers[i].Add(gtx.Ops)
	}
}

func (c *ChartData) layoutHover(gtx C, th *material.Theme, chart backend.Chart, rangeMax float64) {
	size := gtx.Constraints.Max
	n := chart.Len()
	idx := indexAt(c.pos.X, float32(size.X), n)
	if idx < 0 {
		return
	}
	xC := point(idx, n, 0, rangeMax, size).X
	xL := int(floor(xC)) - gtx.Dp(1)/2
	paint.FillShape(gtx.Ops, color.NRGBA{A: 255}, clip.Rect{
		Min: image.Pt(xL, 0),
		Max: image.Pt(xL+max(gtx.Dp(1), 1), size.Y),
	}.Op())

	children := []layout.FlexChild{
		layout.Rigid(material.Body2(th, chart.Labels[idx]).Layout),
	}
	values := []float64{}
	rows := []layout.FlexChild{}
	for i, series := range chart.Series {
		if !c.enabled(i) {
			continue
		}
		v := series.Values[idx]
		seriesColor := c.seriesColor(i, series)
		insertIdx, _ := slices.BinarySearch(values, v)
		values = slices.Insert(values, insertIdx, v)
		rows = slices.Insert(rows, len(rows)-insertIdx, layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(material.Body2(th, strconv.FormatFloat(v, 'f', 2, 64)).Layout),
				layout.Rigid(layout.Spacer{Width: 8}.Layout),
				layout.Rigid(func(gtx C) D {
					size := image.Pt(gtx.Dp(8), gtx.Dp(8))
					paint.FillShape(gtx.Ops, seriesColor, clip.Ellipse{Max: size}.Op(gtx.Ops))
					return D{Size: size}
				}),
			)
		}))
	}
	children = append(children, rows...)

	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	hoverInfoDims, hoverInfoCall := rec(gtx, func(gtx C) D {
		return layout.Background{}.Layout(gtx,
			func(gtx C) D {
				paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 200}, clip.Rect{Max: gtx.Constraints.Min}.Op())
				return D{Size: gtx.Constraints.Min}
			},
			func(gtx C) D {
				return layout.UniformInset(10).Layout(gtx, func(gtx C) D {
					return layout.Flex{
						Axis:      layout.Vertical,
						Alignment: layout.End,
					}.Layout(gtx, children...)
				})
			},
		)
	})
	gtx.Constraints = origConstraints

	pos := image.Point{}
	if xL > size.X-xL {
		pos.X = max(xL-hoverInfoDims.Size.X, 0)
	} else {
		pos.X = min(xL+gtx.Dp(2), size.X-hoverInfoDims.Size.X)
	}
	if offscreenY := size.Y - (int(c.pos.Y) + hoverInfoDims.Size.Y); offscreenY < 0 {
		pos.Y = int(c.pos.Y) + offscreenY
	} else {
		pos.Y = int(c.pos.Y)
	}
	transform := op.Offset(pos).Push(gtx.Ops)
	hoverInfoCall.Add(gtx.Ops)
	transform.Pop()
}
