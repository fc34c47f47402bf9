package main

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/drill-chart/backend"
	"git.sr.ht/~whereswaldon/drill-chart/granularity"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var resetIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.NavigationRefresh)
	return icon
}()

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws    backend.WindowState
	win   *app.Window
	expl  *explorer.Explorer
	drill *backend.Drilldown

	chart    *ChartData
	resetBtn widget.Clickable
	openBtn  widget.Clickable
	loading  bool
	loadErrs chan error
	errText  string

	th         *material.Theme
	defsStream *stream.Stream[backend.DefinitionSet]
}

func NewUI(ws backend.WindowState, win *app.Window, expl *explorer.Explorer) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	drill := ws.Bundle.NewDrilldown()
	drill.Reset()
	ui := &UI{
		ws:         ws,
		win:        win,
		th:         th,
		expl:       expl,
		drill:      drill,
		loadErrs:   make(chan error, 1),
		defsStream: stream.New(ws.Controller, ws.Bundle.Datasource.Definitions),
	}
	ui.chart = NewChart(drill)
	return ui
}

// Update the state of the UI in response to events.
func (ui *UI) Update(gtx C) {
	if set, isNew := ui.defsStream.ReadNew(gtx); isNew {
		if set.Err != nil {
			ui.errText = set.Err.Error()
		} else {
			ui.errText = ""
			ui.drill.SetDatasets(set.Defs)
		}
	}
	select {
	case err := <-ui.loadErrs:
		ui.loading = false
		if err != nil {
			ui.errText = err.Error()
		}
	default:
	}
	if ui.resetBtn.Clicked(gtx) {
		ui.drill.Reset()
		ui.chart.Err = nil
	}
	if !ui.loading && ui.openBtn.Clicked(gtx) {
		ui.loading = true
		go func() {
			err := ui.ws.Bundle.Datasource.LoadFromFile(ui.expl)
			if err != nil {
				log.Warnf("[ui] failed loading dataset definitions: %v", err)
			}
			ui.loadErrs <- err
			ui.win.Invalidate()
		}()
	}
}

func (ui *UI) caption() string {
	chart := ui.drill.State()
	if chart.Len() == 0 {
		return "No data yet."
	}
	s := fmt.Sprintf("%s view ending %s", chart.Granularity, ui.ws.Config.Locale().Label(granularity.Month, chart.Anchor))
	if chart.Granularity != granularity.Month {
		s += " " + chart.Labels[chart.Len()-1]
	}
	if chart.Granularity != granularity.Finest {
		s += " (click a point to drill down)"
	}
	return s
}

func (ui *UI) layoutToolbar(gtx C) D {
	inset := layout.UniformInset(4)
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return inset.Layout(gtx, material.IconButton(ui.th, &ui.resetBtn, resetIcon, "Reset").Layout)
		}),
		layout.Rigid(func(gtx C) D {
			if ui.loading {
				gtx = gtx.Disabled()
			}
			return inset.Layout(gtx, material.Button(ui.th, &ui.openBtn, "Open Datasets").Layout)
		}),
		layout.Rigid(func(gtx C) D {
			return inset.Layout(gtx, material.CheckBox(ui.th, &ui.chart.Stacked, "Stacked").Layout)
		}),
		layout.Flexed(1, func(gtx C) D {
			l := material.Body1(ui.th, ui.caption())
			l.MaxLines = 1
			l.Alignment = text.End
			return inset.Layout(gtx, l.Layout)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(ui.layoutToolbar),
		layout.Rigid(func(gtx C) D {
			msg := ui.errText
			if ui.chart.Err != nil {
				msg = ui.chart.Err.Error()
			}
			if len(msg) == 0 {
				return D{}
			}
			l := material.Body1(ui.th, msg)
			l.Color = color.NRGBA{R: 150, A: 255}
			return l.Layout(gtx)
		}),
		layout.Flexed(1, func(gtx C) D {
			return layout.UniformInset(8).Layout(gtx, func(gtx C) D {
				gtx.Constraints.Min = image.Point{}
				return ui.chart.Layout(gtx, ui.th)
			})
		}),
	)
}
