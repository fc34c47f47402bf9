package backend

import (
	"context"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"
)

type WindowState struct {
	Bundle
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, bundle Bundle, win *app.Window) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// Bundle groups the non-UI resources shared by every window.
type Bundle struct {
	Config     Config
	Datasource *Datasource
}

// NewBundle starts the bundle's long-running work as mutations of mutator.
func NewBundle(mutator *stream.Mutator, cfg Config) (Bundle, error) {
	ds, err := NewDatasource(mutator, cfg.DatasetsPath)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{
		Config:     cfg,
		Datasource: ds,
	}, nil
}

// NewDrilldown builds a controller for the bundle's configuration, plotting
// the currently loaded definitions.
func (b Bundle) NewDrilldown() *Drilldown {
	return NewDrilldown(b.Config.Generator(), b.Datasource.Current().Defs, nil)
}
