package main

import (
	"context"
	"flag"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	log "github.com/sirupsen/logrus"

	"git.sr.ht/~whereswaldon/drill-chart/backend"
)

func main() {
	cfg := backend.FromEnv()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mutator := stream.NewMutator(ctx, time.Second)
	bundle, err := backend.NewBundle(mutator, cfg)
	if err != nil {
		log.Fatalf("failed loading datasets: %v", err)
	}

	go func() {
		w := app.NewWindow(
			app.Title("Drill Chart"),
			app.Size(unit.Dp(960), unit.Dp(640)),
		)
		err := loop(ctx, w, bundle)
		cancel()
		if shutdownErr := mutator.Shutdown(); shutdownErr != nil {
			log.Warnf("failed stopping background work: %v", shutdownErr)
		}
		if err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(ctx context.Context, w *app.Window, bundle backend.Bundle) error {
	var ops op.Ops
	expl := explorer.NewExplorer(w)
	ws := backend.NewWindowState(ctx, bundle, w)
	ui := NewUI(ws, w, expl)
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
