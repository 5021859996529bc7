package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"chosenoffset.com/marblefield/internal/config"
	"chosenoffset.com/marblefield/internal/game"
	"chosenoffset.com/marblefield/internal/input"
	"chosenoffset.com/marblefield/internal/logger"
	ebitenrender "chosenoffset.com/marblefield/internal/render/ebiten"
	"chosenoffset.com/marblefield/internal/scene"
)

type options struct {
	configPath string
	scenePath  string
	headless   bool
	hz         int
	ticks      int
	scriptPath string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "marblefield.yaml", "path to the YAML config file")
	flag.StringVar(&opts.scenePath, "scene", "", "YAML layout file; overrides the config")
	flag.BoolVar(&opts.headless, "headless", false, "run without a window")
	flag.IntVar(&opts.hz, "hz", 60, "headless tick rate")
	flag.IntVar(&opts.ticks, "ticks", 0, "headless: stop after this many ticks (0 runs until interrupted)")
	flag.StringVar(&opts.scriptPath, "script", "", "headless: YAML key event script")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.scenePath != "" {
		cfg.Scene = opts.scenePath
	}

	zl, err := logger.NewZapLogger(cfg.Logging)
	if err != nil {
		return err
	}

	layout, err := scene.Load(cfg.Scene)
	if err != nil {
		return err
	}

	if opts.headless {
		return runHeadless(cfg, layout, zl, opts)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	g, err := game.New(game.Options{
		Config:   cfg,
		Layout:   layout,
		Renderer: renderer,
		Input:    inputMgr,
		Logger:   zl,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(cfg.Window.Resizable)
	engine.SetTPS(cfg.Window.TPS)

	zl.Info("starting game", logger.F("scene", layout.Name))
	return engine.RunGame(g)
}

func runHeadless(cfg *config.Config, layout scene.Layout, zl logger.Logger, opts options) error {
	hc := game.HeadlessConfig{Hz: opts.hz, Ticks: opts.ticks}
	if opts.scriptPath != "" {
		script, err := input.LoadScript(opts.scriptPath)
		if err != nil {
			return err
		}
		hc.Script = script
	}

	g, err := game.New(game.Options{Config: cfg, Layout: layout, Logger: zl})
	if err != nil {
		return err
	}
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Interrupting a run without a tick limit is the normal way to stop it.
	if _, err := game.RunHeadless(ctx, g, hc); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
