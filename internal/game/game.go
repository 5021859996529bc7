// Package game wires the physics world, scene, camera, input and player
// controller into a render.Game.
package game

import (
	"fmt"
	"image"

	"github.com/google/uuid"

	"chosenoffset.com/marblefield/internal/camera"
	"chosenoffset.com/marblefield/internal/config"
	"chosenoffset.com/marblefield/internal/input"
	"chosenoffset.com/marblefield/internal/logger"
	"chosenoffset.com/marblefield/internal/physics"
	"chosenoffset.com/marblefield/internal/player"
	"chosenoffset.com/marblefield/internal/render"
	"chosenoffset.com/marblefield/internal/render/scene3d"
	"chosenoffset.com/marblefield/internal/scene"
)

// messageDuration is how long on-screen messages stay up, in seconds.
const messageDuration = 3.0

// Options configures a new Game. Renderer and Input may be nil for
// headless runs.
type Options struct {
	Config   *config.Config
	Layout   scene.Layout
	Renderer render.Renderer
	Input    render.InputManager
	Logger   logger.Logger
}

// Game holds all game state and logic.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Renderer     render.Renderer
	InputMgr     render.InputManager

	Config     *config.Config
	World      *physics.World
	Scene      *scene.Scene
	Camera     *camera.Orbit
	Tracker    *input.Tracker
	Controller *player.Controller

	Session string
	log     logger.Logger
	poller  *input.Poller
	view    *scene3d.Renderer
	dt      float64

	// UI state
	Messages    []Message
	ResetButton Button
	resetHeld   bool

	Tick int
}

// New builds the world from the layout and places the player at spawn.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	session := uuid.NewString()
	log = log.With(logger.F("session", session))

	world := physics.NewWorld(cfg.Physics.World())
	sc, err := scene.Build(world, opts.Layout, cfg.Player.Spawn)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}

	cam := camera.NewOrbit(cfg.Camera)
	cam.SetTarget(cfg.Player.Spawn)

	tracker := input.NewTracker(cfg.Input)
	ctrl, err := player.New(cfg.Player, world, cam, sc.Player, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create player controller: %w", err)
	}

	g := &Game{
		ScreenWidth:  cfg.Window.Width,
		ScreenHeight: cfg.Window.Height,
		Renderer:     opts.Renderer,
		InputMgr:     opts.Input,
		Config:       cfg,
		World:        world,
		Scene:        sc,
		Camera:       cam,
		Tracker:      tracker,
		Controller:   ctrl,
		Session:      session,
		log:          log,
		dt:           1.0 / float64(cfg.Window.TPS),
	}
	if opts.Input != nil {
		g.poller = input.NewPoller(opts.Input, tracker)
	}
	if opts.Renderer != nil {
		g.view = scene3d.NewRenderer(opts.Renderer, scene3d.DefaultLighting())
	}
	g.layoutUI()

	log.Info("game loaded",
		logger.F("scene", sc.Name),
		logger.F("bodies", len(sc.Props)),
		logger.F("tps", cfg.Window.TPS),
	)
	return g, nil
}

// Update handles one tick: input, physics, player control and UI timers.
func (g *Game) Update() error {
	if g.poller != nil {
		g.poller.Poll()
	}

	if g.Tracker.Held("escape") {
		g.log.Info("quit requested", logger.F("tick", g.Tick))
		return render.ErrQuit
	}

	resetHeld := g.Tracker.Held("r")
	if resetHeld && !g.resetHeld {
		if err := g.Reset(); err != nil {
			return err
		}
	}
	g.resetHeld = resetHeld

	if g.InputMgr != nil && g.InputMgr.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		if x, y := g.InputMgr.GetCursorPosition(); g.ResetButton.Contains(x, y) {
			if err := g.Reset(); err != nil {
				return err
			}
		}
	}

	g.updateCamera()

	// Forces applied by the controller are consumed by the next step, so
	// the camera and probe always see post-step positions.
	g.World.Step(g.dt)

	resets := g.Controller.Resets()
	if err := g.Controller.Update(g.Tracker.Snapshot()); err != nil {
		return fmt.Errorf("tick %d: %w", g.Tick, err)
	}
	if g.Controller.Resets() > resets {
		g.ShowMessage("Fell off the world")
	}

	g.updateMessages(g.dt)
	g.Tick++
	return nil
}

func (g *Game) updateCamera() {
	if g.Tracker.Held("arrowleft") {
		g.Camera.OrbitLeft()
	}
	if g.Tracker.Held("arrowright") {
		g.Camera.OrbitRight()
	}
	if g.Tracker.Held("arrowup") {
		g.Camera.OrbitUp()
	}
	if g.Tracker.Held("arrowdown") {
		g.Camera.OrbitDown()
	}
	if g.Tracker.Held("q") {
		g.Camera.Zoom(1)
	}
	if g.Tracker.Held("e") {
		g.Camera.Zoom(-1)
	}
}

// Reset puts the player back at spawn, as the reset button does.
func (g *Game) Reset() error {
	if err := g.Controller.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	g.ShowMessage("Reset")
	return nil
}

// Layout follows the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.ScreenWidth || outsideHeight != g.ScreenHeight {
		g.ScreenWidth = outsideWidth
		g.ScreenHeight = outsideHeight
		g.layoutUI()
	}
	return outsideWidth, outsideHeight
}

func (g *Game) layoutUI() {
	const w, h, margin = 90, 28, 12
	x := g.ScreenWidth - w - margin
	g.ResetButton = Button{Label: "Reset", Rect: image.Rect(x, margin, x+w, margin+h)}
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: messageDuration,
		MaxTime:  messageDuration,
	})
	g.log.Debug("message", logger.F("text", text))
}

// Status reports the player state.
func (g *Game) Status() (Status, error) {
	b := g.Scene.Player
	pos, err := g.World.Position(b)
	if err != nil {
		return Status{}, err
	}
	v, err := g.World.LinearVelocity(b)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Tick:     g.Tick,
		Position: pos,
		Speed:    v.Len(),
		Grounded: g.Controller.Grounded(),
		Jumps:    g.Controller.Jumps(),
		Resets:   g.Controller.Resets(),
	}, nil
}

// Close releases render resources and flushes the log.
func (g *Game) Close() error {
	if g.view != nil {
		g.view.Dispose()
	}
	g.log.Info("game closed", logger.F("ticks", g.Tick))
	// Syncing a console writer fails on some platforms; nothing is lost.
	_ = g.log.Sync()
	return nil
}

func errField(err error) logger.Field {
	return logger.F("error", err)
}
