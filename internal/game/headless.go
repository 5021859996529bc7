package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chosenoffset.com/marblefield/internal/input"
	"chosenoffset.com/marblefield/internal/logger"
	"chosenoffset.com/marblefield/internal/render"
)

// HeadlessConfig controls a run without a window.
type HeadlessConfig struct {
	Hz     int // ticks per second; defaults to 60
	Ticks  int // stop after this many ticks; 0 runs until ctx is done
	Script *input.Script
}

// RunHeadless drives the game from a ticker instead of the window loop.
// Scripted key events are applied before each tick.
func RunHeadless(ctx context.Context, g *Game, cfg HeadlessConfig) (Status, error) {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return Status{}, fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	g.log.Info("headless run started", logger.F("hz", cfg.Hz), logger.F("ticks", cfg.Ticks))
	for {
		select {
		case <-ctx.Done():
			st, err := g.Status()
			return st, errors.Join(ctx.Err(), err)
		case <-t.C:
			if cfg.Script != nil {
				cfg.Script.Apply(g.Tick, g.Tracker)
			}
			if err := g.Update(); err != nil {
				if errors.Is(err, render.ErrQuit) {
					return g.finish()
				}
				return Status{}, err
			}
			if cfg.Ticks > 0 && g.Tick >= cfg.Ticks {
				return g.finish()
			}
		}
	}
}

func (g *Game) finish() (Status, error) {
	st, err := g.Status()
	if err != nil {
		return Status{}, err
	}
	g.log.Info("headless run finished",
		logger.F("ticks", st.Tick),
		logger.F("position", st.Position),
		logger.F("grounded", st.Grounded),
		logger.F("jumps", st.Jumps),
		logger.F("resets", st.Resets),
	)
	return st, nil
}
