package input

import "chosenoffset.com/marblefield/internal/render"

// Poller converts the polled key state of a render.InputManager into
// KeyDown/KeyUp events on a Tracker.
type Poller struct {
	input   render.InputManager
	tracker *Tracker
	prev    map[render.Key]bool
}

// NewPoller creates a poller feeding tracker.
func NewPoller(im render.InputManager, tracker *Tracker) *Poller {
	return &Poller{input: im, tracker: tracker, prev: make(map[render.Key]bool)}
}

// Poll emits an event for every key whose state changed since the last
// call.
func (p *Poller) Poll() {
	for _, k := range render.Keys {
		pressed := p.input.IsKeyPressed(k)
		if pressed == p.prev[k] {
			continue
		}
		p.prev[k] = pressed
		if pressed {
			p.tracker.KeyDown(k.Name())
		} else {
			p.tracker.KeyUp(k.Name())
		}
	}
}
