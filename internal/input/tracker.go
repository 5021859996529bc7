// Package input turns key-down/key-up events into per-frame snapshots the
// player controller consumes.
package input

import (
	"strings"
	"sync"
)

// Bindings maps movement actions to textual key identifiers. Identifiers
// are compared lower-cased; space is " ".
type Bindings struct {
	Forward string `yaml:"forward"`
	Back    string `yaml:"back"`
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
	Jump    string `yaml:"jump"`
}

// DefaultBindings returns WASD movement with space to jump.
func DefaultBindings() Bindings {
	return Bindings{Forward: "w", Back: "s", Left: "a", Right: "d", Jump: " "}
}

func (b Bindings) normalized() Bindings {
	return Bindings{
		Forward: normalizeKey(b.Forward),
		Back:    normalizeKey(b.Back),
		Left:    normalizeKey(b.Left),
		Right:   normalizeKey(b.Right),
		Jump:    normalizeKey(b.Jump),
	}
}

func normalizeKey(key string) string {
	key = strings.ToLower(key)
	if key == "space" {
		return " "
	}
	return key
}

// Snapshot is the input state sampled once per frame.
type Snapshot struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool // jump key currently held

	// JumpPressed reports a down transition of the jump key since the
	// previous snapshot. Holding the key does not repeat it.
	JumpPressed bool
}

// Tracker records which keys are held. Key events may arrive on any
// goroutine; Snapshot is taken by the frame loop.
type Tracker struct {
	mu       sync.Mutex
	bindings Bindings
	held     map[string]bool
	jumped   bool
}

// NewTracker creates a tracker with every key released.
func NewTracker(b Bindings) *Tracker {
	return &Tracker{bindings: b.normalized(), held: make(map[string]bool)}
}

// KeyDown marks a key as held. Auto-repeated downs of an already held key
// are ignored.
func (t *Tracker) KeyDown(key string) {
	key = normalizeKey(key)
	if key == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.held[key] {
		return
	}
	t.held[key] = true
	if key == t.bindings.Jump {
		t.jumped = true
	}
}

// KeyUp releases a key. Releasing an unknown key is a no-op.
func (t *Tracker) KeyUp(key string) {
	key = normalizeKey(key)
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.held, key)
}

// Held reports whether a key is currently down.
func (t *Tracker) Held(key string) bool {
	key = normalizeKey(key)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held[key]
}

// ReleaseAll clears every held key, e.g. when the window loses focus.
func (t *Tracker) ReleaseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.held)
}

// Snapshot returns the current state and consumes the pending jump edge.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{
		Forward:     t.held[t.bindings.Forward],
		Back:        t.held[t.bindings.Back],
		Left:        t.held[t.bindings.Left],
		Right:       t.held[t.bindings.Right],
		Jump:        t.held[t.bindings.Jump],
		JumpPressed: t.jumped,
	}
	t.jumped = false
	return s
}
