package input

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrBadScript is returned for scripts with malformed events.
var ErrBadScript = errors.New("invalid input script")

// Event is a scripted key transition applied at a given tick.
type Event struct {
	Tick int    `yaml:"tick"`
	Key  string `yaml:"key"`
	Down bool   `yaml:"down"`
}

// Script replays key events for headless runs.
type Script struct {
	Events []Event `yaml:"events"`

	next int
}

// LoadScript reads a YAML script from disk.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML script and orders its events by tick.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, ev := range s.Events {
		if ev.Tick < 0 {
			return nil, fmt.Errorf("%w: event %d has negative tick %d", ErrBadScript, i, ev.Tick)
		}
		if ev.Key == "" {
			return nil, fmt.Errorf("%w: event %d has no key", ErrBadScript, i)
		}
	}
	sort.SliceStable(s.Events, func(i, j int) bool {
		return s.Events[i].Tick < s.Events[j].Tick
	})
	return &s, nil
}

// Apply feeds every event scheduled at or before tick into the tracker.
// Events are applied at most once.
func (s *Script) Apply(tick int, t *Tracker) {
	for s.next < len(s.Events) && s.Events[s.next].Tick <= tick {
		ev := s.Events[s.next]
		if ev.Down {
			t.KeyDown(ev.Key)
		} else {
			t.KeyUp(ev.Key)
		}
		s.next++
	}
}

// Done reports whether every event has been applied.
func (s *Script) Done() bool {
	return s.next >= len(s.Events)
}
