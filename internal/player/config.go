package player

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Config tunes the controller. Distances are world units, impulses are in
// mass times velocity.
type Config struct {
	Speed           float64    `yaml:"speed" env:"SPEED"`
	JumpImpulse     float64    `yaml:"jump_impulse" env:"JUMP_IMPULSE"`
	ProbeLength     float64    `yaml:"probe_length" env:"PROBE_LENGTH"`
	GroundThreshold float64    `yaml:"ground_threshold" env:"GROUND_THRESHOLD"`
	FallThreshold   float64    `yaml:"fall_threshold" env:"FALL_THRESHOLD"`
	Spawn           mgl64.Vec3 `yaml:"spawn"`
}

// DefaultConfig returns the tuning of the demo scene.
func DefaultConfig() Config {
	return Config{
		Speed:           2.5,
		JumpImpulse:     10,
		ProbeLength:     1.0,
		GroundThreshold: 0.75,
		FallThreshold:   -10,
		Spawn:           mgl64.Vec3{0, 3, 0},
	}
}

// Validate checks that the tuning describes a playable controller.
func (c Config) Validate() error {
	var errs []error
	if !(c.Speed > 0) {
		errs = append(errs, fmt.Errorf("speed must be positive, got %v", c.Speed))
	}
	if !(c.JumpImpulse >= 0) {
		errs = append(errs, fmt.Errorf("jump impulse must not be negative, got %v", c.JumpImpulse))
	}
	if !(c.ProbeLength > 0) {
		errs = append(errs, fmt.Errorf("probe length must be positive, got %v", c.ProbeLength))
	}
	if !(c.GroundThreshold > 0) || !(c.GroundThreshold < c.ProbeLength) {
		errs = append(errs, fmt.Errorf("ground threshold must be in (0, probe length %v), got %v", c.ProbeLength, c.GroundThreshold))
	}
	if math.IsNaN(c.FallThreshold) || c.Spawn.Y() < c.FallThreshold {
		errs = append(errs, fmt.Errorf("spawn height %v is below fall threshold %v", c.Spawn.Y(), c.FallThreshold))
	}
	return errors.Join(errs...)
}
