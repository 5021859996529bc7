// Package config loads the game configuration. Values come from defaults,
// then an optional YAML file, then MARBLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/marblefield/internal/camera"
	"chosenoffset.com/marblefield/internal/input"
	"chosenoffset.com/marblefield/internal/logger"
	"chosenoffset.com/marblefield/internal/physics"
	"chosenoffset.com/marblefield/internal/player"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MARBLE_"

// Config holds everything needed to start a game.
type Config struct {
	Window  WindowConfig   `yaml:"window" envPrefix:"WINDOW_"`
	Player  player.Config  `yaml:"player" envPrefix:"PLAYER_"`
	Camera  camera.Config  `yaml:"camera" envPrefix:"CAMERA_"`
	Physics PhysicsConfig  `yaml:"physics" envPrefix:"PHYSICS_"`
	Input   input.Bindings `yaml:"input"`
	Logging logger.Config  `yaml:"logging"`

	// Scene is a YAML layout file; empty uses the built-in layout.
	Scene string `yaml:"scene" env:"SCENE"`
}

// WindowConfig describes the game window.
type WindowConfig struct {
	Width     int    `yaml:"width" env:"WIDTH"`
	Height    int    `yaml:"height" env:"HEIGHT"`
	Title     string `yaml:"title" env:"TITLE"`
	TPS       int    `yaml:"tps" env:"TPS"`
	Resizable bool   `yaml:"resizable" env:"RESIZABLE"`
}

// PhysicsConfig tunes the simulation. Gravity acts along -Y.
type PhysicsConfig struct {
	Gravity              float64 `yaml:"gravity" env:"GRAVITY"`
	ContactSlop          float64 `yaml:"contact_slop" env:"CONTACT_SLOP"`
	LinearDamping        float64 `yaml:"linear_damping" env:"LINEAR_DAMPING"`
	AngularDamping       float64 `yaml:"angular_damping" env:"ANGULAR_DAMPING"`
	RestitutionThreshold float64 `yaml:"restitution_threshold" env:"RESTITUTION_THRESHOLD"`
}

// World converts the section into simulation parameters.
func (p PhysicsConfig) World() physics.Config {
	return physics.Config{
		Gravity:              mgl64.Vec3{0, p.Gravity, 0},
		ContactSlop:          p.ContactSlop,
		LinearDamping:        p.LinearDamping,
		AngularDamping:       p.AngularDamping,
		RestitutionThreshold: p.RestitutionThreshold,
	}
}

// DefaultConfig returns the demo configuration.
func DefaultConfig() *Config {
	pc := physics.DefaultConfig()
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "Marblefield",
			TPS:       60,
			Resizable: true,
		},
		Player: player.DefaultConfig(),
		Camera: camera.DefaultConfig(),
		Physics: PhysicsConfig{
			Gravity:              pc.Gravity.Y(),
			ContactSlop:          pc.ContactSlop,
			LinearDamping:        pc.LinearDamping,
			AngularDamping:       pc.AngularDamping,
			RestitutionThreshold: pc.RestitutionThreshold,
		},
		Input:   input.DefaultBindings(),
		Logging: logger.DefaultConfig(),
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv overlays MARBLE_* environment variables onto target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window tps %d", c.Window.TPS))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if c.Camera.MinRadius > c.Camera.MaxRadius {
		errs = append(errs, fmt.Errorf("camera radius limits %v > %v", c.Camera.MinRadius, c.Camera.MaxRadius))
	}
	if c.Camera.FOV <= 0 || c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera projection fov=%v near=%v far=%v", c.Camera.FOV, c.Camera.Near, c.Camera.Far))
	}
	if c.Physics.ContactSlop < 0 {
		errs = append(errs, fmt.Errorf("physics contact slop %v", c.Physics.ContactSlop))
	}
	if c.Input.Forward == "" || c.Input.Back == "" || c.Input.Left == "" || c.Input.Right == "" || c.Input.Jump == "" {
		errs = append(errs, errors.New("input bindings must name a key for every action"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
