// Package scene describes the static level and the player sphere, and
// builds them into a physics world.
package scene

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/marblefield/internal/render/scene3d"
)

// ErrBadLayout is wrapped by layout validation failures.
var ErrBadLayout = errors.New("invalid scene layout")

// Shape names accepted in layout files.
const (
	ShapeBox      = "box"
	ShapeCylinder = "cylinder"
	ShapeSphere   = "sphere"
)

// Object is a static piece of the level. Size is width, height, depth for
// boxes; cylinders use Height and Diameter, spheres Diameter.
type Object struct {
	Name        string        `yaml:"name"`
	Shape       string        `yaml:"shape"`
	Size        mgl64.Vec3    `yaml:"size"`
	Height      float64       `yaml:"height"`
	Diameter    float64       `yaml:"diameter"`
	Position    mgl64.Vec3    `yaml:"position"`
	Rotation    mgl64.Vec3    `yaml:"rotation"` // Euler angles in radians, applied X, Y, Z
	Color       scene3d.Color `yaml:"color"`
	Friction    float64       `yaml:"friction"`
	Restitution float64       `yaml:"restitution"`
}

// Player describes the controlled sphere.
type Player struct {
	Diameter    float64       `yaml:"diameter"`
	Mass        float64       `yaml:"mass"`
	Friction    float64       `yaml:"friction"`
	Restitution float64       `yaml:"restitution"`
	Color       scene3d.Color `yaml:"color"`
	Emissive    scene3d.Color `yaml:"emissive"`
}

// Layout is a complete level.
type Layout struct {
	Name    string   `yaml:"name"`
	Objects []Object `yaml:"objects"`
	Player  Player   `yaml:"player"`
}

const (
	groundSize    = 30
	wallHeight    = 2
	wallThickness = 1

	// Friction used when an object does not set one.
	defaultFriction = 0.2
)

var (
	groundColor   = scene3d.Color{0.2, 0.6, 0.2}
	wallColor     = scene3d.Color{0.5, 0.5, 0.5}
	obstacleColor = scene3d.Color{0.8, 0.3, 0.3}
)

// Default returns the walled arena with its obstacles.
func Default() Layout {
	half := float64(groundSize) / 2
	wall := func(name string, size, pos mgl64.Vec3) Object {
		return Object{Name: name, Shape: ShapeBox, Size: size, Position: pos, Color: wallColor, Restitution: 0.1}
	}
	cube := func(name string, pos mgl64.Vec3) Object {
		return Object{Name: name, Shape: ShapeBox, Size: mgl64.Vec3{2, 2, 2}, Position: pos, Color: obstacleColor, Restitution: 0.1}
	}

	return Layout{
		Name: "arena",
		Objects: []Object{
			{
				Name:        "ground",
				Shape:       ShapeBox,
				Size:        mgl64.Vec3{groundSize, 1, groundSize},
				Position:    mgl64.Vec3{0, -0.5, 0},
				Color:       groundColor,
				Friction:    0.1,
				Restitution: 0.1,
			},
			wall("north_wall", mgl64.Vec3{groundSize, wallHeight, wallThickness}, mgl64.Vec3{0, wallHeight / 2, -half}),
			wall("south_wall", mgl64.Vec3{groundSize, wallHeight, wallThickness}, mgl64.Vec3{0, wallHeight / 2, half}),
			wall("east_wall", mgl64.Vec3{wallThickness, wallHeight, groundSize}, mgl64.Vec3{half, wallHeight / 2, 0}),
			wall("west_wall", mgl64.Vec3{wallThickness, wallHeight, groundSize}, mgl64.Vec3{-half, wallHeight / 2, 0}),
			cube("cube0", mgl64.Vec3{5, 1, 5}),
			cube("cube1", mgl64.Vec3{-7, 1, 3}),
			cube("cube2", mgl64.Vec3{0, 1, -8}),
			cube("cube3", mgl64.Vec3{-5, 1, -5}),
			{
				Name:        "cylinder",
				Shape:       ShapeCylinder,
				Height:      4,
				Diameter:    3,
				Position:    mgl64.Vec3{8, 2, -3},
				Color:       obstacleColor,
				Restitution: 0.1,
			},
			{
				Name:        "ramp",
				Shape:       ShapeBox,
				Size:        mgl64.Vec3{6, 2, 4},
				Position:    mgl64.Vec3{-3, 1, 8},
				Rotation:    mgl64.Vec3{math.Pi / 12, 0, 0},
				Color:       obstacleColor,
				Friction:    0.3,
				Restitution: 0.1,
			},
		},
		Player: Player{
			Diameter:    1.5,
			Mass:        1,
			Friction:    0.5,
			Restitution: 0.2,
			Color:       scene3d.Color{0.2, 0.4, 0.8},
			Emissive:    scene3d.Color{0.1, 0.1, 0.5},
		},
	}
}

// Load reads a layout file. An empty path yields the default layout.
func Load(path string) (Layout, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read scene: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML layout. Player settings left out keep the default
// sphere.
func Parse(data []byte) (Layout, error) {
	l := Layout{Player: Default().Player}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("failed to parse scene: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks names, shapes and sizes.
func (l Layout) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(l.Objects))
	for i, o := range l.Objects {
		if o.Name == "" {
			errs = append(errs, fmt.Errorf("object %d has no name", i))
		} else if seen[o.Name] || o.Name == PlayerName {
			errs = append(errs, fmt.Errorf("duplicate object name %q", o.Name))
		}
		seen[o.Name] = true

		switch o.Shape {
		case ShapeBox:
			if o.Size.X() <= 0 || o.Size.Y() <= 0 || o.Size.Z() <= 0 {
				errs = append(errs, fmt.Errorf("box %q size %v", o.Name, o.Size))
			}
		case ShapeCylinder:
			if o.Height <= 0 || o.Diameter <= 0 {
				errs = append(errs, fmt.Errorf("cylinder %q height %v diameter %v", o.Name, o.Height, o.Diameter))
			}
		case ShapeSphere:
			if o.Diameter <= 0 {
				errs = append(errs, fmt.Errorf("sphere %q diameter %v", o.Name, o.Diameter))
			}
		default:
			errs = append(errs, fmt.Errorf("object %q has unknown shape %q", o.Name, o.Shape))
		}
	}
	if l.Player.Diameter <= 0 || l.Player.Mass <= 0 {
		errs = append(errs, fmt.Errorf("player diameter %v mass %v", l.Player.Diameter, l.Player.Mass))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrBadLayout, errors.Join(errs...))
	}
	return nil
}
