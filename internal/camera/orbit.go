// Package camera implements the third-person orbit camera that follows the
// player sphere.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Config describes the initial placement and limits of an orbit camera.
// Angles are in radians: Alpha is the azimuth around the Y axis, Beta the
// polar angle measured from +Y.
type Config struct {
	Alpha      float64 `yaml:"alpha" env:"ALPHA"`
	Beta       float64 `yaml:"beta" env:"BETA"`
	Radius     float64 `yaml:"radius" env:"RADIUS"`
	MinRadius  float64 `yaml:"min_radius" env:"MIN_RADIUS"`
	MaxRadius  float64 `yaml:"max_radius" env:"MAX_RADIUS"`
	MinBeta    float64 `yaml:"min_beta" env:"MIN_BETA"`
	MaxBeta    float64 `yaml:"max_beta" env:"MAX_BETA"`
	FOV        float64 `yaml:"fov" env:"FOV"`
	Near       float64 `yaml:"near" env:"NEAR"`
	Far        float64 `yaml:"far" env:"FAR"`
	OrbitSpeed float64 `yaml:"orbit_speed" env:"ORBIT_SPEED"` // radians per tick
	ZoomSpeed  float64 `yaml:"zoom_speed" env:"ZOOM_SPEED"`   // world units per tick
}

// DefaultConfig returns the framing used by the demo scene.
func DefaultConfig() Config {
	return Config{
		Alpha:      -math.Pi / 2,
		Beta:       math.Pi / 3,
		Radius:     15,
		MinRadius:  5,
		MaxRadius:  20,
		MinBeta:    0.01,
		MaxBeta:    math.Pi / 2,
		FOV:        0.8,
		Near:       0.1,
		Far:        200,
		OrbitSpeed: 0.03,
		ZoomSpeed:  0.25,
	}
}

// Orbit is an arc-rotate camera: it sits on a sphere of Radius around its
// target and always looks at the target.
type Orbit struct {
	cfg    Config
	alpha  float64
	beta   float64
	radius float64
	target mgl64.Vec3
}

// NewOrbit creates a camera looking at the origin.
func NewOrbit(cfg Config) *Orbit {
	o := &Orbit{cfg: cfg, alpha: cfg.Alpha}
	o.beta = o.clampBeta(cfg.Beta)
	o.radius = o.clampRadius(cfg.Radius)
	return o
}

func (o *Orbit) clampRadius(r float64) float64 {
	if o.cfg.MinRadius > 0 && r < o.cfg.MinRadius {
		return o.cfg.MinRadius
	}
	if o.cfg.MaxRadius > 0 && r > o.cfg.MaxRadius {
		return o.cfg.MaxRadius
	}
	return r
}

func (o *Orbit) clampBeta(b float64) float64 {
	if b < o.cfg.MinBeta {
		return o.cfg.MinBeta
	}
	if o.cfg.MaxBeta > 0 && b > o.cfg.MaxBeta {
		return o.cfg.MaxBeta
	}
	return b
}

// SetTarget moves the point the camera orbits and looks at.
func (o *Orbit) SetTarget(target mgl64.Vec3) {
	o.target = target
}

// Target returns the look-at point.
func (o *Orbit) Target() mgl64.Vec3 {
	return o.target
}

// Alpha returns the current azimuth.
func (o *Orbit) Alpha() float64 { return o.alpha }

// Beta returns the current polar angle.
func (o *Orbit) Beta() float64 { return o.beta }

// Radius returns the current distance from the target.
func (o *Orbit) Radius() float64 { return o.radius }

// Position returns the world-space camera position.
func (o *Orbit) Position() mgl64.Vec3 {
	sinB := math.Sin(o.beta)
	offset := mgl64.Vec3{
		o.radius * math.Cos(o.alpha) * sinB,
		o.radius * math.Cos(o.beta),
		o.radius * math.Sin(o.alpha) * sinB,
	}
	return o.target.Add(offset)
}

// LookDirection returns the unit vector from the camera toward its target.
func (o *Orbit) LookDirection() mgl64.Vec3 {
	return o.target.Sub(o.Position()).Normalize()
}

// Rotate orbits the camera by the given angle deltas.
func (o *Orbit) Rotate(dAlpha, dBeta float64) {
	o.alpha = math.Mod(o.alpha+dAlpha, 2*math.Pi)
	o.beta = o.clampBeta(o.beta + dBeta)
}

// OrbitLeft rotates the camera one orbit step around the target.
func (o *Orbit) OrbitLeft() { o.Rotate(-o.cfg.OrbitSpeed, 0) }

// OrbitRight rotates the camera one orbit step the other way.
func (o *Orbit) OrbitRight() { o.Rotate(o.cfg.OrbitSpeed, 0) }

// OrbitUp raises the camera toward the top-down view.
func (o *Orbit) OrbitUp() { o.Rotate(0, -o.cfg.OrbitSpeed) }

// OrbitDown lowers the camera toward the horizon.
func (o *Orbit) OrbitDown() { o.Rotate(0, o.cfg.OrbitSpeed) }

// Zoom changes the radius; positive values move closer.
func (o *Orbit) Zoom(steps float64) {
	o.radius = o.clampRadius(o.radius - steps*o.cfg.ZoomSpeed)
}

// View returns the world-to-camera matrix.
func (o *Orbit) View() mgl64.Mat4 {
	eye := o.Position()
	look := o.target.Sub(eye)
	up := mgl64.Vec3{0, 1, 0}
	if look.Normalize().Cross(up).Len() < 1e-6 {
		// Looking straight down: use the azimuth as screen-up.
		up = mgl64.Vec3{-math.Cos(o.alpha), 0, -math.Sin(o.alpha)}
	}
	return mgl64.LookAtV(eye, o.target, up)
}

// Projection returns the perspective matrix for the given aspect ratio.
func (o *Orbit) Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(o.cfg.FOV, aspect, o.cfg.Near, o.cfg.Far)
}
