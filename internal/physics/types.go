package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
)

var (
	// ErrUnknownBody is returned for handles that do not refer to a live body.
	ErrUnknownBody = errors.New("unknown body")
	// ErrStaticBody is returned when motion is requested on a massless body.
	ErrStaticBody = errors.New("body is static")
	// ErrInvalidShape is returned for shapes with non-positive dimensions.
	ErrInvalidShape = errors.New("invalid shape")
)

// Body is an opaque handle to a rigid body owned by a World.
type Body struct {
	entity ecs.Entity
	ok     bool
}

// IsZero reports whether the handle was never issued by a World.
func (b Body) IsZero() bool {
	return !b.ok
}

// ShapeKind identifies the collision geometry of a body.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapeCylinder
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// Shape is the collision geometry in body-local space. Cylinders are
// aligned with the local Y axis.
type Shape struct {
	Kind        ShapeKind
	Radius      float64    // sphere, cylinder
	HalfExtents mgl64.Vec3 // box
	HalfHeight  float64    // cylinder
}

// Sphere returns a sphere shape of the given diameter.
func Sphere(diameter float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: diameter / 2}
}

// Box returns a box shape with the given full size.
func Box(width, height, depth float64) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{width / 2, height / 2, depth / 2}}
}

// Cylinder returns a Y-aligned cylinder shape.
func Cylinder(height, diameter float64) Shape {
	return Shape{Kind: ShapeCylinder, Radius: diameter / 2, HalfHeight: height / 2}
}

func (s Shape) validate() error {
	switch s.Kind {
	case ShapeSphere:
		if s.Radius <= 0 {
			return ErrInvalidShape
		}
	case ShapeBox:
		if s.HalfExtents.X() <= 0 || s.HalfExtents.Y() <= 0 || s.HalfExtents.Z() <= 0 {
			return ErrInvalidShape
		}
	case ShapeCylinder:
		if s.Radius <= 0 || s.HalfHeight <= 0 {
			return ErrInvalidShape
		}
	default:
		return ErrInvalidShape
	}
	return nil
}

// Material holds the physical parameters of a body. A zero mass makes the
// body static.
type Material struct {
	Mass        float64
	Friction    float64
	Restitution float64
}

// Transform places a body in the world.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Motion is only attached to dynamic bodies.
type Motion struct {
	Linear  mgl64.Vec3
	Angular mgl64.Vec3
	Force   mgl64.Vec3
	Torque  mgl64.Vec3
}

// BodyDef describes a body to be created.
type BodyDef struct {
	Name     string
	Shape    Shape
	Material Material
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Name labels a body for logs and scene lookups.
type Name struct {
	Value string
}

// RayHit describes the nearest intersection found by Raycast.
type RayHit struct {
	Body     Body
	Distance float64
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
}

// Config holds world-wide simulation parameters.
type Config struct {
	Gravity              mgl64.Vec3
	ContactSlop          float64
	LinearDamping        float64
	AngularDamping       float64
	RestitutionThreshold float64
}

// DefaultConfig returns earth gravity and the default contact tuning.
func DefaultConfig() Config {
	return Config{
		Gravity:              mgl64.Vec3{0, DefaultGravity, 0},
		ContactSlop:          DefaultContactSlop,
		LinearDamping:        DefaultLinearDamping,
		AngularDamping:       DefaultAngularDamping,
		RestitutionThreshold: DefaultRestitutionThreshold,
	}
}
