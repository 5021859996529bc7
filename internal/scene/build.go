package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/marblefield/internal/physics"
	"chosenoffset.com/marblefield/internal/render/scene3d"
)

// PlayerName is the body name of the player sphere.
const PlayerName = "player"

// Prop is a body paired with what it looks like.
type Prop struct {
	Name     string
	Body     physics.Body
	Mesh     scene3d.Mesh
	Color    scene3d.Color
	Emissive scene3d.Color
}

// Scene is a layout built into a physics world.
type Scene struct {
	Name   string
	Player physics.Body
	Props  []Prop
	Bounds Bounds
}

// Bounds is the horizontal extent of the static level.
type Bounds struct {
	Min, Max mgl64.Vec2 // X and Z
}

// Size returns the extent along X and Z.
func (b Bounds) Size() mgl64.Vec2 {
	return b.Max.Sub(b.Min)
}

func (o Object) shape() physics.Shape {
	switch o.Shape {
	case ShapeCylinder:
		return physics.Cylinder(o.Height, o.Diameter)
	case ShapeSphere:
		return physics.Sphere(o.Diameter)
	default:
		return physics.Box(o.Size.X(), o.Size.Y(), o.Size.Z())
	}
}

func (o Object) rotation() mgl64.Quat {
	if o.Rotation == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return mgl64.AnglesToQuat(o.Rotation.X(), o.Rotation.Y(), o.Rotation.Z(), mgl64.XYZ)
}

func (o Object) friction() float64 {
	if o.Friction == 0 {
		return defaultFriction
	}
	return o.Friction
}

// Build adds every object as a static body and the player as a dynamic
// sphere at spawn.
func Build(w *physics.World, l Layout, spawn mgl64.Vec3) (*Scene, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{Name: l.Name}
	first := true
	for _, o := range l.Objects {
		shape := o.shape()
		b, err := w.AddBody(physics.BodyDef{
			Name:     o.Name,
			Shape:    shape,
			Material: physics.Material{Friction: o.friction(), Restitution: o.Restitution},
			Position: o.Position,
			Rotation: o.rotation(),
		})
		if err != nil {
			return nil, fmt.Errorf("build %q: %w", o.Name, err)
		}
		s.Props = append(s.Props, Prop{Name: o.Name, Body: b, Mesh: scene3d.MeshFor(shape), Color: o.Color})

		r := footprint(shape)
		lo := mgl64.Vec2{o.Position.X(), o.Position.Z()}.Sub(r)
		hi := mgl64.Vec2{o.Position.X(), o.Position.Z()}.Add(r)
		if first {
			s.Bounds = Bounds{Min: lo, Max: hi}
			first = false
			continue
		}
		for i := 0; i < 2; i++ {
			s.Bounds.Min[i] = min(s.Bounds.Min[i], lo[i])
			s.Bounds.Max[i] = max(s.Bounds.Max[i], hi[i])
		}
	}

	p := l.Player
	shape := physics.Sphere(p.Diameter)
	b, err := w.AddBody(physics.BodyDef{
		Name:     PlayerName,
		Shape:    shape,
		Material: physics.Material{Mass: p.Mass, Friction: p.Friction, Restitution: p.Restitution},
		Position: spawn,
	})
	if err != nil {
		return nil, fmt.Errorf("build player: %w", err)
	}
	s.Player = b
	s.Props = append(s.Props, Prop{Name: PlayerName, Body: b, Mesh: scene3d.MeshFor(shape), Color: p.Color, Emissive: p.Emissive})
	return s, nil
}

// footprint is the horizontal half-size used for the bounds, ignoring
// rotation.
func footprint(s physics.Shape) mgl64.Vec2 {
	if s.Kind == physics.ShapeBox {
		return mgl64.Vec2{s.HalfExtents.X(), s.HalfExtents.Z()}
	}
	return mgl64.Vec2{s.Radius, s.Radius}
}

// Instances returns the draw list for the current body transforms.
func (s *Scene) Instances(w *physics.World) ([]scene3d.Instance, error) {
	out := make([]scene3d.Instance, 0, len(s.Props))
	for i := range s.Props {
		p := &s.Props[i]
		_, _, t, err := w.Describe(p.Body)
		if err != nil {
			return nil, fmt.Errorf("describe %q: %w", p.Name, err)
		}
		out = append(out, scene3d.Instance{Mesh: &p.Mesh, Transform: t, Color: p.Color, Emissive: p.Emissive})
	}
	return out, nil
}
