package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
)

// World owns every rigid body and advances the simulation. It is not safe
// for concurrent use; the game loop is its only caller.
type World struct {
	cfg Config

	ecs       ecs.World
	bodies    *ecs.Map4[Transform, Material, Shape, Name]
	motions   *ecs.Map[Motion]
	colliders *ecs.Filter3[Transform, Material, Shape]
	movers    *ecs.Filter4[Transform, Motion, Material, Shape]
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) *World {
	w := &World{cfg: cfg, ecs: ecs.NewWorld()}
	w.bodies = ecs.NewMap4[Transform, Material, Shape, Name](&w.ecs)
	w.motions = ecs.NewMap[Motion](&w.ecs)
	w.colliders = ecs.NewFilter3[Transform, Material, Shape](&w.ecs)
	w.movers = ecs.NewFilter4[Transform, Motion, Material, Shape](&w.ecs)
	return w
}

// Config returns the simulation parameters.
func (w *World) Config() Config {
	return w.cfg
}

// AddBody creates a body. Bodies with positive mass are dynamic.
func (w *World) AddBody(def BodyDef) (Body, error) {
	if err := def.Shape.validate(); err != nil {
		return Body{}, fmt.Errorf("add body %q: %w", def.Name, err)
	}
	if def.Material.Mass < 0 {
		return Body{}, fmt.Errorf("add body %q: negative mass %v", def.Name, def.Material.Mass)
	}
	rot := def.Rotation
	if rot == (mgl64.Quat{}) {
		rot = mgl64.QuatIdent()
	}

	e := w.bodies.NewEntity(
		&Transform{Position: def.Position, Rotation: rot.Normalize()},
		&def.Material,
		&def.Shape,
		&Name{Value: def.Name},
	)
	if def.Material.Mass > 0 {
		w.motions.Add(e, &Motion{})
	}
	return Body{entity: e, ok: true}, nil
}

// RemoveBody deletes a body from the world.
func (w *World) RemoveBody(b Body) error {
	if !w.alive(b) {
		return ErrUnknownBody
	}
	w.ecs.RemoveEntity(b.entity)
	return nil
}

// Bodies returns handles to every body, in creation order of the
// underlying storage.
func (w *World) Bodies() []Body {
	var out []Body
	query := w.colliders.Query()
	for query.Next() {
		out = append(out, Body{entity: query.Entity(), ok: true})
	}
	return out
}

// Find returns the first body with the given name.
func (w *World) Find(name string) (Body, bool) {
	for _, b := range w.Bodies() {
		_, _, _, n := w.bodies.Get(b.entity)
		if n.Value == name {
			return b, true
		}
	}
	return Body{}, false
}

// Describe returns the name, shape and transform of a body.
func (w *World) Describe(b Body) (string, Shape, Transform, error) {
	if !w.alive(b) {
		return "", Shape{}, Transform{}, ErrUnknownBody
	}
	t, _, s, n := w.bodies.Get(b.entity)
	return n.Value, *s, *t, nil
}

func (w *World) alive(b Body) bool {
	return b.ok && w.ecs.Alive(b.entity)
}

func (w *World) motion(b Body) (*Transform, *Motion, *Material, error) {
	if !w.alive(b) {
		return nil, nil, nil, ErrUnknownBody
	}
	if !w.motions.Has(b.entity) {
		return nil, nil, nil, ErrStaticBody
	}
	t, m, _, _ := w.bodies.Get(b.entity)
	return t, w.motions.Get(b.entity), m, nil
}

// Position returns the world position of a body.
func (w *World) Position(b Body) (mgl64.Vec3, error) {
	if !w.alive(b) {
		return mgl64.Vec3{}, ErrUnknownBody
	}
	t, _, _, _ := w.bodies.Get(b.entity)
	return t.Position, nil
}

// SetPosition teleports a body.
func (w *World) SetPosition(b Body, pos mgl64.Vec3) error {
	if !w.alive(b) {
		return ErrUnknownBody
	}
	t, _, _, _ := w.bodies.Get(b.entity)
	t.Position = pos
	return nil
}

// Rotation returns the orientation of a body.
func (w *World) Rotation(b Body) (mgl64.Quat, error) {
	if !w.alive(b) {
		return mgl64.Quat{}, ErrUnknownBody
	}
	t, _, _, _ := w.bodies.Get(b.entity)
	return t.Rotation, nil
}

// LinearVelocity returns the linear velocity of a dynamic body.
func (w *World) LinearVelocity(b Body) (mgl64.Vec3, error) {
	_, m, _, err := w.motion(b)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return m.Linear, nil
}

// AngularVelocity returns the angular velocity of a dynamic body.
func (w *World) AngularVelocity(b Body) (mgl64.Vec3, error) {
	_, m, _, err := w.motion(b)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return m.Angular, nil
}

// SetLinearVelocity overwrites the linear velocity of a dynamic body.
func (w *World) SetLinearVelocity(b Body, v mgl64.Vec3) error {
	_, m, _, err := w.motion(b)
	if err != nil {
		return err
	}
	m.Linear = v
	return nil
}

// SetAngularVelocity overwrites the angular velocity of a dynamic body.
func (w *World) SetAngularVelocity(b Body, v mgl64.Vec3) error {
	_, m, _, err := w.motion(b)
	if err != nil {
		return err
	}
	m.Angular = v
	return nil
}

// ApplyForce accumulates a force applied at a world point. Forces are
// consumed and cleared by the next Step.
func (w *World) ApplyForce(b Body, force, point mgl64.Vec3) error {
	t, m, _, err := w.motion(b)
	if err != nil {
		return err
	}
	m.Force = m.Force.Add(force)
	m.Torque = m.Torque.Add(point.Sub(t.Position).Cross(force))
	return nil
}

// ApplyImpulse changes velocity immediately by impulse/mass.
func (w *World) ApplyImpulse(b Body, impulse, point mgl64.Vec3) error {
	t, m, mat, err := w.motion(b)
	if err != nil {
		return err
	}
	_, _, shape, _ := w.bodies.Get(b.entity)
	m.Linear = m.Linear.Add(impulse.Mul(1 / mat.Mass))
	arm := point.Sub(t.Position)
	if arm.Len() > MinimumDirection {
		m.Angular = m.Angular.Add(arm.Cross(impulse).Mul(1 / inertia(mat.Mass, *shape)))
	}
	return nil
}

// Step advances every dynamic body by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	type mover struct {
		entity ecs.Entity
		t      *Transform
		m      *Motion
		mat    *Material
		shape  *Shape
	}
	var movers []mover

	query := w.movers.Query()
	for query.Next() {
		t, m, mat, shape := query.Get()
		movers = append(movers, mover{entity: query.Entity(), t: t, m: m, mat: mat, shape: shape})
	}

	for _, mv := range movers {
		w.integrate(mv.t, mv.m, mv.mat, mv.shape, dt)
		w.resolveContacts(mv.entity, mv.t, mv.m, mv.mat, mv.shape)
	}
}

func (w *World) integrate(t *Transform, m *Motion, mat *Material, shape *Shape, dt float64) {
	accel := w.cfg.Gravity.Add(m.Force.Mul(1 / mat.Mass))
	m.Linear = m.Linear.Add(accel.Mul(dt)).Mul(1 - w.cfg.LinearDamping*dt)
	m.Angular = m.Angular.Add(m.Torque.Mul(dt / inertia(mat.Mass, *shape))).Mul(1 - w.cfg.AngularDamping*dt)
	m.Force = mgl64.Vec3{}
	m.Torque = mgl64.Vec3{}

	t.Position = t.Position.Add(m.Linear.Mul(dt))
	if m.Angular.Len() > MinimumDirection {
		spin := mgl64.Quat{W: 0, V: m.Angular}.Mul(t.Rotation).Scale(0.5 * dt)
		t.Rotation = t.Rotation.Add(spin).Normalize()
	}
}

// resolveContacts pushes a dynamic sphere out of static geometry. Only
// spheres are simulated as dynamic shapes.
func (w *World) resolveContacts(self ecs.Entity, t *Transform, m *Motion, mat *Material, shape *Shape) {
	if shape.Kind != ShapeSphere {
		return
	}

	type contactInfo struct {
		normal mgl64.Vec3
		depth  float64
		other  Material
	}
	var contacts []contactInfo

	query := w.colliders.Query()
	for query.Next() {
		if query.Entity() == self {
			continue
		}
		ot, omat, oshape := query.Get()
		if omat.Mass > 0 {
			continue
		}
		normal, depth, ok := sphereContact(*oshape, *ot, t.Position, shape.Radius)
		if ok {
			contacts = append(contacts, contactInfo{normal: normal, depth: depth, other: *omat})
		}
	}

	for _, c := range contacts {
		if push := c.depth - w.cfg.ContactSlop; push > 0 {
			t.Position = t.Position.Add(c.normal.Mul(push))
		}

		vn := m.Linear.Dot(c.normal)
		if vn >= 0 {
			continue
		}
		restitution := math.Max(mat.Restitution, c.other.Restitution)
		if -vn < w.cfg.RestitutionThreshold {
			restitution = 0
		}
		m.Linear = m.Linear.Sub(c.normal.Mul((1 + restitution) * vn))

		// Friction acts at the contact point, bounded by the normal impulse,
		// so a pushed sphere picks up spin and rolls.
		jn := mat.Mass * (1 + restitution) * -vn
		arm := c.normal.Mul(-shape.Radius)
		moment := inertia(mat.Mass, *shape)
		vc := m.Linear.Add(m.Angular.Cross(arm))
		slip := vc.Sub(c.normal.Mul(vc.Dot(c.normal)))
		if speed := slip.Len(); speed > MinimumDirection {
			mu := math.Sqrt(mat.Friction * c.other.Friction)
			k := 1/mat.Mass + shape.Radius*shape.Radius/moment
			jt := math.Min(speed/k, mu*jn)
			p := slip.Mul(-jt / speed)
			m.Linear = m.Linear.Add(p.Mul(1 / mat.Mass))
			m.Angular = m.Angular.Add(arm.Cross(p).Mul(1 / moment))
		}
	}
}

func inertia(mass float64, s Shape) float64 {
	switch s.Kind {
	case ShapeSphere:
		return SphereInertiaFactor * mass * s.Radius * s.Radius
	case ShapeCylinder:
		return 0.5 * mass * s.Radius * s.Radius
	default:
		h := s.HalfExtents.Mul(2)
		return mass * (h.X()*h.X() + h.Y()*h.Y() + h.Z()*h.Z()) / 12
	}
}
