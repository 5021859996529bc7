// Package player drives the player sphere: camera-relative movement forces,
// ground detection, jumping and falling out of the world.
package player

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/marblefield/internal/camera"
	"chosenoffset.com/marblefield/internal/input"
	"chosenoffset.com/marblefield/internal/logger"
	"chosenoffset.com/marblefield/internal/physics"
)

var (
	ErrNoBody    = errors.New("player body is missing")
	ErrNoPhysics = errors.New("physics world is missing")
	ErrNoCamera  = errors.New("camera is missing")
)

// Physics is the part of the physics world the controller drives.
type Physics interface {
	Position(b physics.Body) (mgl64.Vec3, error)
	SetPosition(b physics.Body, pos mgl64.Vec3) error
	SetLinearVelocity(b physics.Body, v mgl64.Vec3) error
	SetAngularVelocity(b physics.Body, v mgl64.Vec3) error
	ApplyForce(b physics.Body, force, point mgl64.Vec3) error
	ApplyImpulse(b physics.Body, impulse, point mgl64.Vec3) error
	Raycast(origin, dir mgl64.Vec3, length float64, exclude physics.Body) (physics.RayHit, bool)
}

// Camera is the view the player moves relative to.
type Camera interface {
	LookDirection() mgl64.Vec3
	SetTarget(target mgl64.Vec3)
}

// Contact is the ground contact state.
type Contact int

const (
	Airborne Contact = iota
	Grounded
)

func (c Contact) String() string {
	if c == Grounded {
		return "grounded"
	}
	return "airborne"
}

var down = mgl64.Vec3{0, -1, 0}

// Controller applies one frame of player input to the physics body.
type Controller struct {
	cfg     Config
	physics Physics
	camera  Camera
	body    physics.Body
	log     logger.Logger

	basis   camera.Basis
	contact Contact
	fallen  bool

	jumps  int
	resets int
}

// New creates a controller for body. A nil log discards output.
func New(cfg Config, phys Physics, cam Camera, body physics.Body, log logger.Logger) (*Controller, error) {
	switch {
	case phys == nil:
		return nil, ErrNoPhysics
	case cam == nil:
		return nil, ErrNoCamera
	case body.IsZero():
		return nil, ErrNoBody
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("player config: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Controller{
		cfg:     cfg,
		physics: phys,
		camera:  cam,
		body:    body,
		log:     log,
		basis:   camera.DefaultBasis(),
	}, nil
}

// Body returns the controlled body.
func (c *Controller) Body() physics.Body { return c.body }

// Contact returns the contact state computed by the last Update.
func (c *Controller) Contact() Contact { return c.contact }

// Grounded reports whether the last probe found ground within reach.
func (c *Controller) Grounded() bool { return c.contact == Grounded }

// Jumps returns how many jump impulses have been applied.
func (c *Controller) Jumps() int { return c.jumps }

// Resets returns how many times the player was sent back to spawn.
func (c *Controller) Resets() int { return c.resets }

// Basis returns the horizontal camera frame used for the last movement.
func (c *Controller) Basis() camera.Basis { return c.basis }

// LocalMovement maps held direction keys to a camera-local vector: X is
// screen right, Y is the view-space Z axis, which points back toward the
// viewer. Opposite keys cancel.
func LocalMovement(s input.Snapshot, speed float64) mgl64.Vec2 {
	var m mgl64.Vec2
	if s.Forward {
		m[1] -= speed
	}
	if s.Back {
		m[1] += speed
	}
	if s.Left {
		m[0] -= speed
	}
	if s.Right {
		m[0] += speed
	}
	return m
}

// WorldMovement converts a local movement vector into a world force.
func WorldMovement(b camera.Basis, local mgl64.Vec2) mgl64.Vec3 {
	return b.Right.Mul(local.X()).Sub(b.Forward.Mul(local.Y()))
}

// Update runs one frame: movement force, ground probe, jump, fall check
// and camera follow.
func (c *Controller) Update(s input.Snapshot) error {
	pos, err := c.physics.Position(c.body)
	if err != nil {
		return fmt.Errorf("read player position: %w", err)
	}

	if b, ok := camera.HorizontalBasis(c.camera.LookDirection()); ok {
		c.basis = b
	}

	if local := LocalMovement(s, c.cfg.Speed); local != (mgl64.Vec2{}) {
		if err := c.physics.ApplyForce(c.body, WorldMovement(c.basis, local), pos); err != nil {
			return fmt.Errorf("apply movement force: %w", err)
		}
	}

	c.contact = c.probe(pos)

	if s.JumpPressed && c.contact == Grounded {
		impulse := mgl64.Vec3{0, c.cfg.JumpImpulse, 0}
		if err := c.physics.ApplyImpulse(c.body, impulse, pos); err != nil {
			return fmt.Errorf("apply jump impulse: %w", err)
		}
		c.contact = Airborne
		c.jumps++
		c.log.Debug("player jumped", logger.F("position", pos), logger.F("jumps", c.jumps))
	}

	below := pos.Y() < c.cfg.FallThreshold
	switch {
	case below && !c.fallen:
		c.fallen = true
		c.log.Info("player fell out of the world", logger.F("y", pos.Y()))
		if err := c.reset("fell"); err != nil {
			return err
		}
		pos = c.cfg.Spawn
	case !below:
		c.fallen = false
	}

	c.camera.SetTarget(pos)
	return nil
}

// probe casts the ground ray. Anything other than a well-formed hit within
// the threshold counts as airborne.
func (c *Controller) probe(pos mgl64.Vec3) Contact {
	hit, ok := c.physics.Raycast(pos, down, c.cfg.ProbeLength, c.body)
	if !ok {
		return Airborne
	}
	d := hit.Distance
	if math.IsNaN(d) || d < 0 || d > c.cfg.ProbeLength {
		return Airborne
	}
	if d <= c.cfg.GroundThreshold {
		return Grounded
	}
	return Airborne
}

// Reset sends the player back to spawn at rest.
func (c *Controller) Reset() error {
	return c.reset("manual")
}

func (c *Controller) reset(reason string) error {
	if err := c.physics.SetPosition(c.body, c.cfg.Spawn); err != nil {
		return fmt.Errorf("reset player position: %w", err)
	}
	if err := c.physics.SetLinearVelocity(c.body, mgl64.Vec3{}); err != nil {
		return fmt.Errorf("reset player velocity: %w", err)
	}
	if err := c.physics.SetAngularVelocity(c.body, mgl64.Vec3{}); err != nil {
		return fmt.Errorf("reset player spin: %w", err)
	}
	c.camera.SetTarget(c.cfg.Spawn)
	c.contact = Airborne
	c.resets++
	c.log.Info("player reset", logger.F("reason", reason), logger.F("resets", c.resets))
	return nil
}
