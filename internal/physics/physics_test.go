package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func newTestWorld(t *testing.T) (*World, Body) {
	t.Helper()
	w := NewWorld(DefaultConfig())
	ground, err := w.AddBody(BodyDef{
		Name:     "ground",
		Shape:    Box(30, 1, 30),
		Material: Material{Friction: 0.1, Restitution: 0.1},
		Position: mgl64.Vec3{0, -0.5, 0},
	})
	if err != nil {
		t.Fatalf("add ground: %v", err)
	}
	return w, ground
}

func addPlayer(t *testing.T, w *World, pos mgl64.Vec3) Body {
	t.Helper()
	b, err := w.AddBody(BodyDef{
		Name:     "player",
		Shape:    Sphere(1.5),
		Material: Material{Mass: 1, Friction: 0.5, Restitution: 0.2},
		Position: pos,
	})
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	return b
}

func TestAddBody_RejectsInvalidShapes(t *testing.T) {
	w := NewWorld(DefaultConfig())
	tests := []struct {
		name  string
		shape Shape
	}{
		{"zero sphere", Sphere(0)},
		{"flat box", Box(1, 0, 1)},
		{"negative cylinder", Cylinder(2, -1)},
		{"unknown kind", Shape{Kind: ShapeKind(42)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.AddBody(BodyDef{Name: tt.name, Shape: tt.shape})
			if !errors.Is(err, ErrInvalidShape) {
				t.Fatalf("err = %v, want ErrInvalidShape", err)
			}
		})
	}
}

func TestStaticBody_HasNoMotion(t *testing.T) {
	w, ground := newTestWorld(t)
	if err := w.SetLinearVelocity(ground, mgl64.Vec3{1, 0, 0}); !errors.Is(err, ErrStaticBody) {
		t.Fatalf("SetLinearVelocity err = %v, want ErrStaticBody", err)
	}
	if err := w.ApplyForce(ground, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}); !errors.Is(err, ErrStaticBody) {
		t.Fatalf("ApplyForce err = %v, want ErrStaticBody", err)
	}
}

func TestUnknownBody(t *testing.T) {
	w, _ := newTestWorld(t)
	if _, err := w.Position(Body{}); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("zero handle err = %v, want ErrUnknownBody", err)
	}

	p := addPlayer(t, w, mgl64.Vec3{0, 3, 0})
	if err := w.RemoveBody(p); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	if _, err := w.LinearVelocity(p); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("removed handle err = %v, want ErrUnknownBody", err)
	}
	if err := w.RemoveBody(p); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("double remove err = %v, want ErrUnknownBody", err)
	}
}

func TestStep_FreeFallOneStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinearDamping = 0
	w := NewWorld(cfg)
	p := addPlayer(t, w, mgl64.Vec3{0, 10, 0})

	dt := 1.0 / 60.0
	w.Step(dt)

	v, _ := w.LinearVelocity(p)
	pos, _ := w.Position(p)
	approxEqual(t, v.Y(), DefaultGravity*dt, 1e-12, "velocity.y")
	approxEqual(t, pos.Y(), 10+DefaultGravity*dt*dt, 1e-12, "position.y")
}

func TestApplyForce_IsConsumedByStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = mgl64.Vec3{}
	cfg.LinearDamping = 0
	w := NewWorld(cfg)
	p := addPlayer(t, w, mgl64.Vec3{0, 10, 0})

	if err := w.ApplyForce(p, mgl64.Vec3{2.5, 0, 0}, mgl64.Vec3{0, 10, 0}); err != nil {
		t.Fatalf("ApplyForce: %v", err)
	}
	w.Step(0.5)
	v, _ := w.LinearVelocity(p)
	approxEqual(t, v.X(), 1.25, 1e-12, "velocity.x after force")

	w.Step(0.5)
	v, _ = w.LinearVelocity(p)
	approxEqual(t, v.X(), 1.25, 1e-12, "velocity.x without force")
}

func TestApplyImpulse_ChangesVelocityImmediately(t *testing.T) {
	w := NewWorld(DefaultConfig())
	p := addPlayer(t, w, mgl64.Vec3{0, 3, 0})

	if err := w.ApplyImpulse(p, mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, 3, 0}); err != nil {
		t.Fatalf("ApplyImpulse: %v", err)
	}
	v, _ := w.LinearVelocity(p)
	approxEqual(t, v.Y(), 10, 1e-12, "velocity.y")
	ang, _ := w.AngularVelocity(p)
	if ang.Len() != 0 {
		t.Fatalf("angular = %v, want zero for impulse through the center", ang)
	}
}

func TestStep_SphereSettlesOnGround(t *testing.T) {
	w, ground := newTestWorld(t)
	p := addPlayer(t, w, mgl64.Vec3{0, 3, 0})

	for i := 0; i < 600; i++ {
		w.Step(1.0 / 60.0)
	}

	pos, _ := w.Position(p)
	v, _ := w.LinearVelocity(p)
	if pos.Y() > 0.75 || pos.Y() < 0.75-DefaultContactSlop-0.01 {
		t.Fatalf("resting y = %.5f, want just under 0.75", pos.Y())
	}
	approxEqual(t, v.Y(), 0, 1e-6, "resting velocity.y")

	hit, ok := w.Raycast(pos, mgl64.Vec3{0, -1, 0}, 1.0, p)
	if !ok {
		t.Fatal("probe missed the ground")
	}
	if hit.Body != ground {
		t.Fatalf("probe hit %v, want ground", hit.Body)
	}
	if hit.Distance > 0.75 {
		t.Fatalf("probe distance = %.5f, want <= 0.75", hit.Distance)
	}
}

func TestStep_PushedSphereRolls(t *testing.T) {
	w, _ := newTestWorld(t)
	p := addPlayer(t, w, mgl64.Vec3{0, 0.74, 0})

	for i := 0; i < 120; i++ {
		at, _ := w.Position(p)
		if err := w.ApplyForce(p, mgl64.Vec3{2.5, 0, 0}, at); err != nil {
			t.Fatalf("ApplyForce: %v", err)
		}
		w.Step(1.0 / 60.0)
	}

	v, _ := w.LinearVelocity(p)
	ang, _ := w.AngularVelocity(p)
	// A solid sphere rolling under a central force accelerates at 5/7 F/m.
	if v.X() < 3.0 || v.X() > 3.8 {
		t.Fatalf("velocity.x = %.4f, want about %.4f", v.X(), 2.5*5/7*2)
	}
	approxEqual(t, ang.Z()*0.75, -v.X(), 0.1, "rolling spin")
	pos, _ := w.Position(p)
	if pos.Y() > 0.75 || pos.Y() < 0.73 {
		t.Fatalf("y = %.4f, sphere left the ground", pos.Y())
	}
}

func TestStep_WallStopsSphere(t *testing.T) {
	w, _ := newTestWorld(t)
	if _, err := w.AddBody(BodyDef{
		Name:     "wall",
		Shape:    Box(1, 2, 30),
		Position: mgl64.Vec3{3, 1, 0},
	}); err != nil {
		t.Fatalf("add wall: %v", err)
	}
	p := addPlayer(t, w, mgl64.Vec3{0, 0.74, 0})
	if err := w.SetLinearVelocity(p, mgl64.Vec3{5, 0, 0}); err != nil {
		t.Fatalf("SetLinearVelocity: %v", err)
	}

	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60.0)
	}
	pos, _ := w.Position(p)
	if pos.X() > 2.5-0.75+DefaultContactSlop {
		t.Fatalf("x = %.4f, sphere passed through the wall face at 2.5", pos.X())
	}
}

func TestRaycast(t *testing.T) {
	w, ground := newTestWorld(t)
	cyl, err := w.AddBody(BodyDef{Name: "cylinder", Shape: Cylinder(4, 3), Position: mgl64.Vec3{8, 2, -3}})
	if err != nil {
		t.Fatalf("add cylinder: %v", err)
	}
	ramp, err := w.AddBody(BodyDef{
		Name:     "ramp",
		Shape:    Box(6, 2, 4),
		Position: mgl64.Vec3{-3, 1, 8},
		Rotation: mgl64.QuatRotate(math.Pi/12, mgl64.Vec3{1, 0, 0}),
	})
	if err != nil {
		t.Fatalf("add ramp: %v", err)
	}
	player := addPlayer(t, w, mgl64.Vec3{0, 0.5, 0})

	tests := []struct {
		name     string
		origin   mgl64.Vec3
		dir      mgl64.Vec3
		length   float64
		exclude  Body
		wantBody Body
		wantDist float64
		wantHit  bool
	}{
		{"down onto ground", mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, -1, 0}, 1, player, ground, 0.5, true},
		{"unnormalized direction", mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, -4, 0}, 1, player, ground, 0.5, true},
		{"too short", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, -1, 0}, 1, player, Body{}, 0, false},
		{"self not excluded", mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, -1, 0}, 1, Body{}, player, 0, true},
		{"cylinder side", mgl64.Vec3{3, 2, -3}, mgl64.Vec3{1, 0, 0}, 10, Body{}, cyl, 3.5, true},
		{"cylinder cap", mgl64.Vec3{8, 6, -3}, mgl64.Vec3{0, -1, 0}, 10, Body{}, cyl, 2, true},
		{"off the world", mgl64.Vec3{40, 1, 40}, mgl64.Vec3{0, -1, 0}, 100, Body{}, Body{}, 0, false},
		{"zero direction", mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{}, 1, player, Body{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := w.Raycast(tt.origin, tt.dir, tt.length, tt.exclude)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if hit.Body != tt.wantBody {
				t.Fatalf("hit body %v, want %v", hit.Body, tt.wantBody)
			}
			approxEqual(t, hit.Distance, tt.wantDist, 1e-9, "distance")
		})
	}

	// The ramp top is tilted, so a vertical ray meets it above the
	// untilted top face at y=2 on the -Z side of its center.
	hit, ok := w.Raycast(mgl64.Vec3{-3, 10, 7}, mgl64.Vec3{0, -1, 0}, 20, Body{})
	if !ok || hit.Body != ramp {
		t.Fatalf("ramp probe = %+v, %v", hit, ok)
	}
	if hit.Point.Y() <= 2 {
		t.Fatalf("ramp hit y = %.4f, want above 2", hit.Point.Y())
	}
}

func TestFindAndDescribe(t *testing.T) {
	w, ground := newTestWorld(t)
	got, ok := w.Find("ground")
	if !ok || got != ground {
		t.Fatalf("Find(ground) = %v, %v", got, ok)
	}
	if _, ok := w.Find("missing"); ok {
		t.Fatal("Find(missing) returned a body")
	}
	name, shape, tr, err := w.Describe(ground)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if name != "ground" || shape.Kind != ShapeBox {
		t.Fatalf("Describe = %q %v", name, shape.Kind)
	}
	approxEqual(t, tr.Position.Y(), -0.5, 0, "ground y")
}
