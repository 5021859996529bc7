package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// vecNear compares by distance. mgl64's ApproxEqualThreshold falls back to
// an absolute epsilon squared whenever one component is exactly zero.
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestHorizontalBasis(t *testing.T) {
	tests := []struct {
		name        string
		look        mgl64.Vec3
		wantOK      bool
		wantForward mgl64.Vec3
		wantRight   mgl64.Vec3
	}{
		{"along +Z", mgl64.Vec3{0, 0, 1}, true, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{-1, 0, 0}},
		{"tilted down", mgl64.Vec3{0, -3, 4}, true, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{-1, 0, 0}},
		{"along -X", mgl64.Vec3{-2, 1, 0}, true, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 0, -1}},
		{"straight down", mgl64.Vec3{0, -1, 0}, false, mgl64.Vec3{}, mgl64.Vec3{}},
		{"nearly straight down", mgl64.Vec3{1e-9, -1, 0}, false, mgl64.Vec3{}, mgl64.Vec3{}},
		{"NaN", mgl64.Vec3{math.NaN(), 0, 0}, false, mgl64.Vec3{}, mgl64.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := HorizontalBasis(tt.look)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !vecNear(b.Forward, tt.wantForward, 1e-12) {
				t.Fatalf("forward = %v, want %v", b.Forward, tt.wantForward)
			}
			if !vecNear(b.Right, tt.wantRight, 1e-12) {
				t.Fatalf("right = %v, want %v", b.Right, tt.wantRight)
			}
		})
	}
}

func TestOrbit_ForwardMatchesDefaultBasis(t *testing.T) {
	o := NewOrbit(DefaultConfig())
	fwd, ok := o.Forward()
	if !ok || !vecNear(fwd, DefaultBasis().Forward, 1e-9) {
		t.Fatalf("Forward() = %v, %v", fwd, ok)
	}
	right, ok := o.Right()
	if !ok || !vecNear(right, DefaultBasis().Right, 1e-9) {
		t.Fatalf("Right() = %v, %v", right, ok)
	}
}
