package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MinHorizontal is the shortest horizontal projection of a look direction
// that still yields a usable basis.
const MinHorizontal = 1e-6

// Basis is a camera's horizontal frame. Forward is the look direction with
// its vertical component removed; Right is screen right.
type Basis struct {
	Forward mgl64.Vec3
	Right   mgl64.Vec3
}

// DefaultBasis looks along world +Z, matching the default orbit placement.
func DefaultBasis() Basis {
	return Basis{Forward: mgl64.Vec3{0, 0, 1}, Right: mgl64.Vec3{-1, 0, 0}}
}

// HorizontalBasis projects look onto the XZ plane. It returns false when
// the look direction is (nearly) vertical and no heading can be derived.
func HorizontalBasis(look mgl64.Vec3) (Basis, bool) {
	flat := mgl64.Vec3{look.X(), 0, look.Z()}
	l := flat.Len()
	if l < MinHorizontal || math.IsNaN(l) {
		return Basis{}, false
	}
	fwd := flat.Mul(1 / l)
	return Basis{Forward: fwd, Right: fwd.Cross(mgl64.Vec3{0, 1, 0})}, true
}

// Forward returns the horizontal look direction.
func (o *Orbit) Forward() (mgl64.Vec3, bool) {
	b, ok := HorizontalBasis(o.LookDirection())
	return b.Forward, ok
}

// Right returns the horizontal screen-right direction.
func (o *Orbit) Right() (mgl64.Vec3, bool) {
	b, ok := HorizontalBasis(o.LookDirection())
	return b.Right, ok
}
