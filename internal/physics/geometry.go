package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func toLocal(t Transform, p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Inverse().Rotate(p.Sub(t.Position))
}

func dirToLocal(t Transform, d mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Inverse().Rotate(d)
}

func dirToWorld(t Transform, d mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(d)
}

// sphereContact returns the separating normal (pointing from the shape
// toward the sphere) and penetration depth of a sphere against a shape.
func sphereContact(s Shape, t Transform, center mgl64.Vec3, radius float64) (mgl64.Vec3, float64, bool) {
	local := toLocal(t, center)

	var normal mgl64.Vec3
	var depth float64

	switch s.Kind {
	case ShapeBox:
		normal, depth = boxContact(s.HalfExtents, local, radius)
	case ShapeCylinder:
		normal, depth = cylinderContact(s.Radius, s.HalfHeight, local, radius)
	case ShapeSphere:
		delta := local
		dist := delta.Len()
		depth = s.Radius + radius - dist
		if dist > MinimumDirection {
			normal = delta.Mul(1 / dist)
		} else {
			normal = mgl64.Vec3{0, 1, 0}
		}
	default:
		return mgl64.Vec3{}, 0, false
	}

	if depth <= 0 {
		return mgl64.Vec3{}, 0, false
	}
	return dirToWorld(t, normal), depth, true
}

func boxContact(half, p mgl64.Vec3, radius float64) (mgl64.Vec3, float64) {
	closest := mgl64.Vec3{
		mgl64.Clamp(p.X(), -half.X(), half.X()),
		mgl64.Clamp(p.Y(), -half.Y(), half.Y()),
		mgl64.Clamp(p.Z(), -half.Z(), half.Z()),
	}
	delta := p.Sub(closest)
	dist := delta.Len()
	if dist > MinimumDirection {
		return delta.Mul(1 / dist), radius - dist
	}

	// Center is inside the box: exit through the nearest face.
	axis, best := 0, math.Inf(1)
	for i := 0; i < 3; i++ {
		if d := half[i] - math.Abs(p[i]); d < best {
			axis, best = i, d
		}
	}
	var n mgl64.Vec3
	n[axis] = 1
	if p[axis] < 0 {
		n[axis] = -1
	}
	return n, radius + best
}

func cylinderContact(cylRadius, halfHeight float64, p mgl64.Vec3, radius float64) (mgl64.Vec3, float64) {
	radial := mgl64.Vec2{p.X(), p.Z()}
	rlen := radial.Len()

	closest := mgl64.Vec3{p.X(), mgl64.Clamp(p.Y(), -halfHeight, halfHeight), p.Z()}
	if rlen > cylRadius {
		scale := cylRadius / rlen
		closest[0] = p.X() * scale
		closest[2] = p.Z() * scale
	}
	delta := p.Sub(closest)
	dist := delta.Len()
	if dist > MinimumDirection {
		return delta.Mul(1 / dist), radius - dist
	}

	side := cylRadius - rlen
	capGap := halfHeight - math.Abs(p.Y())
	if capGap < side {
		if p.Y() < 0 {
			return mgl64.Vec3{0, -1, 0}, radius + capGap
		}
		return mgl64.Vec3{0, 1, 0}, radius + capGap
	}
	if rlen > MinimumDirection {
		return mgl64.Vec3{p.X() / rlen, 0, p.Z() / rlen}, radius + side
	}
	return mgl64.Vec3{1, 0, 0}, radius + side
}

// Raycast returns the nearest body hit by a ray of the given length,
// ignoring exclude. The direction does not need to be normalized; a
// zero-length direction never hits.
func (w *World) Raycast(origin, dir mgl64.Vec3, length float64, exclude Body) (RayHit, bool) {
	dlen := dir.Len()
	if dlen < MinimumDirection || length <= 0 {
		return RayHit{}, false
	}
	dir = dir.Mul(1 / dlen)

	best := RayHit{Distance: math.Inf(1)}
	found := false

	query := w.colliders.Query()
	for query.Next() {
		e := query.Entity()
		if exclude.ok && e == exclude.entity {
			continue
		}
		t, _, s := query.Get()
		lo := toLocal(*t, origin)
		ld := dirToLocal(*t, dir)

		var dist float64
		var localNormal mgl64.Vec3
		var hit bool
		switch s.Kind {
		case ShapeBox:
			dist, localNormal, hit = rayBox(lo, ld, s.HalfExtents)
		case ShapeSphere:
			dist, localNormal, hit = raySphere(lo, ld, s.Radius)
		case ShapeCylinder:
			dist, localNormal, hit = rayCylinder(lo, ld, s.Radius, s.HalfHeight)
		}
		if !hit || dist > length || dist >= best.Distance {
			continue
		}
		best = RayHit{
			Body:     Body{entity: e, ok: true},
			Distance: dist,
			Point:    origin.Add(dir.Mul(dist)),
			Normal:   dirToWorld(*t, localNormal),
		}
		found = true
	}
	return best, found
}

func rayBox(o, d, half mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	var nmin mgl64.Vec3
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < RayParallelEpsilon {
			if o[i] < -half[i] || o[i] > half[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		t1 := (-half[i] - o[i]) / d[i]
		t2 := (half[i] - o[i]) / d[i]
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			nmin = mgl64.Vec3{}
			nmin[i] = sign
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, mgl64.Vec3{}, false
		}
	}
	if tmax < 0 {
		return 0, mgl64.Vec3{}, false
	}
	if tmin < 0 {
		// Origin inside the box.
		return 0, d.Mul(-1), true
	}
	return tmin, nmin, true
}

func raySphere(o, d mgl64.Vec3, radius float64) (float64, mgl64.Vec3, bool) {
	b := o.Dot(d)
	c := o.Dot(o) - radius*radius
	if c <= 0 {
		return 0, d.Mul(-1), true
	}
	disc := b*b - c
	if disc < 0 || b > 0 {
		return 0, mgl64.Vec3{}, false
	}
	t := -b - math.Sqrt(disc)
	p := o.Add(d.Mul(t))
	return t, p.Mul(1 / radius), true
}

func rayCylinder(o, d mgl64.Vec3, radius, halfHeight float64) (float64, mgl64.Vec3, bool) {
	inside := o.X()*o.X()+o.Z()*o.Z() <= radius*radius && math.Abs(o.Y()) <= halfHeight
	if inside {
		return 0, d.Mul(-1), true
	}

	best := math.Inf(1)
	var normal mgl64.Vec3

	// Curved side.
	a := d.X()*d.X() + d.Z()*d.Z()
	if a > RayParallelEpsilon {
		b := o.X()*d.X() + o.Z()*d.Z()
		c := o.X()*o.X() + o.Z()*o.Z() - radius*radius
		disc := b*b - a*c
		if disc >= 0 {
			t := (-b - math.Sqrt(disc)) / a
			if t >= 0 {
				y := o.Y() + t*d.Y()
				if math.Abs(y) <= halfHeight {
					best = t
					p := o.Add(d.Mul(t))
					normal = mgl64.Vec3{p.X() / radius, 0, p.Z() / radius}
				}
			}
		}
	}

	// Caps.
	if math.Abs(d.Y()) > RayParallelEpsilon {
		for _, capY := range []float64{halfHeight, -halfHeight} {
			t := (capY - o.Y()) / d.Y()
			if t < 0 || t >= best {
				continue
			}
			x := o.X() + t*d.X()
			z := o.Z() + t*d.Z()
			if x*x+z*z <= radius*radius {
				best = t
				normal = mgl64.Vec3{0, math.Copysign(1, capY), 0}
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, mgl64.Vec3{}, false
	}
	return best, normal, true
}
