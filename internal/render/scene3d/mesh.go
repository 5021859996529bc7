// Package scene3d draws the physics scene with flat-shaded triangles on a
// render.Image.
package scene3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/marblefield/internal/physics"
)

// Tessellation of round shapes.
const (
	SphereRings      = 10
	SphereSegments   = 16
	CylinderSegments = 24
)

// TileSize bounds the edges of box sides and cylinder bands. Larger
// surfaces are split into a grid so that every face sorts near its
// neighbours.
const TileSize = 1.0

// tiles returns how many cells cover a span of 2*half.
func tiles(half float64) int {
	return max(1, int(math.Ceil(2*half/TileSize-1e-9)))
}

// Triangle is a mesh face in body-local coordinates. Tint scales the base
// colour of the face, letting stripes show a sphere rolling.
type Triangle struct {
	A, B, C mgl64.Vec3
	Normal  mgl64.Vec3
	Tint    float64
}

// Mesh is a closed triangle soup.
type Mesh struct {
	Triangles []Triangle
}

func tri(a, b, c mgl64.Vec3, tint float64) Triangle {
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	return Triangle{A: a, B: b, C: c, Normal: n, Tint: tint}
}

// quad adds the two triangles of the planar quad a, b, c, d.
func (m *Mesh) quad(a, b, c, d mgl64.Vec3, tint float64) {
	m.Triangles = append(m.Triangles, tri(a, b, c, tint).outward(), tri(a, c, d, tint).outward())
}

// BoxMesh builds a box with the given half extents. Each side is tiled.
func BoxMesh(half mgl64.Vec3) Mesh {
	var m Mesh
	for axis, plane := range [3][2]int{{1, 2}, {0, 2}, {0, 1}} {
		for _, side := range []float64{1, -1} {
			var center mgl64.Vec3
			center[axis] = side * half[axis]
			m.grid(center, plane[0], plane[1], half)
		}
	}
	return m
}

// grid covers the box side centred on c, spanning axes u and v, with
// quads no larger than TileSize.
func (m *Mesh) grid(c mgl64.Vec3, u, v int, half mgl64.Vec3) {
	nu, nv := tiles(half[u]), tiles(half[v])
	at := func(i, j int) mgl64.Vec3 {
		p := c
		p[u] += half[u] * (2*float64(i)/float64(nu) - 1)
		p[v] += half[v] * (2*float64(j)/float64(nv) - 1)
		return p
	}
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			m.quad(at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1), 1)
		}
	}
}

// SphereMesh builds a UV sphere. Alternate segments are tinted darker.
func SphereMesh(radius float64) Mesh {
	point := func(ring, seg int) mgl64.Vec3 {
		theta := math.Pi * float64(ring) / SphereRings
		phi := 2 * math.Pi * float64(seg) / SphereSegments
		return mgl64.Vec3{
			radius * math.Sin(theta) * math.Cos(phi),
			radius * math.Cos(theta),
			radius * math.Sin(theta) * math.Sin(phi),
		}
	}

	var m Mesh
	for ring := 0; ring < SphereRings; ring++ {
		for seg := 0; seg < SphereSegments; seg++ {
			tint := 1.0
			if seg%2 == 1 {
				tint = 0.8
			}
			a := point(ring, seg)
			b := point(ring, seg+1)
			c := point(ring+1, seg+1)
			d := point(ring+1, seg)
			switch ring {
			case 0:
				m.Triangles = append(m.Triangles, tri(a, c, d, tint).outward())
			case SphereRings - 1:
				m.Triangles = append(m.Triangles, tri(a, b, c, tint).outward())
			default:
				m.Triangles = append(m.Triangles, tri(a, b, c, tint).outward(), tri(a, c, d, tint).outward())
			}
		}
	}
	return m
}

// outward flips a face of a centred convex mesh so its normal points away
// from the origin.
func (t Triangle) outward() Triangle {
	centroid := t.A.Add(t.B).Add(t.C).Mul(1.0 / 3)
	if centroid.Dot(t.Normal) < 0 {
		t.B, t.C = t.C, t.B
		t.Normal = t.Normal.Mul(-1)
	}
	return t
}

// CylinderMesh builds a Y-aligned cylinder. The side is cut into bands no
// taller than TileSize.
func CylinderMesh(radius, halfHeight float64) Mesh {
	rim := func(seg int, y float64) mgl64.Vec3 {
		phi := 2 * math.Pi * float64(seg) / CylinderSegments
		return mgl64.Vec3{radius * math.Cos(phi), y, radius * math.Sin(phi)}
	}
	top := mgl64.Vec3{0, halfHeight, 0}
	bottom := mgl64.Vec3{0, -halfHeight, 0}
	bands := tiles(halfHeight)
	band := func(k int) float64 {
		return halfHeight * (2*float64(k)/float64(bands) - 1)
	}

	var m Mesh
	for seg := 0; seg < CylinderSegments; seg++ {
		for k := 0; k < bands; k++ {
			y0, y1 := band(k), band(k+1)
			m.quad(rim(seg, y0), rim(seg+1, y0), rim(seg+1, y1), rim(seg, y1), 1)
		}
		m.Triangles = append(m.Triangles,
			tri(top, rim(seg, halfHeight), rim(seg+1, halfHeight), 1).outward(),
			tri(bottom, rim(seg, -halfHeight), rim(seg+1, -halfHeight), 1).outward(),
		)
	}
	return m
}

// MeshFor builds the mesh matching a collision shape.
func MeshFor(s physics.Shape) Mesh {
	switch s.Kind {
	case physics.ShapeSphere:
		return SphereMesh(s.Radius)
	case physics.ShapeCylinder:
		return CylinderMesh(s.Radius, s.HalfHeight)
	default:
		return BoxMesh(s.HalfExtents)
	}
}
