package scene3d

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/marblefield/internal/camera"
	"chosenoffset.com/marblefield/internal/physics"
	"chosenoffset.com/marblefield/internal/render"
)

func TestMeshes_NormalsPointOutward(t *testing.T) {
	tests := []struct {
		name      string
		mesh      Mesh
		triangles int
	}{
		{"unit box", BoxMesh(mgl64.Vec3{0.5, 0.5, 0.5}), 12},
		// Sides of 4x6, 2x6 and 2x4 tiles, two triangles each, on both ends.
		{"tiled box", BoxMesh(mgl64.Vec3{1, 2, 3}), 2 * 2 * (4*6 + 2*6 + 2*4)},
		{"sphere", SphereMesh(0.75), 2 * SphereSegments * (SphereRings - 1)},
		// Four side bands plus both caps.
		{"cylinder", CylinderMesh(1.5, 2), (2*4 + 2) * CylinderSegments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.mesh.Triangles) != tt.triangles {
				t.Fatalf("triangles = %d, want %d", len(tt.mesh.Triangles), tt.triangles)
			}
			for i, tri := range tt.mesh.Triangles {
				if math.Abs(tri.Normal.Len()-1) > 1e-9 {
					t.Fatalf("triangle %d normal %v not unit length", i, tri.Normal)
				}
				centroid := tri.A.Add(tri.B).Add(tri.C).Mul(1.0 / 3)
				if centroid.Dot(tri.Normal) <= 0 {
					t.Fatalf("triangle %d normal %v points inward", i, tri.Normal)
				}
			}
		})
	}
}

func TestMeshFor(t *testing.T) {
	if got := len(MeshFor(physics.Box(2, 2, 2)).Triangles); got != 6*4*2 {
		t.Fatalf("box triangles = %d", got)
	}
	if got := len(MeshFor(physics.Cylinder(4, 3)).Triangles); got != 10*CylinderSegments {
		t.Fatalf("cylinder triangles = %d", got)
	}
	if got := len(MeshFor(physics.Sphere(1.5)).Triangles); got != 2*SphereSegments*(SphereRings-1) {
		t.Fatalf("sphere triangles = %d", got)
	}
}

func TestBoxMesh_TilesStayWithinTileSize(t *testing.T) {
	m := BoxMesh(mgl64.Vec3{15, 0.5, 15})
	for i, tri := range m.Triangles {
		for _, e := range []mgl64.Vec3{tri.B.Sub(tri.A), tri.C.Sub(tri.B), tri.A.Sub(tri.C)} {
			// The diagonal of a TileSize square is the longest allowed edge.
			if e.Len() > TileSize*math.Sqrt2+1e-9 {
				t.Fatalf("triangle %d has edge %v longer than a tile", i, e.Len())
			}
		}
	}
}

func TestShade(t *testing.T) {
	l := DefaultLighting()
	base := Color{0.2, 0.6, 0.2}

	up := l.Shade(mgl64.Vec3{0, 1, 0}, base, Color{})
	down := l.Shade(mgl64.Vec3{0, -1, 0}, base, Color{})
	if up[1] <= down[1] {
		t.Fatalf("upward face %v not brighter than downward %v", up, down)
	}
	// Sky 0.7 plus the sun at 45 degrees.
	want := 0.6 * (0.7 + 0.5*math.Sqrt2/2)
	if math.Abs(up[1]-want) > 1e-9 {
		t.Fatalf("green = %v, want %v", up[1], want)
	}

	glow := l.Shade(mgl64.Vec3{0, -1, 0}, Color{0.2, 0.4, 0.8}, Color{0.1, 0.1, 0.5})
	for i, v := range glow {
		if v < 0 || v > 1 {
			t.Fatalf("channel %d = %v out of range", i, v)
		}
	}
	if glow[2] < 0.5 {
		t.Fatalf("emissive not applied: %v", glow)
	}
}

func TestColor_RGBA(t *testing.T) {
	r, g, b, a := Color{1, 0, 2}.RGBA()
	if r != 0xffff || g != 0 || b != 0xffff || a != 0xffff {
		t.Fatalf("RGBA = %x %x %x %x", r, g, b, a)
	}
}

func newCamera() *camera.Orbit {
	o := camera.NewOrbit(camera.DefaultConfig())
	o.SetTarget(mgl64.Vec3{0, 1, 0})
	return o
}

func TestProject_TargetAtScreenCenter(t *testing.T) {
	cam := newCamera()
	vp := cam.Projection(800.0 / 600.0).Mul4(cam.View())

	p, depth, ok := Project(vp, cam.Target(), 800, 600)
	if !ok {
		t.Fatal("target not visible")
	}
	if math.Abs(p.X()-400) > 1e-6 || math.Abs(p.Y()-300) > 1e-6 {
		t.Fatalf("target at %v, want screen center", p)
	}
	if math.Abs(depth-cam.Radius()) > 1e-6 {
		t.Fatalf("depth = %v, want %v", depth, cam.Radius())
	}

	behind := cam.Position().Sub(cam.LookDirection().Mul(5))
	if _, _, ok := Project(vp, behind, 800, 600); ok {
		t.Fatal("point behind the camera was projected")
	}
}

func TestFaces_CulledAndSortedBackToFront(t *testing.T) {
	cam := newCamera()
	box := BoxMesh(mgl64.Vec3{1, 1, 1})
	ident := mgl64.QuatIdent()
	instances := []Instance{
		{Mesh: &box, Transform: physics.Transform{Position: mgl64.Vec3{0, 1, 0}, Rotation: ident}, Color: Color{1, 0, 0}},
		{Mesh: &box, Transform: physics.Transform{Position: mgl64.Vec3{0, 1, 6}, Rotation: ident}, Color: Color{0, 1, 0}},
		{Mesh: nil},
	}

	faces := Faces(cam, DefaultLighting(), instances, 800, 600)
	// The camera looks down and along +Z: each box shows its top and -Z
	// side, each tiled 2x2.
	if len(faces) != 2*2*8 {
		t.Fatalf("visible faces = %d, want 32", len(faces))
	}
	for i := 1; i < len(faces); i++ {
		if faces[i].Depth > faces[i-1].Depth {
			t.Fatalf("face %d deeper than face %d", i, i-1)
		}
	}
	if faces[0].Color[1] == 0 || faces[0].Instance != 1 {
		t.Fatal("farthest face should belong to the far green box")
	}
	if last := faces[len(faces)-1]; last.Instance != 0 {
		t.Fatalf("nearest face from instance %d, want the red box", last.Instance)
	}
	if Faces(cam, DefaultLighting(), instances, 0, 600) != nil {
		t.Fatal("zero-size target produced faces")
	}
}

type fakeImage struct {
	w, h      int
	triangles int
	calls     int
	fills     int
}

func (f *fakeImage) Size() (int, int) { return f.w, f.h }
func (f *fakeImage) Fill(color.Color) { f.fills++ }
func (f *fakeImage) Dispose() {}
func (f *fakeImage) DrawTriangles(v []render.Vertex, idx []uint16, _ render.Image, _ *render.DrawTrianglesOptions) {
	f.calls++
	f.triangles += len(idx) / 3
}

type fakeRenderer struct {
	render.Renderer
	images []*fakeImage
}

func (r *fakeRenderer) NewImage(w, h int) render.Image {
	img := &fakeImage{w: w, h: h}
	r.images = append(r.images, img)
	return img
}

func TestRenderer_DrawSubmitsVisibleFaces(t *testing.T) {
	backend := &fakeRenderer{}
	r := NewRenderer(backend, DefaultLighting())
	if len(backend.images) != 1 || backend.images[0].fills != 1 {
		t.Fatal("renderer did not prepare a filled source image")
	}

	sphere := SphereMesh(0.75)
	screen := &fakeImage{w: 640, h: 480}
	n := r.Draw(screen, newCamera(), []Instance{{
		Mesh:      &sphere,
		Transform: physics.Transform{Position: mgl64.Vec3{0, 1, 0}, Rotation: mgl64.QuatIdent()},
		Color:     Color{0.2, 0.4, 0.8},
	}})
	if n == 0 || n >= len(sphere.Triangles) {
		t.Fatalf("drew %d of %d faces, want a culled subset", n, len(sphere.Triangles))
	}
	if screen.triangles != n || screen.calls != 1 {
		t.Fatalf("submitted %d triangles in %d calls", screen.triangles, screen.calls)
	}
}
