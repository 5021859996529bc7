package scene3d

import (
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/marblefield/internal/physics"
	"chosenoffset.com/marblefield/internal/render"
)

// maxBatchVertices keeps indices within uint16.
const maxBatchVertices = 65535 - 2

// minClipW rejects faces crossing the near plane.
const minClipW = 1e-3

// Camera supplies the matrices for a frame.
type Camera interface {
	Position() mgl64.Vec3
	View() mgl64.Mat4
	Projection(aspect float64) mgl64.Mat4
}

// Instance places a mesh in the world.
type Instance struct {
	Mesh      *Mesh
	Transform physics.Transform
	Color     Color
	Emissive  Color
}

// Face is a projected, shaded triangle ready to draw.
type Face struct {
	Points   [3]mgl64.Vec2
	Depth    float64 // view depth of the farthest vertex
	Color    Color
	Instance int // index into the instances passed to Faces
}

// Project maps a world point to screen pixels. ok is false for points
// behind the camera.
func Project(viewProj mgl64.Mat4, p mgl64.Vec3, width, height int) (mgl64.Vec2, float64, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip.W() < minClipW {
		return mgl64.Vec2{}, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x := (ndc.X() + 1) / 2 * float64(width)
	y := (1 - ndc.Y()) / 2 * float64(height)
	return mgl64.Vec2{x, y}, clip.W(), true
}

// Faces projects every visible face, sorted back to front by the depth of
// each face's farthest vertex. Ties keep instance order.
func Faces(cam Camera, light Lighting, instances []Instance, width, height int) []Face {
	if width <= 0 || height <= 0 {
		return nil
	}
	eye := cam.Position()
	viewProj := cam.Projection(float64(width) / float64(height)).Mul4(cam.View())

	var faces []Face
	for idx, inst := range instances {
		if inst.Mesh == nil {
			continue
		}
		pos, rot := inst.Transform.Position, inst.Transform.Rotation
		world := func(v mgl64.Vec3) mgl64.Vec3 { return pos.Add(rot.Rotate(v)) }

	triangles:
		for _, t := range inst.Mesh.Triangles {
			verts := [3]mgl64.Vec3{world(t.A), world(t.B), world(t.C)}
			normal := rot.Rotate(t.Normal)
			centroid := verts[0].Add(verts[1]).Add(verts[2]).Mul(1.0 / 3)
			if normal.Dot(eye.Sub(centroid)) <= 0 {
				continue
			}

			f := Face{Instance: idx}
			for i, v := range verts {
				p, w, ok := Project(viewProj, v, width, height)
				if !ok {
					continue triangles
				}
				f.Points[i] = p
				f.Depth = max(f.Depth, w)
			}

			base := inst.Color
			for i := range base {
				base[i] *= t.Tint
			}
			f.Color = light.Shade(normal, base, inst.Emissive)
			faces = append(faces, f)
		}
	}

	sort.SliceStable(faces, func(i, j int) bool {
		return faces[i].Depth > faces[j].Depth
	})
	return faces
}

// Renderer submits faces through render.Image.DrawTriangles.
type Renderer struct {
	light Lighting
	white render.Image
}

// NewRenderer creates a renderer. The backend supplies the solid source
// image the triangles are filled from.
func NewRenderer(r render.Renderer, light Lighting) *Renderer {
	white := r.NewImage(3, 3)
	white.Fill(color.White)
	return &Renderer{light: light, white: white}
}

// Draw renders instances onto dst as seen by cam.
func (r *Renderer) Draw(dst render.Image, cam Camera, instances []Instance) int {
	w, h := dst.Size()
	faces := Faces(cam, r.light, instances, w, h)

	vertices := make([]render.Vertex, 0, 3*len(faces))
	indices := make([]uint16, 0, 3*len(faces))
	flush := func() {
		if len(indices) == 0 {
			return
		}
		dst.DrawTriangles(vertices, indices, r.white, &render.DrawTrianglesOptions{AntiAlias: true})
		vertices = vertices[:0]
		indices = indices[:0]
	}

	for _, f := range faces {
		if len(vertices)+3 > maxBatchVertices {
			flush()
		}
		base := uint16(len(vertices))
		for _, p := range f.Points {
			vertices = append(vertices, render.Vertex{
				DstX:   float32(p.X()),
				DstY:   float32(p.Y()),
				SrcX:   1,
				SrcY:   1,
				ColorR: float32(f.Color[0]),
				ColorG: float32(f.Color[1]),
				ColorB: float32(f.Color[2]),
				ColorA: 1,
			})
		}
		indices = append(indices, base, base+1, base+2)
	}
	flush()
	return len(faces)
}

// Dispose releases the source image.
func (r *Renderer) Dispose() {
	r.white.Dispose()
}
