package scene3d

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Color is a linear RGB triple in [0, 1]. It satisfies color.Color so the
// same value can be handed to 2D drawing calls.
type Color [3]float64

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	conv := func(v float64) uint32 {
		return uint32(clamp01(v)*0xffff + 0.5)
	}
	return conv(c[0]), conv(c[1]), conv(c[2]), 0xffff
}

var _ color.Color = Color{}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Lighting is a hemispheric sky light plus one directional light.
type Lighting struct {
	SkyDirection mgl64.Vec3
	SkyIntensity float64
	SunDirection mgl64.Vec3 // direction the light travels
	SunIntensity float64
}

// DefaultLighting matches the demo scene.
func DefaultLighting() Lighting {
	return Lighting{
		SkyDirection: mgl64.Vec3{0, 1, 0},
		SkyIntensity: 0.7,
		SunDirection: mgl64.Vec3{0, -1, 1}.Normalize(),
		SunIntensity: 0.5,
	}
}

// Shade returns the lit colour of a face with the given world normal.
// Emissive light is added unlit.
func (l Lighting) Shade(normal mgl64.Vec3, base, emissive Color) Color {
	sky := l.SkyIntensity * (0.5 + 0.5*normal.Dot(l.SkyDirection))
	sun := l.SunIntensity * math.Max(0, -normal.Dot(l.SunDirection))
	k := sky + sun

	var out Color
	for i := range out {
		out[i] = clamp01(base[i]*k + emissive[i])
	}
	return out
}
