package game

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// Color is white, fading out as the message expires.
func (m Message) Color() color.Color {
	alpha := 0.0
	if m.MaxTime > 0 {
		alpha = math.Max(0, math.Min(1, m.TimeLeft/m.MaxTime))
	}
	return color.NRGBA{255, 255, 255, uint8(255 * alpha)}
}

// Button is a clickable screen rectangle.
type Button struct {
	Label string
	Rect  image.Rectangle
}

// Contains reports whether the point lies inside the button.
func (b Button) Contains(x, y int) bool {
	return image.Pt(x, y).In(b.Rect)
}

// Status is a snapshot of the player for the HUD and run summaries.
type Status struct {
	Tick     int
	Position mgl64.Vec3
	Speed    float64
	Grounded bool
	Jumps    int
	Resets   int
}
