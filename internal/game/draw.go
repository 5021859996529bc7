package game

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/marblefield/internal/physics"
	"chosenoffset.com/marblefield/internal/render"
	"chosenoffset.com/marblefield/internal/scene"
)

var (
	skyColor    = color.RGBA{51, 51, 77, 255}
	panelColor  = color.RGBA{0, 0, 0, 140}
	buttonColor = color.RGBA{70, 110, 200, 230}
	borderColor = color.RGBA{230, 230, 230, 255}
	playerDot   = color.RGBA{80, 140, 255, 255}
)

const (
	minimapSize   = 140
	minimapMargin = 12
	helpText      = "WASD move  SPACE jump  ARROWS orbit  Q/E zoom  R reset  ESC quit"
)

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	screen.Fill(skyColor)
	if g.view == nil || g.Renderer == nil {
		return
	}

	instances, err := g.Scene.Instances(g.World)
	if err != nil {
		g.log.Error("failed to collect scene", errField(err))
		return
	}
	g.view.Draw(screen, g.Camera, instances)

	g.drawHUD(screen)
	g.drawResetButton(screen)
	g.drawMinimap(screen)
	g.drawUI(screen)
}

func (g *Game) drawHUD(screen render.Image) {
	st, err := g.Status()
	if err != nil {
		return
	}
	contact := "airborne"
	if st.Grounded {
		contact = "grounded"
	}
	lines := []string{
		helpText,
		fmt.Sprintf("pos %.2f %.2f %.2f  speed %.2f", st.Position.X(), st.Position.Y(), st.Position.Z(), st.Speed),
		fmt.Sprintf("%s  jumps %d  resets %d", contact, st.Jumps, st.Resets),
	}

	w, _ := g.Renderer.MeasureText(helpText, 1)
	g.Renderer.FillRect(screen, 8, 8, float32(w+12), float32(len(lines)*16+8), panelColor)
	for i, line := range lines {
		g.Renderer.DrawText(screen, line, 14, 12+i*16, color.White, 1)
	}
}

func (g *Game) drawResetButton(screen render.Image) {
	r := g.ResetButton.Rect
	x, y := float32(r.Min.X), float32(r.Min.Y)
	w, h := float32(r.Dx()), float32(r.Dy())
	g.Renderer.FillRect(screen, x, y, w, h, buttonColor)
	g.Renderer.StrokeRect(screen, x, y, w, h, 1, borderColor)

	tw, th := g.Renderer.MeasureText(g.ResetButton.Label, 1)
	g.Renderer.DrawText(screen, g.ResetButton.Label, r.Min.X+(r.Dx()-tw)/2, r.Min.Y+(r.Dy()-th)/2, color.White, 1)
}

// drawMinimap shows the level from above in the bottom-right corner.
func (g *Game) drawMinimap(screen render.Image) {
	b := g.Scene.Bounds
	size := b.Size()
	if size.X() <= 0 || size.Y() <= 0 {
		return
	}
	scale := minimapSize / max(size.X(), size.Y())
	originX := float64(g.ScreenWidth - minimapSize - minimapMargin)
	originY := float64(g.ScreenHeight - minimapSize - minimapMargin)
	toMap := func(p mgl64.Vec3) (float32, float32) {
		return float32(originX + (p.X()-b.Min.X())*scale), float32(originY + (p.Z()-b.Min.Y())*scale)
	}

	g.Renderer.FillRect(screen, float32(originX), float32(originY), minimapSize, minimapSize, panelColor)
	for _, p := range g.Scene.Props {
		if p.Name == scene.PlayerName {
			continue
		}
		_, shape, t, err := g.World.Describe(p.Body)
		if err != nil {
			continue
		}
		x, y := toMap(t.Position)
		switch shape.Kind {
		case physics.ShapeBox:
			hw := float32(shape.HalfExtents.X() * scale)
			hd := float32(shape.HalfExtents.Z() * scale)
			g.Renderer.FillRect(screen, x-hw, y-hd, 2*hw, 2*hd, p.Color)
		default:
			g.Renderer.FillCircle(screen, x, y, float32(shape.Radius*scale), p.Color)
		}
	}

	if pos, err := g.World.Position(g.Scene.Player); err == nil {
		x, y := toMap(pos)
		g.Renderer.FillCircle(screen, x, y, 4, playerDot)
		g.Renderer.StrokeCircle(screen, x, y, 4, 1, borderColor)
	}
	g.Renderer.StrokeRect(screen, float32(originX), float32(originY), minimapSize, minimapSize, 1, borderColor)
}

func (g *Game) drawUI(screen render.Image) {
	// Draw on-screen messages
	y := float64(g.ScreenHeight) / 3
	for _, msg := range g.Messages {
		w, _ := g.Renderer.MeasureText(msg.Text, 1.5)
		g.Renderer.DrawText(screen, msg.Text, (g.ScreenWidth-w)/2, int(y), msg.Color(), 1.5)
		y += 24
	}
}
