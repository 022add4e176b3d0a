package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/view"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

const (
	surfaceWidth   = 3
	undersideWidth = 1
	outlineWidth   = 2
)

var hudFace ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

func drawScene(screen *ebiten.Image, sc view.Scene) {
	screen.Fill(colornames.Lightsteelblue)

	for _, l := range sc.Underside {
		strokeLine(screen, l, undersideWidth, colornames.Slategray)
	}
	for _, l := range sc.Surface {
		strokeLine(screen, l, surfaceWidth, colornames.White)
	}
	for _, q := range sc.Obstacles {
		strokeQuad(screen, q, colornames.Firebrick)
	}
	for _, c := range sc.Pills {
		vector.DrawFilledCircle(screen, float32(c.Center.X), float32(c.Center.Y), float32(c.Radius), colornames.Gold, true)
	}
	if sc.HasPlayer {
		clr := colornames.Navy
		if sc.Dead {
			clr = colornames.Crimson
		}
		strokeQuad(screen, sc.Player, clr)
	}
}

func strokeLine(screen *ebiten.Image, l view.Line, width float32, clr color.Color) {
	vector.StrokeLine(screen, float32(l.A.X), float32(l.A.Y), float32(l.B.X), float32(l.B.Y), width, clr, true)
}

func strokeQuad(screen *ebiten.Image, q view.Quad, clr color.Color) {
	for i := range q {
		strokeLine(screen, view.Line{A: q[i], B: q[(i+1)%len(q)]}, outlineWidth, clr)
	}
}

func drawHUD(screen *ebiten.Image, score component.Score, state component.GameStateKind) {
	lines := []string{
		fmt.Sprintf("Distance: %.0f", score.Distance),
		fmt.Sprintf("Pills: %d", score.Pills),
		fmt.Sprintf("Best: %.0f (%d pills)", score.BestDistance, score.BestPills),
	}
	if state == component.StateCompleted && score.NewBest {
		lines = append(lines, "New best!")
	}

	width := float64(screen.Bounds().Dx())
	y := 12.0
	for _, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(width-ebtext.Advance(line, hudFace)-12, y)
		op.ColorScale.ScaleWithColor(colornames.Black)
		ebtext.Draw(screen, line, hudFace, op)
		y += 16
	}
}
