package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 0.2
)

// DrawPhysicsDebug outlines every shape in the space, projected through the
// world's camera onto screen.
func DrawPhysicsDebug(space *cp.Space, w *ecs.World, screen *ebiten.Image) {
	if space == nil || w == nil || screen == nil {
		return
	}
	_, cam, ok := ecs.First(w, component.CameraComponent)
	if !ok {
		return
	}
	b := screen.Bounds()
	drawer := &physicsDebugDrawer{
		screen: screen,
		cam:    *cam,
		width:  float64(b.Dx()),
		height: float64(b.Dy()),
	}
	cp.DrawSpace(space, drawer)
}

func DrawPlayerStateDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	player, ok := w.First(component.PlayerComponent.Kind())
	if !ok {
		return
	}
	stateName := "none"
	if sm, ok := ecs.Get(w, player, component.PlayerStateMachineComponent); ok && sm.State != nil {
		stateName = sm.State.Name()
	}
	p, _ := ecs.Get(w, player, component.PlayerComponent)
	tr, _ := ecs.Get(w, player, component.TransformComponent)
	contacts, beneath := 0, 0
	if c, ok := ecs.Get(w, player, component.PlayerContactComponent); ok {
		contacts, beneath = len(c.Colliding), len(c.Beneath)
	}
	text := fmt.Sprintf("Player State: %s\nGrounded: %v\nContacts: %d\nBeneath: %d\nPos: %.1f, %.1f\nRotation: %.1f",
		stateName, p.Grounded, contacts, beneath, tr.X, tr.Y, tr.Rotation*180/math.Pi)
	if _, cam, ok := ecs.First(w, component.CameraComponent); ok {
		text += fmt.Sprintf("\nCamera: %.1f, %.1f, %.1f\nLerp: %.2f\nFit: %.1f", cam.Position.X, cam.Position.Y, cam.Position.Z, cam.Lerp, cam.FitDistance)
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 40)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	cam    component.Camera
	width  float64
	height float64
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := debugDotSize / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

// Sensors draw in yellow so they stand apart from solid terrain.
func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Sensor() {
		return cp.FColor{R: 1, G: 0.9, B: 0.1, A: 0.6}
	}
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, color cp.FColor) {
	x1, y1, ok1 := d.cam.Project(r3.Vector{X: a.X, Y: a.Y}, d.width, d.height)
	x2, y2, ok2 := d.cam.Project(r3.Vector{X: b.X, Y: b.Y}, d.width, d.height)
	if !ok1 || !ok2 {
		return
	}
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, toNRGBA(color))
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, color cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], color)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, color cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, color)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
