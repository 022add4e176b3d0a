package system

import (
	"github.com/milk9111/downhill/common"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
)

// CullSystem tracks which cullable entities are on screen and destroys those
// that have fallen wholly behind the left edge of the view.
type CullSystem struct{}

func NewCullSystem() *CullSystem { return &CullSystem{} }

func (s *CullSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	_, cam, ok := ecs.First(w, component.CameraComponent)
	if !ok {
		return
	}
	view := cam.ViewRect(0)

	ecs.ForEach2(w, component.CullableComponent, component.TransformComponent, func(e ecs.Entity, c *component.Cullable, t *component.Transform) {
		bounds := common.Rect{
			MinX: t.X - c.HalfWidth,
			MinY: t.Y - c.HalfHeight,
			MaxX: t.X + c.HalfWidth,
			MaxY: t.Y + c.HalfHeight,
		}
		if bounds.MaxX < view.MinX {
			ecs.DestroyEntity(w, e)
			return
		}
		c.InView = bounds.Intersects(view)
		if c.InView {
			c.Seen = true
		}
	})
}
