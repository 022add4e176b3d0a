package system

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/ecs/entity"
	"github.com/milk9111/downhill/prefabs"
)

// filter returns the shape filter for role: it belongs to the role's category
// and only meets the roles in mask.
func filter(role component.BodyRole, mask ...component.BodyRole) cp.ShapeFilter {
	bits := uint(0)
	for _, m := range mask {
		bits |= m.Category()
	}
	return cp.NewShapeFilter(cp.NO_GROUP, role.Category(), bits)
}

var (
	terrainFilter      = cp.NewShapeFilter(cp.NO_GROUP, component.RoleTerrain.Category(), cp.ALL_CATEGORIES)
	playerBodyFilter   = filter(component.RolePlayerBody, component.RoleTerrain, component.RolePill, component.RoleObstacle)
	groundSensorFilter = filter(component.RolePlayerGroundSensor, component.RoleTerrain)
	angleSensorFilter  = filter(component.RoleTerrainRotationSensor, component.RoleTerrain)
	pillFilter         = filter(component.RolePill, component.RolePlayerBody)
	obstacleFilter     = filter(component.RoleObstacle, component.RolePlayerBody)
	terrainQuery       = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, component.RoleTerrain.Category())
)

// PhysicsSystem owns the Chipmunk space. Player, pill and obstacle bodies
// are created lazily from PhysicsBody components; terrain chunks are attached
// and detached explicitly by the terrain stream, always between steps.
type PhysicsSystem struct {
	space         *cp.Space
	timestep      float64
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	chunks   map[ecs.Entity][]*cp.Shape
	segments map[*cp.Shape]segmentInfo
	items    map[*cp.Shape]ecs.Entity

	// contacts seen during the current step
	ground    map[component.SegmentRef]float64
	beneath   map[component.SegmentRef]float64
	pills     []ecs.Entity
	obstacles []ecs.Entity
}

type bodyInfo struct {
	body      *cp.Body
	shapes    []*cp.Shape
	static    bool
	angleBody *cp.Body
}

type segmentInfo struct {
	ref   component.SegmentRef
	angle float64
}

func NewPhysicsSystem(spec prefabs.WorldSpec) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = uint(spec.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: spec.Gravity})
	return &PhysicsSystem{
		space:    space,
		timestep: spec.Timestep,
		entities: make(map[ecs.Entity]*bodyInfo),
		chunks:   make(map[ecs.Entity][]*cp.Shape),
		segments: make(map[*cp.Shape]segmentInfo),
		items:    make(map[*cp.Shape]ecs.Entity),
		ground:   make(map[component.SegmentRef]float64),
		beneath:  make(map[component.SegmentRef]float64),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Timestep() float64 {
	return ps.timestep
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.placeAngleSensors(w)

	clear(ps.ground)
	clear(ps.beneath)
	ps.pills = ps.pills[:0]
	ps.obstacles = ps.obstacles[:0]

	ps.space.Step(ps.timestep)

	ps.syncTransforms(w)
	ps.flushPlayerContacts(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	// Sensor contacts are rebuilt from PreSolve every step, which fires for
	// every overlapping pair, so the sets never depend on begin/separate
	// pairing.
	ground := ps.space.NewCollisionHandler(component.RolePlayerGroundSensor.CollisionType(), component.RoleTerrain.CollisionType())
	ground.UserData = ps
	ground.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys := userData.(*PhysicsSystem)
		if seg, ok := sys.segmentOf(arb); ok {
			sys.ground[seg.ref] = seg.angle
		}
		return true
	}

	angle := ps.space.NewCollisionHandler(component.RoleTerrainRotationSensor.CollisionType(), component.RoleTerrain.CollisionType())
	angle.UserData = ps
	angle.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys := userData.(*PhysicsSystem)
		if seg, ok := sys.segmentOf(arb); ok {
			sys.beneath[seg.ref] = seg.angle
		}
		return true
	}

	pill := ps.space.NewCollisionHandler(component.RolePlayerBody.CollisionType(), component.RolePill.CollisionType())
	pill.UserData = ps
	pill.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys := userData.(*PhysicsSystem)
		if e, ok := sys.itemOf(arb); ok {
			sys.pills = append(sys.pills, e)
		}
		return true
	}

	obstacle := ps.space.NewCollisionHandler(component.RolePlayerBody.CollisionType(), component.RoleObstacle.CollisionType())
	obstacle.UserData = ps
	obstacle.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys := userData.(*PhysicsSystem)
		if e, ok := sys.itemOf(arb); ok {
			sys.obstacles = append(sys.obstacles, e)
		}
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) segmentOf(arb *cp.Arbiter) (segmentInfo, bool) {
	a, b := arb.Shapes()
	if seg, ok := ps.segments[a]; ok {
		return seg, true
	}
	seg, ok := ps.segments[b]
	return seg, ok
}

func (ps *PhysicsSystem) itemOf(arb *cp.Arbiter) (ecs.Entity, bool) {
	a, b := arb.Shapes()
	if e, ok := ps.items[a]; ok {
		return e, true
	}
	e, ok := ps.items[b]
	return e, ok
}

// AttachChunk adds one static slab per segment of chunk to the space.
func (ps *PhysicsSystem) AttachChunk(e ecs.Entity, chunk *component.TerrainChunk) {
	if chunk == nil || chunk.Attached {
		return
	}
	shapes := make([]*cp.Shape, 0, len(chunk.Segments))
	for i := range chunk.Segments {
		seg := &chunk.Segments[i]
		verts := entity.SlabVerts(*seg, chunk.Thickness)
		shape := cp.NewPolyShapeRaw(ps.space.StaticBody, len(verts), verts, 0)
		shape.SetFriction(0)
		shape.SetCollisionType(component.RoleTerrain.CollisionType())
		shape.SetFilter(terrainFilter)
		ps.space.AddShape(shape)

		seg.Shape = shape
		ps.segments[shape] = segmentInfo{
			ref:   component.SegmentRef{Chunk: uint64(e), Index: i},
			angle: seg.Angle,
		}
		shapes = append(shapes, shape)
	}
	ps.chunks[e] = shapes
	chunk.Attached = true
}

// DetachChunk removes every shape of the chunk from the space.
func (ps *PhysicsSystem) DetachChunk(e ecs.Entity, chunk *component.TerrainChunk) {
	ps.removeChunkShapes(e)
	if chunk == nil {
		return
	}
	for i := range chunk.Segments {
		chunk.Segments[i].Shape = nil
	}
	chunk.Attached = false
}

func (ps *PhysicsSystem) removeChunkShapes(e ecs.Entity) {
	for _, shape := range ps.chunks[e] {
		ps.space.RemoveShape(shape)
		delete(ps.segments, shape)
	}
	delete(ps.chunks, e)
}

// RayFirst casts a segment query against terrain only and returns the first
// hit point.
func (ps *PhysicsSystem) RayFirst(from, to cp.Vector) (cp.Vector, bool) {
	info := ps.space.SegmentQueryFirst(from, to, 0, terrainQuery)
	if info.Shape == nil {
		return cp.Vector{}, false
	}
	return info.Point, true
}

// ResetBody teleports e's body to the given pose and zeroes its motion.
func (ps *PhysicsSystem) ResetBody(e ecs.Entity, x, y, angle float64) {
	info := ps.entities[e]
	if info == nil || info.static {
		return
	}
	info.body.SetPosition(cp.Vector{X: x, Y: y})
	info.body.SetAngle(angle)
	info.body.SetVelocity(0, 0)
	info.body.SetAngularVelocity(0)
	info.body.SetForce(cp.Vector{})
	if info.angleBody != nil {
		info.angleBody.SetVelocity(0, 0)
	}
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent, func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info := ps.entities[e]; info != nil {
			if bodyComp.Body == nil {
				bodyComp.Body = info.body
				bodyComp.Shape = info.shapes[0]
			}
			return
		}

		var info *bodyInfo
		switch bodyComp.Role {
		case component.RolePlayerBody:
			sensors, _ := ecs.Get(w, e, component.PlayerSensorsComponent)
			info = ps.createPlayer(transform, bodyComp, sensors)
		case component.RolePill, component.RoleObstacle:
			info = ps.createItem(e, transform, bodyComp)
		default:
			log.Printf("PhysicsSystem: entity %v has unsupported role %v", e, bodyComp.Role)
			return
		}
		if info == nil {
			return
		}
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.shapes[0]
	})
}

func (ps *PhysicsSystem) createPlayer(transform *component.Transform, bodyComp *component.PhysicsBody, sensors *component.PlayerSensors) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		log.Printf("PhysicsSystem: player has no size")
		return nil
	}
	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	body := cp.NewBody(mass, cp.MomentForBox(mass, width, height))
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0)
	shape.SetCollisionType(component.RolePlayerBody.CollisionType())
	shape.SetFilter(playerBodyFilter)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	info := &bodyInfo{body: body, shapes: []*cp.Shape{shape}}

	if sensors == nil {
		return info
	}

	// ground sensor rides on the player body, straddling its bottom edge
	groundBB := cp.BB{
		L: -sensors.GroundWidth / 2,
		B: -height/2 - sensors.GroundHeight/2,
		R: sensors.GroundWidth / 2,
		T: -height/2 + sensors.GroundHeight/2,
	}
	ground := cp.NewBox2(body, groundBB, 0)
	ground.SetSensor(true)
	ground.SetCollisionType(component.RolePlayerGroundSensor.CollisionType())
	ground.SetFilter(groundSensorFilter)
	ps.space.AddShape(ground)
	info.shapes = append(info.shapes, ground)
	sensors.GroundShape = ground

	// angle sensor has its own body so it never rotates with the player
	angleBody := cp.NewBody(1, math.Inf(1))
	angleBody.SetPosition(cp.Vector{X: transform.X, Y: transform.Y - sensors.AngleOffset})
	angleBody.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
	})
	angleShape := cp.NewBox(angleBody, sensors.AngleWidth, sensors.AngleHeight, 0)
	angleShape.SetSensor(true)
	angleShape.SetCollisionType(component.RoleTerrainRotationSensor.CollisionType())
	angleShape.SetFilter(angleSensorFilter)
	ps.space.AddBody(angleBody)
	ps.space.AddShape(angleShape)
	info.angleBody = angleBody
	info.shapes = append(info.shapes, angleShape)
	sensors.AngleBody = angleBody
	sensors.AngleShape = angleShape

	return info
}

func (ps *PhysicsSystem) createItem(e ecs.Entity, transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	var shape *cp.Shape
	center := cp.Vector{X: transform.X, Y: transform.Y}
	switch bodyComp.Role {
	case component.RolePill:
		shape = cp.NewCircle(ps.space.StaticBody, bodyComp.Radius, center)
		shape.SetFilter(pillFilter)
	case component.RoleObstacle:
		rot := cp.ForAngle(transform.Rotation)
		hw, hh := bodyComp.Width/2, bodyComp.Height/2
		corners := []cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
		for i, c := range corners {
			corners[i] = center.Add(c.Rotate(rot))
		}
		shape = cp.NewPolyShapeRaw(ps.space.StaticBody, len(corners), corners, 0)
		shape.SetFilter(obstacleFilter)
	}
	shape.SetSensor(true)
	shape.SetCollisionType(bodyComp.Role.CollisionType())
	ps.space.AddShape(shape)
	ps.items[shape] = e
	return &bodyInfo{body: ps.space.StaticBody, shapes: []*cp.Shape{shape}, static: true}
}

// placeAngleSensors holds each angle sensor straight below its player with
// zero rotation and the player's velocity, so it tracks through the step.
func (ps *PhysicsSystem) placeAngleSensors(w *ecs.World) {
	ecs.ForEach(w, component.PlayerSensorsComponent, func(e ecs.Entity, sensors *component.PlayerSensors) {
		info := ps.entities[e]
		if info == nil || info.angleBody == nil {
			return
		}
		pos := info.body.Position()
		info.angleBody.SetPosition(cp.Vector{X: pos.X, Y: pos.Y - sensors.AngleOffset})
		info.angleBody.SetAngle(0)
		info.angleBody.SetVelocityVector(info.body.Velocity())
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent, func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Static || bodyComp.Body == nil {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

func (ps *PhysicsSystem) flushPlayerContacts(w *ecs.World) {
	ecs.ForEach(w, component.PlayerContactComponent, func(e ecs.Entity, contact *component.PlayerContact) {
		contact.Clear()
		for ref, angle := range ps.ground {
			contact.Colliding[ref] = angle
		}
		for ref, angle := range ps.beneath {
			contact.Beneath[ref] = angle
		}
		for _, p := range ps.pills {
			contact.Pills = append(contact.Pills, uint64(p))
		}
		for _, o := range ps.obstacles {
			contact.Obstacles = append(contact.Obstacles, uint64(o))
		}
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent) {
			continue
		}
		for _, shape := range info.shapes {
			ps.space.RemoveShape(shape)
			delete(ps.items, shape)
		}
		if !info.static {
			ps.space.RemoveBody(info.body)
		}
		if info.angleBody != nil {
			ps.space.RemoveBody(info.angleBody)
		}
		delete(ps.entities, e)
	}

	for e := range ps.chunks {
		if !w.IsAlive(e) {
			log.Printf("PhysicsSystem: chunk %v destroyed while attached", e)
			ps.removeChunkShapes(e)
		}
	}
}
