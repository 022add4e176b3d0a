package system

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/ecs/entity"
	"github.com/milk9111/downhill/prefabs"
)

// flatGround answers every downward ray with a hit at height y.
type flatGround struct {
	y    float64
	miss bool
}

func (g *flatGround) RayFirst(from, to cp.Vector) (cp.Vector, bool) {
	if g.miss || g.y > from.Y || g.y < to.Y {
		return cp.Vector{}, false
	}
	return cp.Vector{X: from.X, Y: g.y}, true
}

func testCameraSpec() prefabs.CameraSpec {
	return prefabs.CameraSpec{
		Fov:                50,
		Near:               0.1,
		RayLength:          200,
		RayLift:            0.5,
		StartLerp:          1,
		PlayingLerp:        0.1,
		TransitionDuration: 0.5,
		LerpDuration:       0.5,
		Frame:              prefabs.FrameSpec{Width: 14, Depth: 4},
		Landscape: prefabs.OffsetsSpec{
			Start:     prefabs.Vec3Spec{X: 3, Y: 1, Z: 16},
			Playing:   prefabs.Vec3Spec{X: 7, Y: 3, Z: 24},
			Completed: prefabs.Vec3Spec{X: 0, Y: 1, Z: 11},
		},
		Portrait: prefabs.OffsetsSpec{
			Start:     prefabs.Vec3Spec{X: 1, Y: 3, Z: 26},
			Playing:   prefabs.Vec3Spec{X: 2, Y: 6, Z: 36},
			Completed: prefabs.Vec3Spec{X: 0, Y: 2, Z: 18},
		},
	}
}

type cameraFixture struct {
	w      *ecs.World
	gs     *component.GameState
	player *component.Transform
	cam    *component.Camera
	rig    *component.CameraRig
	ground *flatGround
	sys    *CameraSystem
}

func newCameraFixture(t *testing.T, state component.GameStateKind, aspect float64) *cameraFixture {
	t.Helper()
	w := ecs.NewWorld()

	p := ecs.CreateEntity(w)
	player := &component.Transform{X: 0, Y: 0}
	if err := ecs.Add(w, p, component.TransformComponent, player); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, p, component.PlayerComponent, &component.Player{}); err != nil {
		t.Fatal(err)
	}

	gsEnt, err := entity.NewGameState(w, 0)
	if err != nil {
		t.Fatal(err)
	}
	gs, _ := ecs.Get(w, gsEnt, component.GameStateComponent)
	gs.State = state

	camEnt, err := entity.NewCamera(w, testCameraSpec(), aspect, false, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	cam, _ := ecs.Get(w, camEnt, component.CameraComponent)
	rig, _ := ecs.Get(w, camEnt, component.CameraRigComponent)

	ground := &flatGround{y: -1}
	return &cameraFixture{
		w:      w,
		gs:     gs,
		player: player,
		cam:    cam,
		rig:    rig,
		ground: ground,
		sys:    NewCameraSystem(ground, 1.0/60),
	}
}

func TestFitDistance(t *testing.T) {
	quarter := math.Pi / 2
	tests := []struct {
		name                 string
		width, height, depth float64
		want                 float64
	}{
		{"width bound", 10, 4, 2, 6},
		{"height bound", 4, 10, 2, 6},
		{"no depth", 8, 8, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitDistance(tt.width, tt.height, tt.depth, quarter, quarter)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("FitDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCameraDollyOnlyMovesOut(t *testing.T) {
	f := newCameraFixture(t, component.StatePlaying, 16.0/9)

	gaps := []float64{1, 5, 10, 20, 40, 30, 10, 2, 2, 50, 3}
	prev := math.Inf(-1)
	for i, gap := range gaps {
		f.player.X = float64(i) * 5
		f.ground.y = f.player.Y - gap
		for range 5 {
			f.sys.Update(f.w)
			if z := f.cam.Position.Z; z < prev {
				t.Fatalf("gap %v: camera z went from %v to %v", gap, prev, z)
			}
			prev = f.cam.Position.Z
		}
	}

	need := FitDistance(14, 50+0.5, 4, f.cam.FovX(), f.cam.FovY)
	if math.Abs(f.cam.FitDistance-need) > 1e-9 {
		t.Fatalf("fit distance = %v, want the widest gap's %v", f.cam.FitDistance, need)
	}
	if f.cam.Position.Z < need {
		t.Fatalf("camera z %v closer than fit %v", f.cam.Position.Z, need)
	}
}

func TestCameraTracksXRigidly(t *testing.T) {
	f := newCameraFixture(t, component.StatePlaying, 16.0/9)
	f.cam.Lerp = 0.1

	f.player.X = 40
	f.sys.Update(f.w)
	if want := 40 + f.rig.Offset.X; f.cam.Position.X != want {
		t.Fatalf("camera x = %v, want %v", f.cam.Position.X, want)
	}
}

func TestCameraFallsBackToPlayerWithoutGround(t *testing.T) {
	f := newCameraFixture(t, component.StateStart, 16.0/9)
	f.ground.miss = true
	f.player.Y = 7
	for range 3 {
		f.sys.Update(f.w)
	}
	// start lerp is 1 so the camera sits on its target immediately
	if want := 7 + f.rig.Offset.Y; math.Abs(f.cam.Position.Y-want) > 1e-9 {
		t.Fatalf("camera y = %v, want %v", f.cam.Position.Y, want)
	}
	if f.cam.FitDistance != 0 {
		t.Fatalf("fit distance %v outside play", f.cam.FitDistance)
	}
}

func TestCameraStateTransition(t *testing.T) {
	f := newCameraFixture(t, component.StateStart, 16.0/9)
	f.sys.Update(f.w)
	if f.rig.Transitioning() {
		t.Fatal("transition before any state change")
	}

	f.gs.State = component.StatePlaying
	f.sys.Update(f.w)
	if !f.rig.Transitioning() || f.cam.Lerp != 1 || f.cam.FitDistance != 0 {
		t.Fatalf("transition not started: tweening=%v lerp=%v fit=%v", f.rig.Transitioning(), f.cam.Lerp, f.cam.FitDistance)
	}

	for range 120 {
		f.sys.Update(f.w)
	}
	if f.rig.Transitioning() {
		t.Fatal("transition never finished")
	}
	want := r3.Vector{X: 7, Y: 3, Z: 24}
	if f.rig.Offset != want {
		t.Fatalf("offset = %v, want %v", f.rig.Offset, want)
	}
	if f.cam.Lerp != 0.1 {
		t.Fatalf("lerp = %v, want the playing rate", f.cam.Lerp)
	}

	f.gs.State = component.StateCompleted
	for range 120 {
		f.sys.Update(f.w)
	}
	if want := (r3.Vector{X: 0, Y: 1, Z: 11}); f.rig.Offset != want {
		t.Fatalf("offset = %v, want %v", f.rig.Offset, want)
	}
	if f.cam.Lerp != 1 {
		t.Fatalf("lerp = %v, want rigid outside play", f.cam.Lerp)
	}
	if f.cam.FitDistance != 0 {
		t.Fatalf("fit distance %v kept across a state change", f.cam.FitDistance)
	}
}

func TestCameraOrientation(t *testing.T) {
	f := newCameraFixture(t, component.StateStart, 9.0/16)
	f.sys.Update(f.w)
	if f.rig.Orientation != component.Portrait {
		t.Fatalf("orientation = %v, want portrait", f.rig.Orientation)
	}
	if want := (r3.Vector{X: 1, Y: 3, Z: 26}); f.rig.Offset != want {
		t.Fatalf("offset = %v, want portrait start %v", f.rig.Offset, want)
	}

	f.cam.Aspect = 16.0 / 9
	for range 120 {
		f.sys.Update(f.w)
	}
	if f.rig.Orientation != component.Landscape {
		t.Fatalf("orientation = %v, want landscape", f.rig.Orientation)
	}
	if want := (r3.Vector{X: 3, Y: 1, Z: 16}); f.rig.Offset != want {
		t.Fatalf("offset = %v, want landscape start %v", f.rig.Offset, want)
	}
}
