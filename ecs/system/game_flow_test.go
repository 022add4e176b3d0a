package system

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/ecs/entity"
	"github.com/milk9111/downhill/save"
)

func newFlowWorld(t *testing.T, restartDelay int) (*ecs.World, *component.GameState, *component.Input) {
	t.Helper()
	w := ecs.NewWorld()
	gsEnt, err := entity.NewGameState(w, restartDelay)
	if err != nil {
		t.Fatal(err)
	}
	gs, _ := ecs.Get(w, gsEnt, component.GameStateComponent)

	p := ecs.CreateEntity(w)
	input := &component.Input{}
	if err := ecs.Add(w, p, component.InputComponent, input); err != nil {
		t.Fatal(err)
	}
	return w, gs, input
}

func TestGameFlow(t *testing.T) {
	w, gs, input := newFlowWorld(t, 3)
	flow := NewGameFlowSystem()

	var changes []int
	resets := 0
	w.Events().Subscribe(ecs.EventGameStateChanged, func(e ecs.Event) { changes = append(changes, e.Value) })
	w.Events().Subscribe(ecs.EventResetPlayer, func(ecs.Event) { resets++ })
	step := func() {
		flow.Update(w)
		w.Events().Dispatch()
	}

	step()
	if gs.State != component.StateStart {
		t.Fatalf("state = %v, want start", gs.State)
	}

	input.JumpPressed = true
	step()
	if gs.State != component.StatePlaying {
		t.Fatalf("state = %v, want playing", gs.State)
	}
	if input.JumpPressed {
		t.Fatal("starting jump was not consumed")
	}

	// a restart press while playing does nothing
	input.RestartPressed = true
	step()
	input.RestartPressed = false
	if gs.State != component.StatePlaying || resets != 0 {
		t.Fatalf("state = %v resets = %d", gs.State, resets)
	}

	w.Events().Publish(ecs.Event{Kind: ecs.EventFail})
	w.Events().Publish(ecs.Event{Kind: ecs.EventFail})
	w.Events().Dispatch()
	if gs.State != component.StateCompleted {
		t.Fatalf("state = %v, want completed", gs.State)
	}

	// locked out right after the run ends
	input.JumpPressed = true
	step()
	if gs.State != component.StateCompleted || resets != 0 {
		t.Fatalf("restarted during lock-out: state = %v", gs.State)
	}
	step()
	step()
	if gs.State != component.StateStart || resets != 1 {
		t.Fatalf("state = %v resets = %d, want start and 1", gs.State, resets)
	}

	want := []int{int(component.StatePlaying), int(component.StateCompleted), int(component.StateStart)}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Fatalf("changes = %v, want %v", changes, want)
		}
	}
}

func TestScoreTracksRun(t *testing.T) {
	w, gs, _ := newFlowWorld(t, 0)
	gs.State = component.StatePlaying

	p := ecs.CreateEntity(w)
	tr := &component.Transform{X: 2}
	if err := ecs.Add(w, p, component.TransformComponent, tr); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, p, component.PlayerComponent, &component.Player{SpawnX: 2}); err != nil {
		t.Fatal(err)
	}
	scoreEnt, err := entity.NewScore(w, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	score, _ := ecs.Get(w, scoreEnt, component.ScoreComponent)

	store := save.NewStore(nil)
	if _, err := store.Submit(save.Record{Distance: 10}); err != nil {
		t.Fatal(err)
	}
	sys := NewScoreSystem(store)
	step := func() {
		sys.Update(w)
		w.Events().Dispatch()
	}

	tr.X = 14
	step()
	tr.X = 9 // sliding back does not lose distance
	w.Events().Publish(ecs.Event{Kind: ecs.EventPillCollected})
	step()
	if score.Distance != 12 || score.Pills != 1 {
		t.Fatalf("score = %+v", score)
	}

	w.Events().Publish(ecs.Event{Kind: ecs.EventFail})
	step()
	if !score.NewBest || score.BestDistance != 12 || store.Best().Distance != 12 {
		t.Fatalf("best not recorded: score %+v store %+v", score, store.Best())
	}

	w.Events().Publish(ecs.Event{Kind: ecs.EventResetPlayer})
	step()
	if score.Distance != 0 || score.Pills != 0 || score.NewBest {
		t.Fatalf("run not cleared: %+v", score)
	}
	if score.BestDistance != 12 {
		t.Fatalf("best lost on reset: %+v", score)
	}
}

func TestItemPickup(t *testing.T) {
	w, gs, _ := newFlowWorld(t, 0)
	gs.State = component.StatePlaying

	pill := ecs.CreateEntity(w)
	if err := ecs.Add(w, pill, component.PillComponent, &component.Pill{}); err != nil {
		t.Fatal(err)
	}
	obstacle := ecs.CreateEntity(w)
	hit := &component.Obstacle{}
	if err := ecs.Add(w, obstacle, component.ObstacleComponent, hit); err != nil {
		t.Fatal(err)
	}

	p := ecs.CreateEntity(w)
	contact := component.NewPlayerContact()
	contact.Pills = []uint64{uint64(pill)}
	contact.Obstacles = []uint64{uint64(obstacle)}
	if err := ecs.Add(w, p, component.PlayerContactComponent, contact); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, p, component.PlayerComponent, &component.Player{}); err != nil {
		t.Fatal(err)
	}

	collected := 0
	w.Events().Subscribe(ecs.EventPillCollected, func(ecs.Event) { collected++ })

	items := NewItemSystem()
	items.Update(w)
	items.Update(w)
	w.Events().Dispatch()

	if w.IsAlive(pill) {
		t.Fatal("collected pill still alive")
	}
	if collected != 1 {
		t.Fatalf("collected = %d, want 1", collected)
	}
	if !hit.Hit {
		t.Fatal("obstacle not flagged")
	}
}

func TestCullSystem(t *testing.T) {
	w := ecs.NewWorld()
	cam := ecs.CreateEntity(w)
	if err := ecs.Add(w, cam, component.CameraComponent, &component.Camera{
		Position: r3.Vector{X: 0, Y: 0, Z: 10},
		FovY:     1,
		Aspect:   1,
	}); err != nil {
		t.Fatal(err)
	}
	view := component.Camera{Position: r3.Vector{Z: 10}, FovY: 1, Aspect: 1}.ViewRect(0)

	add := func(x float64) (ecs.Entity, *component.Cullable) {
		e := ecs.CreateEntity(w)
		c := &component.Cullable{HalfWidth: 0.5, HalfHeight: 0.5}
		_ = ecs.Add(w, e, component.TransformComponent, &component.Transform{X: x})
		_ = ecs.Add(w, e, component.CullableComponent, c)
		return e, c
	}
	behind, _ := add(view.MinX - 1)
	straddling, straddle := add(view.MinX)
	_, inside := add(0)
	ahead, aheadC := add(view.MaxX + 5)

	NewCullSystem().Update(w)

	if w.IsAlive(behind) {
		t.Fatal("entity behind the view survived")
	}
	if !w.IsAlive(straddling) || !straddle.InView {
		t.Fatal("entity on the left edge should stay visible")
	}
	if !inside.InView || !inside.Seen {
		t.Fatalf("inside = %+v", inside)
	}
	if !w.IsAlive(ahead) || aheadC.InView || aheadC.Seen {
		t.Fatalf("ahead = %+v", aheadC)
	}
}
