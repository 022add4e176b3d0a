package view

import (
	"testing"

	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/prefabs"
	"github.com/milk9111/downhill/save"
	"github.com/milk9111/downhill/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	cfg, err := prefabs.LoadConfig()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	s, err := session.New(cfg, session.Options{Seed: 5, Records: save.NewStore(nil)})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s
}

func TestProjectSession(t *testing.T) {
	s := newSession(t)
	s.Step(component.Input{})

	sc := Project(s.World, 1280, 720)
	if !sc.HasPlayer {
		t.Fatal("player missing from scene")
	}
	if len(sc.Surface) == 0 || len(sc.Surface) != len(sc.Underside) {
		t.Fatalf("surface %d underside %d", len(sc.Surface), len(sc.Underside))
	}
	c := sc.Player.Center()
	if c.X < 0 || c.X > 1280 || c.Y < 0 || c.Y > 720 {
		t.Fatalf("player off screen at %+v", c)
	}
	// the underside sits below the surface, y grows downward
	if sc.Underside[0].A.Y <= sc.Surface[0].A.Y {
		t.Fatalf("underside %v above surface %v", sc.Underside[0].A, sc.Surface[0].A)
	}
}

func TestProjectWithoutCamera(t *testing.T) {
	s := newSession(t)
	sc := Project(s.World, 0, 0)
	if sc.HasPlayer || len(sc.Surface) != 0 {
		t.Fatalf("zero viewport produced %+v", sc)
	}
}

func TestRasterise(t *testing.T) {
	tests := []struct {
		name  string
		scene Scene
		x, y  int
		want  Cell
	}{
		{
			name:  "horizontal line",
			scene: Scene{Surface: []Line{{A: Point{0, 2}, B: Point{9, 2}}}},
			x:     5, y: 2,
			want: CellSurface,
		},
		{
			name:  "diagonal line",
			scene: Scene{Surface: []Line{{A: Point{0, 0}, B: Point{9, 9}}}},
			x:     4, y: 4,
			want: CellSurface,
		},
		{
			name: "player drawn over surface",
			scene: Scene{
				Surface:   []Line{{A: Point{0, 5}, B: Point{9, 5}}},
				Player:    Quad{{3, 3}, {6, 3}, {6, 5}, {3, 5}},
				HasPlayer: true,
			},
			x: 4, y: 5,
			want: CellPlayer,
		},
		{
			name:  "dead player",
			scene: Scene{Player: Quad{{3, 3}, {6, 3}, {6, 5}, {3, 5}}, HasPlayer: true, Dead: true},
			x:     3, y: 3,
			want: CellDead,
		},
		{
			name:  "pill",
			scene: Scene{Pills: []Circle{{Center: Point{7.5, 1.2}, Radius: 1}}},
			x:     7, y: 1,
			want: CellPill,
		},
		{
			name:  "off grid line clipped",
			scene: Scene{Surface: []Line{{A: Point{-20, -4}, B: Point{-1, -9}}}},
			x:     0, y: 0,
			want: CellEmpty,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Rasterise(tt.scene, 10, 10)
			if got := g.At(tt.x, tt.y); got != tt.want {
				t.Fatalf("cell (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}
