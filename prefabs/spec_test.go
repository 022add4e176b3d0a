package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedConfigIsValid(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Terrain.Subdivisions < 2 || cfg.Terrain.ControlPoints < 2 {
		t.Fatalf("embedded terrain spec is degenerate: %+v", cfg.Terrain)
	}
	if cfg.Player.FailAngle != 45 {
		t.Fatalf("expected 45 degree fail angle, got %v", cfg.Player.FailAngle)
	}
}

func TestTerrainValidate(t *testing.T) {
	good := TerrainSpec{
		InitialChunks: 3,
		ControlPoints: 4,
		SegmentLength: RangeSpec{Min: 1, Max: 2},
		SegmentAngle:  RangeSpec{Min: -30, Max: -5},
		Subdivisions:  8,
		Thickness:     1,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid spec, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(s *TerrainSpec)
	}{
		{"one_control_point", func(s *TerrainSpec) { s.ControlPoints = 1 }},
		{"one_subdivision", func(s *TerrainSpec) { s.Subdivisions = 1 }},
		{"zero_length", func(s *TerrainSpec) { s.SegmentLength.Min = 0 }},
		{"vertical_angle", func(s *TerrainSpec) { s.SegmentAngle.Min = -90 }},
		{"no_chunks", func(s *TerrainSpec) { s.InitialChunks = 0 }},
		{"pill_chance", func(s *TerrainSpec) { s.Pill.Chance = 1.5 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := good
			c.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("expected ErrInvalidSpec, got %v", err)
			}
		})
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	body := []byte("gravity: -10\ntimestep: 0.02\niterations: 5\n")
	if err := os.WriteFile(filepath.Join(dir, "world.yaml"), body, 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := LoadWorldSpec()
	if err != nil {
		t.Fatal(err)
	}
	if spec.Gravity != -10 || spec.Iterations != 5 {
		t.Fatalf("expected disk override, got %+v", spec)
	}
	if _, ok := ModTime("prefabs/world.yaml"); !ok {
		t.Fatalf("expected mod time for override")
	}

	bad := []byte("gravity: -10\ntimestep: 0\niterations: 5\n")
	if err := os.WriteFile(filepath.Join(dir, "world.yaml"), bad, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWorldSpec(); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected invalid override to be rejected, got %v", err)
	}
}

func TestWatcherReportsYAMLWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "terrain.yaml"), []byte("x: 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if name != "terrain.yaml" {
			t.Fatalf("expected terrain.yaml, got %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	// drains whatever was buffered and returns once the channel is closed
	for range w.Events {
	}
}
