package main

import (
	"flag"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/downhill/prefabs"
	"github.com/milk9111/downhill/save"
	"github.com/milk9111/downhill/session"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug drawing and prefab hot reload")
	seed := flag.Uint64("seed", 0, "terrain seed (0 picks one from the clock)")
	portrait := flag.Bool("portrait", false, "force portrait framing")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	cfg, err := prefabs.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	// a missing save dir still gives an in-memory store
	store, err := save.Open("downhill")
	if err != nil {
		log.Printf("save: best run will not persist: %v", err)
	}

	aspect := float64(baseWidth) / baseHeight
	width, height := baseWidth, baseHeight
	if *portrait {
		aspect = float64(baseHeight) / baseWidth
		width, height = baseHeight, baseWidth
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("downhill")
	ebiten.SetTPS(int(math.Round(1 / cfg.World.Timestep)))

	game, err := NewGame(cfg, session.Options{
		Seed:     *seed,
		Aspect:   aspect,
		Portrait: *portrait,
		Records:  store,
	}, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
