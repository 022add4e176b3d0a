package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/downhill/ecs/system"
	"github.com/milk9111/downhill/prefabs"
	"github.com/milk9111/downhill/session"
	"github.com/milk9111/downhill/view"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	debug bool

	opts    session.Options
	session *session.Session
	input   *Input
	overlay *Overlay
	watcher *prefabs.Watcher

	width, height float64
}

func NewGame(cfg *prefabs.Config, opts session.Options, debug bool) (*Game, error) {
	s, err := session.New(cfg, opts)
	if err != nil {
		return nil, err
	}
	input := NewInput()
	g := &Game{
		debug:   debug,
		opts:    opts,
		session: s,
		input:   input,
		overlay: NewOverlay(input),
		width:   baseWidth,
		height:  baseHeight,
	}

	if debug {
		w, err := prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			log.Printf("prefabs: hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.reloadPrefabs()

	g.overlay.Sync(g.session.State(), g.session.Score())
	if g.overlay.Visible() {
		g.overlay.Update()
	}

	g.session.Step(g.input.Poll())
	return nil
}

// reloadPrefabs rebuilds the session when a tunable changes on disk. A bad
// edit is logged and the running session kept.
func (g *Game) reloadPrefabs() {
	if g.watcher == nil {
		return
	}
	changed := ""
drain:
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			changed = name
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("prefabs: watch: %v", err)
		default:
			break drain
		}
	}
	if changed == "" {
		return
	}

	cfg, err := prefabs.LoadConfig()
	if err != nil {
		log.Printf("prefabs: reload %s: %v", changed, err)
		return
	}
	opts := g.opts
	opts.Aspect = g.width / g.height
	s, err := session.New(cfg, opts)
	if err != nil {
		log.Printf("prefabs: rebuild after %s: %v", changed, err)
		return
	}
	g.session = s
	if mod, ok := prefabs.ModTime(changed); ok {
		log.Printf("prefabs: reloaded after %s changed at %s", changed, mod.Format("15:04:05"))
		return
	}
	log.Printf("prefabs: reloaded after %s changed", changed)
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawScene(screen, view.Project(g.session.World, g.width, g.height))
	drawHUD(screen, g.session.Score(), g.session.State())

	if g.debug {
		system.DrawPhysicsDebug(g.session.Physics.Space(), g.session.World, screen)
		system.DrawPlayerStateDebug(g.session.World, screen)
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    State: %s", g.session.Frames(), ebiten.ActualFPS(), g.session.State()))
	}

	if g.overlay.Visible() {
		g.overlay.Draw(screen)
	}
}

// LayoutF keeps the logical screen at the window size so the camera aspect,
// and with it the orientation, follows resizes.
func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return baseWidth, baseHeight
	}
	g.width, g.height = outsideWidth, outsideHeight
	g.session.SetAspect(outsideWidth / outsideHeight)
	return outsideWidth, outsideHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
