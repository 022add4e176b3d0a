package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/downhill/audio"
	"github.com/milk9111/downhill/ecs/component"
	"github.com/milk9111/downhill/session"
	"github.com/milk9111/downhill/view"
)

// cellAspect is how much taller a terminal cell is than it is wide.
const cellAspect = 2.0

var cellStyles = map[view.Cell]struct {
	r     rune
	style tcell.Style
}{
	view.CellUnderside: {'.', tcell.StyleDefault.Foreground(tcell.ColorGray)},
	view.CellSurface:   {'#', tcell.StyleDefault.Foreground(tcell.ColorWhite)},
	view.CellObstacle:  {'X', tcell.StyleDefault.Foreground(tcell.ColorRed)},
	view.CellPill:      {'o', tcell.StyleDefault.Foreground(tcell.ColorYellow)},
	view.CellPlayer:    {'@', tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)},
	view.CellDead:      {'%', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)},
}

// Viewer ticks a session and paints it into a terminal screen.
type Viewer struct {
	screen  tcell.Screen
	session *session.Session
	cues    *audio.Cues
	detach  func()

	pending component.Input
	width   int
	height  int
}

func NewViewer(screen tcell.Screen, s *session.Session, cues *audio.Cues) *Viewer {
	v := &Viewer{screen: screen, session: s, cues: cues}
	if cues != nil {
		v.detach = cues.Attach(s.World.Events())
	}
	v.handleResize()
	return v
}

func (v *Viewer) Close() {
	if v.detach != nil {
		v.detach()
		v.detach = nil
	}
}

func (v *Viewer) handleResize() {
	v.width, v.height = v.screen.Size()
	if v.width > 0 && v.height > 0 {
		v.session.SetAspect(float64(v.width) / (float64(v.height) * cellAspect))
	}
}

// handleKey queues presses for the next tick. It returns false to quit.
func (v *Viewer) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		v.pending.RestartPressed = true
	case tcell.KeyUp:
		v.pending.JumpPressed = true
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case ' ', 'w':
			v.pending.JumpPressed = true
		case 'r':
			v.pending.RestartPressed = true
		}
	}
	return true
}

func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		v.handleResize()
		v.screen.Sync()
	}
	return true
}

// tick advances one step with whatever was pressed since the last one.
func (v *Viewer) tick() {
	v.session.Step(v.pending)
	v.pending = component.Input{}
}

func (v *Viewer) draw() {
	v.screen.Clear()

	grid := view.Rasterise(view.Project(v.session.World, float64(v.width), float64(v.height)), v.width, v.height)
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			if cs, ok := cellStyles[grid.At(x, y)]; ok {
				v.screen.SetContent(x, y, cs.r, nil, cs.style)
			}
		}
	}

	score := v.session.Score()
	v.print(0, 0, fmt.Sprintf("distance %.0f  pills %d  best %.0f", score.Distance, score.Pills, score.BestDistance))
	switch v.session.State() {
	case component.StateStart:
		v.print(0, 1, "space: start   q: quit")
	case component.StateCompleted:
		msg := "wiped out, r: again"
		if score.NewBest {
			msg = "new best! r: again"
		}
		v.print(0, 1, msg)
	}

	v.screen.Show()
}

func (v *Viewer) print(x, y int, s string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	for i, r := range []rune(s) {
		if x+i >= v.width {
			return
		}
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Run ticks at the session's timestep until a quit key.
func (v *Viewer) Run() {
	ticker := time.NewTicker(time.Duration(v.session.Timestep() * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !v.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.tick()
			v.draw()
		}
	}
}
