package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
)

const sampleRate = beep.SampleRate(44100)

type Cue uint8

const (
	CueStart Cue = iota
	CuePill
	CueFail
)

type tone struct {
	freq     float64
	duration time.Duration
	volume   float64
}

var tones = map[Cue]tone{
	CueStart: {freq: 660, duration: 60 * time.Millisecond, volume: 0.4},
	CuePill:  {freq: 880, duration: 80 * time.Millisecond, volume: 0.5},
	CueFail:  {freq: 180, duration: 320 * time.Millisecond, volume: 0.7},
}

// Cues plays short tones for game events. Until Init succeeds every cue is
// counted but silent.
type Cues struct {
	mu     sync.Mutex
	ready  bool
	counts map[Cue]int
}

func NewCues() *Cues {
	return &Cues{counts: make(map[Cue]int)}
}

func (c *Cues) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	c.ready = true
	return nil
}

func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.ready = false
}

// Attach plays cues for bus events until the returned func is called.
func (c *Cues) Attach(bus *ecs.EventBus) (detach func()) {
	unsubs := []func(){
		bus.Subscribe(ecs.EventPillCollected, func(ecs.Event) { c.Play(CuePill) }),
		bus.Subscribe(ecs.EventFail, func(ecs.Event) { c.Play(CueFail) }),
		bus.Subscribe(ecs.EventGameStateChanged, func(e ecs.Event) {
			if component.GameStateKind(e.Value) == component.StatePlaying {
				c.Play(CueStart)
			}
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (c *Cues) Play(cue Cue) {
	c.mu.Lock()
	c.counts[cue]++
	ready := c.ready
	c.mu.Unlock()
	if !ready {
		return
	}
	t, ok := tones[cue]
	if !ok {
		return
	}
	s, err := Tone(t.freq, t.duration, t.volume)
	if err != nil {
		return
	}
	speaker.Play(s)
}

func (c *Cues) Count(cue Cue) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[cue]
}

// Tone is a sine tone of the given length at a linear volume in (0, 1].
func Tone(freq float64, duration time.Duration, volume float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("audio: tone %v Hz: %w", freq, err)
	}
	s := beep.Take(sampleRate.N(duration), sine)
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}, nil
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(volume)}, nil
}
