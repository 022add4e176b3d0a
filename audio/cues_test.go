package audio

import (
	"testing"
	"time"

	"github.com/milk9111/downhill/ecs"
	"github.com/milk9111/downhill/ecs/component"
)

func TestToneLength(t *testing.T) {
	tests := []struct {
		name     string
		volume   float64
		duration time.Duration
	}{
		{"full", 1, 50 * time.Millisecond},
		{"quiet", 0.25, 20 * time.Millisecond},
		{"muted", 0, 10 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Tone(440, tt.duration, tt.volume)
			if err != nil {
				t.Fatalf("Tone: %v", err)
			}
			want := sampleRate.N(tt.duration)
			buf := make([][2]float64, 512)
			total := 0
			for {
				n, ok := s.Stream(buf)
				total += n
				for i := 0; i < n; i++ {
					if buf[i][0] < -1 || buf[i][0] > 1 {
						t.Fatalf("sample %d out of range: %v", total-n+i, buf[i][0])
					}
					if tt.volume == 0 && buf[i][0] != 0 {
						t.Fatalf("muted tone produced %v", buf[i][0])
					}
				}
				if !ok {
					break
				}
			}
			if total != want {
				t.Fatalf("streamed %d samples, want %d", total, want)
			}
		})
	}
}

func TestToneRejectsBadFrequency(t *testing.T) {
	if _, err := Tone(float64(sampleRate), time.Millisecond, 1); err == nil {
		t.Fatal("expected an error above the Nyquist limit")
	}
}

func TestCuesFollowEvents(t *testing.T) {
	bus := ecs.NewEventBus()
	cues := NewCues()
	detach := cues.Attach(bus)

	bus.Publish(ecs.Event{Kind: ecs.EventGameStateChanged, Value: int(component.StatePlaying)})
	bus.Publish(ecs.Event{Kind: ecs.EventPillCollected})
	bus.Publish(ecs.Event{Kind: ecs.EventPillCollected})
	bus.Publish(ecs.Event{Kind: ecs.EventFail})
	bus.Publish(ecs.Event{Kind: ecs.EventGameStateChanged, Value: int(component.StateCompleted)})
	bus.Dispatch()

	if got := cues.Count(CueStart); got != 1 {
		t.Fatalf("start cues = %d, want 1", got)
	}
	if got := cues.Count(CuePill); got != 2 {
		t.Fatalf("pill cues = %d, want 2", got)
	}
	if got := cues.Count(CueFail); got != 1 {
		t.Fatalf("fail cues = %d, want 1", got)
	}

	detach()
	bus.Publish(ecs.Event{Kind: ecs.EventFail})
	bus.Dispatch()
	if got := cues.Count(CueFail); got != 1 {
		t.Fatalf("fail cues after detach = %d, want 1", got)
	}
}
