// Package chime plays the short arpeggio heard when a word is found.
package chime

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	SampleRate   = beep.SampleRate(44100)
	NoteDuration = 100 * time.Millisecond
	Gain         = 0.1
)

// Notes of the found-word arpeggio: C5, E5, G5.
var Notes = []float64{523.25, 659.25, 783.99}

// tone is a sine oscillator that stops after a fixed number of samples.
type tone struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

// Tone returns a sine wave at freq lasting d.
func Tone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, duration: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, i > 0
		}
		v := math.Sin(2 * math.Pi * t.phase)
		samples[i][0] = v
		samples[i][1] = v
		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Arpeggio sequences Notes at the given rate and scales them to Gain.
func Arpeggio(rate beep.SampleRate) beep.Streamer {
	notes := make([]beep.Streamer, len(Notes))
	for i, f := range Notes {
		notes[i] = Tone(f, NoteDuration, rate)
	}
	return &effects.Volume{Streamer: beep.Seq(notes...), Base: 2, Volume: math.Log2(Gain)}
}

// Player owns the speaker. A zero Player is muted until Init succeeds.
type Player struct {
	mu    sync.Mutex
	ready bool
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(NoteDuration)); err != nil {
		return err
	}
	p.ready = true
	return nil
}

// Found plays the arpeggio without blocking. It is a no-op when muted.
func (p *Player) Found() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Play(Arpeggio(SampleRate))
}
