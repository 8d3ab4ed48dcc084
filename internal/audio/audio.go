// Package audio plays short synthesized tones for scheduled impact
// cues. Tones are fire and forget; once a cue is handed to the mixer
// it cannot be pulled back, so Cancel is a no-op.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vmarchenko/brickwave/internal/foreshadow"
)

const sampleRate = beep.SampleRate(48000)

const (
	toneMinDuration = 40 * time.Millisecond
	toneMaxDuration = 140 * time.Millisecond
	toneMinVolume   = 0.15
	toneMaxVolume   = 0.65
	toneAttack      = 5 * time.Millisecond
	toneRelease     = 25 * time.Millisecond
)

// Engine owns the speaker and a persistent mixer that cue tones are
// added to. It implements foreshadow.Sink.
type Engine struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	muted       bool
	initialized bool
}

// NewEngine opens the speaker. This is the only hard failure in the
// audio path; everything after a successful init degrades silently.
func NewEngine() (*Engine, error) {
	e := &Engine{mixer: &beep.Mixer{}}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return nil, err
	}
	speaker.Play(e.mixer)
	e.initialized = true
	return e, nil
}

// Play synthesizes a sine tone at the cue pitch. Intensity scales
// both volume and duration, so faster impacts ring louder and longer.
func (e *Engine) Play(cue foreshadow.Cue) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.muted {
		return
	}

	dur := toneDuration(cue.Intensity)
	tone := newTone(cue.Pitch, toneVolume(cue.Intensity), dur, sampleRate)
	e.mixer.Add(newFade(tone, dur, toneAttack, toneRelease, sampleRate))
}

// Cancel is a no-op; tones are short enough that letting a stale one
// finish is cheaper than tracking handles inside the mixer.
func (e *Engine) Cancel(id int) {}

// SetMuted toggles tone playback without tearing down the speaker.
func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
}

// Close silences the mixer. beep has no speaker teardown, so clearing
// streamers is the closest thing to a shutdown.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return
	}
	e.mixer.Clear()
	e.initialized = false
}

func toneDuration(intensity float64) time.Duration {
	span := float64(toneMaxDuration - toneMinDuration)
	return toneMinDuration + time.Duration(intensity*span)
}

func toneVolume(intensity float64) float64 {
	return toneMinVolume + intensity*(toneMaxVolume-toneMinVolume)
}

// tone is a finite sine oscillator.
type tone struct {
	freq     float64
	volume   float64
	phase    float64
	position int
	duration int
	rate     beep.SampleRate
}

func newTone(freq, volume float64, dur time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:     freq,
		volume:   volume,
		duration: rate.N(dur),
		rate:     rate,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, false
		}

		val := math.Sin(2*math.Pi*t.phase) * t.volume
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// fade wraps a streamer with a linear attack and release so the tone
// does not click at its edges.
type fade struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newFade(s beep.Streamer, dur, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &fade{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(dur),
	}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if f.position < f.attack {
			gain = float64(f.position) / float64(f.attack)
		} else if left := f.total - f.position; left < f.release {
			gain = float64(left) / float64(f.release)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }
