package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveTriangle
)

// oscillator generates raw audio waves with an optional frequency sweep
type oscillator struct {
	freq     float64
	sweep    float64 // Hz per second, applied linearly
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a fixed-frequency oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweepOscillator(freq, 0, duration, wave, rate)
}

// NewSweepOscillator creates an oscillator whose frequency glides by
// sweep Hz per second over its lifetime
func NewSweepOscillator(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, false
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.position) / float64(o.rate)
		f := o.freq + o.sweep*t
		o.phase += f / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope shapes a streamer with linear attack and release ramps
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		var vol float64 = 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = float64(remaining) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps a streamer in a volume effect.
// math.Log2(0) is -Inf, so zero volume becomes silence instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Cue sound generators

// CreateReleaseSound is a rising sine sweep, the presence leaving the totem
func CreateReleaseSound(rate beep.SampleRate) beep.Streamer {
	osc := NewSweepOscillator(220, 440, 600*time.Millisecond, WaveSine, rate)
	env := NewEnvelope(osc, 600*time.Millisecond, 30*time.Millisecond, 350*time.Millisecond, rate)
	return newVolume(env, 0.5)
}

// CreateReceiveSound is a soft descending triangle, a presence arriving
func CreateReceiveSound(rate beep.SampleRate) beep.Streamer {
	osc := NewSweepOscillator(660, -280, 700*time.Millisecond, WaveTriangle, rate)
	env := NewEnvelope(osc, 700*time.Millisecond, 120*time.Millisecond, 400*time.Millisecond, rate)
	return newVolume(env, 0.4)
}

// CreateSyncSound layers a fifth over the root, held longer than the
// other cues to mark the shared moment
func CreateSyncSound(rate beep.SampleRate) beep.Streamer {
	root := NewOscillator(330, 1200*time.Millisecond, WaveSine, rate)
	fifth := NewOscillator(495, 1200*time.Millisecond, WaveSine, rate)
	mixed := beep.Mix(
		newVolume(root, 0.35),
		newVolume(fifth, 0.25),
	)
	return NewEnvelope(mixed, 1200*time.Millisecond, 200*time.Millisecond, 700*time.Millisecond, rate)
}
