package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestOscillatorDuration(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSine, rate)
	samples := drain(t, osc)

	want := rate.N(100 * time.Millisecond)
	if len(samples) != want {
		t.Errorf("got %d samples, want %d", len(samples), want)
	}
}

func TestOscillatorAmplitudeBounded(t *testing.T) {
	rate := beep.SampleRate(44100)
	for _, wave := range []WaveType{WaveSine, WaveTriangle} {
		osc := NewOscillator(220, 50*time.Millisecond, wave, rate)
		for i, s := range drain(t, osc) {
			if math.Abs(s[0]) > 1.0001 || math.Abs(s[1]) > 1.0001 {
				t.Fatalf("wave %d sample %d out of range: %v", wave, i, s)
			}
		}
	}
}

func TestSweepRaisesFrequency(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewSweepOscillator(100, 400, 200*time.Millisecond, WaveSine, rate)
	samples := drain(t, osc)

	// Count zero crossings in the first and last quarters; an upward
	// sweep must produce more at the end.
	quarter := len(samples) / 4
	early := zeroCrossings(samples[:quarter])
	late := zeroCrossings(samples[len(samples)-quarter:])
	if late <= early {
		t.Errorf("sweep did not rise: early=%d late=%d crossings", early, late)
	}
}

func zeroCrossings(samples [][2]float64) int {
	n := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1][0] < 0) != (samples[i][0] < 0) {
			n++
		}
	}
	return n
}

func TestEnvelopeShaping(t *testing.T) {
	rate := beep.SampleRate(44100)
	// Constant-amplitude source so the envelope is directly observable.
	src := NewOscillator(0.0001, 100*time.Millisecond, WaveTriangle, rate)
	env := NewEnvelope(src, 100*time.Millisecond, 20*time.Millisecond, 20*time.Millisecond, rate)
	samples := drain(t, env)

	if len(samples) == 0 {
		t.Fatal("envelope produced no samples")
	}
	first := math.Abs(samples[0][0])
	mid := math.Abs(samples[len(samples)/2][0])
	last := math.Abs(samples[len(samples)-1][0])

	if first > 0.01 {
		t.Errorf("attack start = %v, want near silent", first)
	}
	if mid < 0.5 {
		t.Errorf("sustain level = %v, want near full", mid)
	}
	if last > 0.05 {
		t.Errorf("release end = %v, want near silent", last)
	}
}

func TestCueSoundsTerminate(t *testing.T) {
	rate := beep.SampleRate(44100)
	cues := map[string]beep.Streamer{
		"release": CreateReleaseSound(rate),
		"receive": CreateReceiveSound(rate),
		"sync":    CreateSyncSound(rate),
	}
	for name, s := range cues {
		samples := drain(t, s)
		if len(samples) == 0 {
			t.Errorf("%s cue produced no samples", name)
		}
		// Two seconds is comfortably beyond the longest cue.
		if len(samples) > rate.N(2*time.Second) {
			t.Errorf("%s cue did not terminate: %d samples", name, len(samples))
		}
	}
}

func TestManagerSilentWithoutInit(t *testing.T) {
	m := NewManager()
	// Must not panic or block when the speaker was never opened.
	m.Release()
	m.Receive()
	m.Sync()
	m.Cleanup()
}
