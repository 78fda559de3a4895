// Package audio plays short synthesized cues for ritual milestones.
// Speaker hardware is optional on the installation machine, so every
// entry point degrades to silence when initialization fails.
package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Manager owns the speaker and mixes cue sounds into it.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewManager creates an uninitialized manager.
func NewManager() *Manager {
	return &Manager{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker. Failure leaves the manager silent but
// usable.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Cleanup silences everything. beep has no speaker close, so clearing
// the mixer is the shutdown.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	m.initialized = false
}

func (m *Manager) play(s beep.Streamer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// Release plays the outgoing presence cue.
func (m *Manager) Release() {
	m.play(CreateReleaseSound(sampleRate))
}

// Receive plays the incoming presence cue.
func (m *Manager) Receive() {
	m.play(CreateReceiveSound(sampleRate))
}

// Sync plays the synchronicity chord.
func (m *Manager) Sync() {
	m.play(CreateSyncSound(sampleRate))
}

// TryInitialize initializes and logs rather than failing. The totem runs
// fine without sound.
func (m *Manager) TryInitialize() {
	if err := m.Initialize(); err != nil {
		slog.Warn("audio unavailable, continuing silent", "err", err)
	}
}
