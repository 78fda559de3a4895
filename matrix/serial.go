package matrix

import (
	"fmt"
	"io"
	"sync"

	"github.com/jerem-marti/presence-totem/render"
)

// frameMarker prefixes every serial frame so the panel controller can
// resynchronize after a dropped byte.
const frameMarker = '*'

// SerialSink streams frames to the panel controller over a byte stream,
// typically a USB serial port at 921600 baud. Each frame is the marker
// byte followed by the full RGB565 payload.
type SerialSink struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

// NewSerialSink wraps an already-open port.
func NewSerialSink(w io.Writer) *SerialSink {
	return &SerialSink{w: w}
}

// Push writes one frame.
func (s *SerialSink) Push(f *render.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = EncodeRGB565(f, s.buf)
	if _, err := s.w.Write([]byte{frameMarker}); err != nil {
		return fmt.Errorf("write frame marker: %w", err)
	}
	if _, err := s.w.Write(s.buf); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}
