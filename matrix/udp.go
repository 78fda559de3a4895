package matrix

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/jerem-marti/presence-totem/render"
)

// DefaultPanelPort is the port the panel controller listens on.
const DefaultPanelPort = 44444

// chunkDataSize keeps every datagram comfortably under one MTU.
const chunkDataSize = 1024

// chunkHeaderSize is [chunkIndex:1][totalChunks:1].
const chunkHeaderSize = 2

// UDPSink sends frames to the panel controller as chunked datagrams.
// Each chunk carries its index and the total count so the controller can
// rebuild the frame regardless of arrival order.
type UDPSink struct {
	mu   sync.Mutex
	conn net.Conn
	buf  []byte
}

// DialUDPSink connects to the panel controller at addr, e.g.
// "192.168.4.1:44444".
func DialUDPSink(addr string) (*UDPSink, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial panel: %w", err)
	}
	return &UDPSink{conn: conn}, nil
}

// Push chunks and sends one frame.
func (s *UDPSink) Push(f *render.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = EncodeRGB565(f, s.buf)
	total := (len(s.buf) + chunkDataSize - 1) / chunkDataSize

	var pkt [chunkHeaderSize + chunkDataSize]byte
	for i := 0; i < total; i++ {
		start := i * chunkDataSize
		end := min(start+chunkDataSize, len(s.buf))

		pkt[0] = byte(i)
		pkt[1] = byte(total)
		n := copy(pkt[chunkHeaderSize:], s.buf[start:end])
		if _, err := s.conn.Write(pkt[:chunkHeaderSize+n]); err != nil {
			return fmt.Errorf("send chunk %d/%d: %w", i, total, err)
		}
	}
	return nil
}

// Close releases the socket.
func (s *UDPSink) Close() error {
	return s.conn.Close()
}

var (
	ErrChunkTooShort = errors.New("chunk shorter than header")
	ErrChunkIndex    = errors.New("chunk index out of range")
)

// Assembler rebuilds frames from chunked datagrams. It is the receive
// half of UDPSink, used by the panel simulator.
type Assembler struct {
	total int
	seen  []bool
	data  []byte
}

// Feed consumes one datagram. It returns the complete frame payload when
// the final missing chunk arrives, nil otherwise. A chunk with a new
// totalChunks value restarts assembly.
func (a *Assembler) Feed(pkt []byte) ([]byte, error) {
	if len(pkt) < chunkHeaderSize {
		return nil, ErrChunkTooShort
	}
	idx := int(pkt[0])
	total := int(pkt[1])
	if total == 0 || idx >= total {
		return nil, ErrChunkIndex
	}

	if total != a.total {
		a.total = total
		a.seen = make([]bool, total)
		a.data = make([]byte, 0, total*chunkDataSize)
	}

	off := idx * chunkDataSize
	need := off + len(pkt) - chunkHeaderSize
	if need > len(a.data) {
		a.data = append(a.data, make([]byte, need-len(a.data))...)
	}
	copy(a.data[off:], pkt[chunkHeaderSize:])
	a.seen[idx] = true

	for _, ok := range a.seen {
		if !ok {
			return nil, nil
		}
	}

	out := a.data
	a.total = 0
	a.seen = nil
	a.data = nil
	return out, nil
}
