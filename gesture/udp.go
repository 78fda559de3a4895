package gesture

import (
	"encoding/json"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/jerem-marti/presence-totem/vmath"
)

// wireSnapshot is the datagram format the hand tracker sends, one small
// JSON object per tracking frame.
type wireSnapshot struct {
	Present bool    `json:"present"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Speed   float64 `json:"speed"`
	Pinch   float64 `json:"pinch"`
}

// UDPProvider receives gesture snapshots over UDP from the tracking
// collaborator. Sample returns the latest snapshot; if none arrived within
// the staleness window, the hand reads as absent. Malformed datagrams are
// dropped, never surfaced as errors.
type UDPProvider struct {
	conn  *net.UDPConn
	stale time.Duration

	mu     sync.Mutex
	latest Snapshot
	seenAt time.Time

	done chan struct{}
}

// ListenUDP binds the gesture port and starts the receive loop.
func ListenUDP(addr string, stale time.Duration) (*UDPProvider, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}

	p := &UDPProvider{
		conn:  conn,
		stale: stale,
		done:  make(chan struct{}),
	}
	go p.recvLoop()
	return p, nil
}

func (p *UDPProvider) recvLoop() {
	buf := make([]byte, 512)
	for {
		n, _, err := p.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-p.done:
				return
			default:
				slog.Debug("gesture recv error", "err", err)
				continue
			}
		}

		var w wireSnapshot
		if err := json.Unmarshal(buf[:n], &w); err != nil {
			continue
		}

		p.mu.Lock()
		p.latest = Snapshot{
			Present: w.Present,
			Center: vmath.Vec2{
				X: vmath.Clamp01(w.X),
				Y: vmath.Clamp01(w.Y),
			},
			Speed: vmath.Clamp01(w.Speed),
			Pinch: vmath.Clamp01(w.Pinch),
		}
		p.seenAt = time.Now()
		p.mu.Unlock()
	}
}

// Sample returns the most recent snapshot, degrading to absent when the
// tracker goes quiet.
func (p *UDPProvider) Sample() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.seenAt) > p.stale {
		return Snapshot{}
	}
	return p.latest
}

// Close stops the receive loop and releases the socket.
func (p *UDPProvider) Close() error {
	close(p.done)
	return p.conn.Close()
}
