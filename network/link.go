package network

import (
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Link is the UDP presence channel to one remote peer. It never blocks the
// tick loop: sends are single datagrams, receives arrive on their own
// goroutine and are forwarded through the OnPresence callback (which the
// driver backs with a mailbox).
type Link struct {
	cfg *Config
	id  uuid.UUID

	conn *net.UDPConn
	peer *net.UDPAddr

	seq atomic.Uint32

	// OnPresence is invoked from the receive goroutine for every valid
	// presence event. Set before Start.
	OnPresence func(seed uint32, energy float64)

	mu       sync.Mutex
	lastSeen time.Time

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewLink creates a link with a fresh peer identity.
func NewLink(cfg *Config) *Link {
	return &Link{
		cfg:  cfg,
		id:   uuid.New(),
		stop: make(chan struct{}),
	}
}

// ID returns this totem's link identity.
func (l *Link) ID() uuid.UUID {
	return l.id
}

// Start binds the socket and begins the receive and heartbeat loops.
func (l *Link) Start() error {
	laddr, err := net.ResolveUDPAddr("udp", l.cfg.ListenAddr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return err
	}
	l.conn = conn

	if l.cfg.PeerAddr != "" {
		peer, err := net.ResolveUDPAddr("udp", l.cfg.PeerAddr)
		if err != nil {
			conn.Close()
			return err
		}
		l.peer = peer
	}

	l.wg.Add(1)
	go l.recvLoop()

	if l.peer != nil {
		l.sendHello()
		l.wg.Add(1)
		go l.heartbeatLoop()
	}

	slog.Info("presence link up", "id", l.id, "listen", l.cfg.ListenAddr, "peer", l.cfg.PeerAddr)
	return nil
}

// Stop tears the link down.
func (l *Link) Stop() {
	close(l.stop)
	if l.conn != nil {
		l.conn.Close()
	}
	l.wg.Wait()
}

// PeerAlive reports whether anything arrived within the peer timeout.
func (l *Link) PeerAlive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.lastSeen.IsZero() && time.Since(l.lastSeen) < l.cfg.PeerTimeout
}

// SendPresence transmits one released event to the peer. Fire and forget;
// a lost datagram loses one ritual event, which the installation accepts.
func (l *Link) SendPresence(seed uint32, energy float64) error {
	if l.peer == nil {
		return nil
	}
	return l.send(MsgPresence, EncodePresence(seed, energy))
}

func (l *Link) sendHello() {
	if err := l.send(MsgHello, l.id[:]); err != nil {
		slog.Warn("hello send failed", "err", err)
	}
}

func (l *Link) send(t MessageType, payload []byte) error {
	m := &Message{
		Type:    t,
		Flags:   FlagNone,
		Seq:     l.seq.Add(1),
		Payload: payload,
	}
	buf, err := m.Encode(nil)
	if err != nil {
		return err
	}
	_, err = l.conn.WriteToUDP(buf, l.peer)
	return err
}

func (l *Link) heartbeatLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(l.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			if err := l.send(MsgHeartbeat, nil); err != nil {
				slog.Debug("heartbeat failed", "err", err)
			}
		}
	}
}

func (l *Link) recvLoop() {
	defer l.wg.Done()
	buf := make([]byte, l.cfg.ReadBufferSize)

	for {
		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-l.stop:
				return
			default:
				slog.Debug("link read error", "err", err)
				continue
			}
		}

		m, err := Decode(buf[:n])
		if err != nil {
			// Malformed traffic is dropped, never fatal.
			slog.Debug("dropping malformed datagram", "from", from, "err", err)
			continue
		}

		l.mu.Lock()
		l.lastSeen = time.Now()
		l.mu.Unlock()

		switch m.Type {
		case MsgHello:
			slog.Info("peer hello", "from", from)
		case MsgHeartbeat:
			// Presence already tracked above.
		case MsgPresence:
			seed, energy, err := DecodePresence(m.Payload)
			if err != nil {
				slog.Debug("dropping short presence payload", "err", err)
				continue
			}
			if l.OnPresence != nil {
				l.OnPresence(seed, energy)
			}
		default:
			slog.Debug("ignoring unknown message type", "type", m.Type)
		}
	}
}
