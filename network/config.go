package network

import "time"

// Config holds the presence link configuration.
type Config struct {
	// ListenAddr is the local UDP bind address.
	ListenAddr string

	// PeerAddr is the remote totem. Empty disables the link.
	PeerAddr string

	// HeartbeatInterval paces keepalives toward the peer.
	HeartbeatInterval time.Duration

	// PeerTimeout marks the peer offline when nothing arrives for this
	// long. Informational only; presence events are accepted regardless.
	PeerTimeout time.Duration

	// ReadBufferSize sizes the receive buffer. Presence datagrams are
	// tiny; this only needs headroom for malformed traffic.
	ReadBufferSize int
}

// DefaultConfig returns production-safe defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":46464",
		PeerAddr:          "",
		HeartbeatInterval: 5 * time.Second,
		PeerTimeout:       20 * time.Second,
		ReadBufferSize:    512,
	}
}
