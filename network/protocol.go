// Package network carries presence events between two peer totems over
// UDP. The protocol is deliberately minimal: a fixed header, a hello
// handshake, heartbeats, and the one payload that matters, a released
// seed and its energy.
package network

import (
	"encoding/binary"
	"errors"
	"math"
)

// MessageType identifies the semantic meaning of a message.
type MessageType uint8

const (
	MsgHello     MessageType = 0x01 // peer announcement with its ID
	MsgHeartbeat MessageType = 0x02 // keepalive
	MsgPresence  MessageType = 0x10 // released presence event
)

// Header precedes every message on the wire.
// Fixed 8 bytes: [Type:1][Flags:1][Seq:4][Len:2]
const HeaderSize = 8

// Header flags.
const (
	FlagNone uint8 = 0x00
)

// Message is one framed datagram.
type Message struct {
	Type    MessageType
	Flags   uint8
	Seq     uint32 // sender's sequence number
	Payload []byte
}

var (
	ErrShortMessage = errors.New("message shorter than header")
	ErrLengthField  = errors.New("length field disagrees with payload")
	ErrShortPayload = errors.New("payload too short for message type")
)

// Encode appends the framed message to dst and returns the result.
func (m *Message) Encode(dst []byte) ([]byte, error) {
	if len(m.Payload) > math.MaxUint16 {
		return nil, errors.New("payload exceeds maximum size")
	}
	var header [HeaderSize]byte
	header[0] = byte(m.Type)
	header[1] = m.Flags
	binary.BigEndian.PutUint32(header[2:6], m.Seq)
	binary.BigEndian.PutUint16(header[6:8], uint16(len(m.Payload)))

	dst = append(dst, header[:]...)
	dst = append(dst, m.Payload...)
	return dst, nil
}

// Decode parses one datagram.
func Decode(b []byte) (*Message, error) {
	if len(b) < HeaderSize {
		return nil, ErrShortMessage
	}
	payloadLen := int(binary.BigEndian.Uint16(b[6:8]))
	if len(b) != HeaderSize+payloadLen {
		return nil, ErrLengthField
	}

	m := &Message{
		Type:  MessageType(b[0]),
		Flags: b[1],
		Seq:   binary.BigEndian.Uint32(b[2:6]),
	}
	if payloadLen > 0 {
		m.Payload = make([]byte, payloadLen)
		copy(m.Payload, b[HeaderSize:])
	}
	return m, nil
}

// Presence payload: [Seed:4][Energy:2], energy as unsigned Q0.16
// fixed point. Six bytes per ritual event.
const presencePayloadSize = 6

// EncodePresence packs a presence event payload.
func EncodePresence(seed uint32, energy float64) []byte {
	if energy < 0 {
		energy = 0
	}
	if energy > 1 {
		energy = 1
	}
	p := make([]byte, presencePayloadSize)
	binary.BigEndian.PutUint32(p[0:4], seed)
	binary.BigEndian.PutUint16(p[4:6], uint16(energy*math.MaxUint16))
	return p
}

// DecodePresence unpacks a presence event payload.
func DecodePresence(p []byte) (seed uint32, energy float64, err error) {
	if len(p) < presencePayloadSize {
		return 0, 0, ErrShortPayload
	}
	seed = binary.BigEndian.Uint32(p[0:4])
	energy = float64(binary.BigEndian.Uint16(p[4:6])) / math.MaxUint16
	return seed, energy, nil
}
