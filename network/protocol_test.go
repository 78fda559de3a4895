package network

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	orig := &Message{
		Type:    MsgPresence,
		Flags:   FlagNone,
		Seq:     42,
		Payload: EncodePresence(0xDEADBEEF, 0.75),
	}

	buf, err := orig.Encode(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(buf) != HeaderSize+6 {
		t.Fatalf("encoded length = %d, want %d", len(buf), HeaderSize+6)
	}

	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != orig.Type || got.Flags != orig.Flags || got.Seq != orig.Seq {
		t.Errorf("header mismatch: got %+v want %+v", got, orig)
	}
	if !bytes.Equal(got.Payload, orig.Payload) {
		t.Errorf("payload mismatch: got %x want %x", got.Payload, orig.Payload)
	}
}

func TestMessageEmptyPayload(t *testing.T) {
	buf, err := (&Message{Type: MsgHeartbeat, Seq: 1}).Encode(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != MsgHeartbeat || len(got.Payload) != 0 {
		t.Errorf("got type %v payload len %d", got.Type, len(got.Payload))
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		b    []byte
		want error
	}{
		{"empty", nil, ErrShortMessage},
		{"truncated header", make([]byte, HeaderSize-1), ErrShortMessage},
		{"length lies long", []byte{0x10, 0, 0, 0, 0, 1, 0, 9, 1, 2}, ErrLengthField},
		{"length lies short", []byte{0x10, 0, 0, 0, 0, 1, 0, 0, 1, 2}, ErrLengthField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.b); !errors.Is(err, tc.want) {
				t.Errorf("Decode() err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPresenceRoundTrip(t *testing.T) {
	for _, energy := range []float64{0, 0.25, 0.6, 1} {
		p := EncodePresence(314159, energy)
		seed, got, err := DecodePresence(p)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if seed != 314159 {
			t.Errorf("seed = %d, want 314159", seed)
		}
		if math.Abs(got-energy) > 1.0/65536 {
			t.Errorf("energy = %v, want %v within one quantum", got, energy)
		}
	}
}

func TestPresenceClampsEnergy(t *testing.T) {
	_, lo, _ := DecodePresence(EncodePresence(1, -3))
	_, hi, _ := DecodePresence(EncodePresence(1, 7))
	if lo != 0 {
		t.Errorf("negative energy decoded as %v, want 0", lo)
	}
	if hi != 1 {
		t.Errorf("oversized energy decoded as %v, want 1", hi)
	}
}

func TestDecodePresenceShort(t *testing.T) {
	if _, _, err := DecodePresence([]byte{1, 2, 3}); !errors.Is(err, ErrShortPayload) {
		t.Errorf("err = %v, want ErrShortPayload", err)
	}
}
