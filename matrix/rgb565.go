// Package matrix delivers rendered frames to the physical 32x32 LED
// panel. The panel controller expects RGB565 pixels, high byte first,
// either over a serial line or as chunked UDP datagrams.
package matrix

import "github.com/jerem-marti/presence-totem/render"

// Pack565 converts one 8-bit RGB triple to RGB565.
func Pack565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// EncodeRGB565 flattens a frame to the panel's wire format: one uint16
// per pixel, row-major, high byte first. dst is reused when it has
// capacity.
func EncodeRGB565(f *render.Frame, dst []byte) []byte {
	n := f.W * f.H * 2
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	for i := 0; i < f.W*f.H; i++ {
		r := f.Pix[i*3]
		g := f.Pix[i*3+1]
		b := f.Pix[i*3+2]
		v := Pack565(r, g, b)
		dst[i*2] = byte(v >> 8)
		dst[i*2+1] = byte(v)
	}
	return dst
}
