package render

import (
	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/scene"
	"github.com/jerem-marti/presence-totem/vmath"
)

// Frame is a width×height RGB pixel buffer, 3 bytes per pixel, row major.
type Frame struct {
	W, H int
	Pix  []byte
}

// NewFrame allocates a zeroed frame.
func NewFrame(w, h int) *Frame {
	return &Frame{W: w, H: h, Pix: make([]byte, w*h*3)}
}

// Set writes one pixel.
func (f *Frame) Set(x, y int, r, g, b byte) {
	i := (y*f.W + x) * 3
	f.Pix[i] = r
	f.Pix[i+1] = g
	f.Pix[i+2] = b
}

// At reads one pixel.
func (f *Frame) At(x, y int) (r, g, b byte) {
	i := (y*f.W + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// CopyInto clones the pixel data into dst, reallocating if needed.
func (f *Frame) CopyInto(dst *Frame) {
	dst.W, dst.H = f.W, f.H
	if len(dst.Pix) != len(f.Pix) {
		dst.Pix = make([]byte, len(f.Pix))
	}
	copy(dst.Pix, f.Pix)
}

// Renderer drives the full pixel loop for one scene composer.
type Renderer struct {
	composer *scene.Composer
	shader   Shader
}

// NewRenderer builds a renderer over the given composer.
func NewRenderer(c *scene.Composer) *Renderer {
	return &Renderer{composer: c, shader: NewShader()}
}

// Render traces every pixel of f for the given state and scars. Pure with
// respect to st and scars; only f is written.
func (r *Renderer) Render(st *scene.State, scars []scene.Scar, f *Frame) {
	cam := NewCamera(st.Time * st.RotSpeed * parameter.CameraOrbitRate)
	fn := func(p vmath.Vec3) float64 {
		return r.composer.Distance(p, st, scars)
	}

	invW := 1.0 / float64(f.W)
	invH := 1.0 / float64(f.H)
	ditherAmp := st.DitherAmount * 0.12

	for y := 0; y < f.H; y++ {
		v := 1 - 2*(float64(y)+0.5)*invH
		for x := 0; x < f.W; x++ {
			u := 2*(float64(x)+0.5)*invW - 1

			dir := cam.RayDir(u, v)
			hit := March(cam.Origin, dir, fn)
			col := r.shader.Shade(hit, cam.Origin, dir, st, scars, (float64(y)+0.5)*invH)

			d := DitherOffset(x, y, ditherAmp)
			f.Set(x, y,
				quantize(col.X+d),
				quantize(col.Y+d),
				quantize(col.Z+d),
			)
		}
	}
}

// quantize converts a linear [0,1] channel to a byte, saturating.
func quantize(c float64) byte {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return byte(c*255 + 0.5)
}
