// snapshot renders the totem offline and writes an upscaled PNG. It runs
// a scripted ritual so the captured frame shows the sigil mid-gesture
// rather than idle, useful for tuning shapes without a hand tracker.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/jerem-marti/presence-totem/engine"
	"github.com/jerem-marti/presence-totem/gesture"
	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/render"
	"github.com/jerem-marti/presence-totem/ritual"
	"github.com/jerem-marti/presence-totem/scene"
	"github.com/jerem-marti/presence-totem/vmath"
)

// chargeScript drives the hand through hover, charge, and release.
func chargeScript(ticks int) *gesture.Script {
	hover := gesture.Snapshot{Present: true, Center: vmath.Vec2{X: 0.5, Y: 0.5}, Speed: 0.1}
	pinch := hover
	pinch.Pinch = 0.9
	return gesture.NewScript([]gesture.Step{
		{Snapshot: hover, Ticks: ticks / 4},
		{Snapshot: pinch, Ticks: ticks},
	})
}

func capture(shape scene.Shape, seconds float64, noiseSeed int64) *render.Frame {
	const fps = 30
	dt := 1.0 / fps
	ticks := int(seconds * fps)

	st := scene.NewState()
	scars := scene.NewScarLog()
	clock := engine.NewMockClock(time.Unix(0, 0))
	machine := ritual.NewMachine(parameter.DefaultRitual(), st, clock, func() uint32 { return 0xC0FFEE })
	script := chargeScript(ticks)

	for i := 0; i < ticks; i++ {
		clock.Advance(time.Second / fps)
		st.Time += dt
		if ev, ok := machine.Update(script.Sample(), dt); ok {
			scars.Add(scene.Scar{Seed: ev.Seed, Energy: ev.Energy, MaxAge: parameter.DefaultRitual().ScarMaxAge})
		}
		machine.TakeRelease()
		scars.Age(dt)
	}

	frame := render.NewFrame(parameter.FrameWidth, parameter.FrameHeight)
	render.NewRenderer(scene.NewComposer(shape, noiseSeed)).Render(st, scars.Live(), frame)
	return frame
}

func upscale(f *render.Frame, scale int) *image.RGBA {
	src := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for i := 0; i < f.W*f.H; i++ {
		src.Pix[i*4] = f.Pix[i*3]
		src.Pix[i*4+1] = f.Pix[i*3+1]
		src.Pix[i*4+2] = f.Pix[i*3+2]
		src.Pix[i*4+3] = 0xFF
	}
	dst := image.NewRGBA(image.Rect(0, 0, f.W*scale, f.H*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func run() error {
	out := flag.String("o", "totem.png", "output PNG path")
	shapeName := flag.String("shape", "metaball", "base shape: metaball, torusorb, roundbox")
	seconds := flag.Float64("t", 4.0, "simulated seconds before the capture")
	scale := flag.Int("scale", 16, "output pixels per LED")
	noiseSeed := flag.Int64("noise-seed", 7, "seed for the domain warp noise field")
	flag.Parse()

	shape, err := scene.ParseShape(*shapeName)
	if err != nil {
		return err
	}

	frame := capture(shape, *seconds, *noiseSeed)
	img := upscale(frame, *scale)

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	slog.Info("snapshot written", "path", *out, "shape", shape, "t", *seconds)
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}
