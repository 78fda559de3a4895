// ledview simulates the LED panel controller on a desktop. It listens for
// the same chunked RGB565 datagrams the real panel receives and shows
// them in a window, so the totem can be developed without hardware.
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jerem-marti/presence-totem/matrix"
	"github.com/jerem-marti/presence-totem/parameter"
)

type viewer struct {
	mu    sync.Mutex
	pix   []byte // RGBA, written by the receive goroutine
	dirty bool

	img   *image.RGBA
	fbImg *ebiten.Image
}

func newViewer() *viewer {
	w, h := parameter.FrameWidth, parameter.FrameHeight
	return &viewer{
		pix: make([]byte, w*h*4),
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// accept converts one reassembled RGB565 payload into the RGBA buffer.
func (v *viewer) accept(payload []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n := len(payload) / 2
	if n*4 > len(v.pix) {
		n = len(v.pix) / 4
	}
	for i := 0; i < n; i++ {
		c := uint16(payload[i*2])<<8 | uint16(payload[i*2+1])
		r := uint8(c>>11) << 3
		g := uint8(c>>5&0x3F) << 2
		b := uint8(c&0x1F) << 3
		// Replicate high bits so full intensity reaches 255.
		v.pix[i*4] = r | r>>5
		v.pix[i*4+1] = g | g>>6
		v.pix[i*4+2] = b | b>>5
		v.pix[i*4+3] = 0xFF
	}
	v.dirty = true
}

func (v *viewer) Update() error {
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	v.mu.Lock()
	if v.dirty {
		copy(v.img.Pix, v.pix)
		v.dirty = false
	}
	v.mu.Unlock()

	if v.fbImg == nil {
		v.fbImg = ebiten.NewImage(parameter.FrameWidth, parameter.FrameHeight)
	}
	v.fbImg.WritePixels(v.img.Pix)
	screen.DrawImage(v.fbImg, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return parameter.FrameWidth, parameter.FrameHeight
}

func listen(addr string, v *viewer) error {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return err
	}

	go func() {
		defer conn.Close()
		var asm matrix.Assembler
		buf := make([]byte, 2048)
		for {
			n, _, err := conn.ReadFromUDP(buf)
			if err != nil {
				slog.Error("panel listener stopped", "err", err)
				return
			}
			frame, err := asm.Feed(buf[:n])
			if err != nil {
				slog.Debug("dropping bad chunk", "err", err)
				continue
			}
			if frame != nil {
				v.accept(frame)
			}
		}
	}()
	return nil
}

func main() {
	addr := flag.String("listen", fmt.Sprintf(":%d", matrix.DefaultPanelPort), "UDP address for panel frames")
	scale := flag.Int("scale", 16, "window pixels per LED")
	flag.Parse()

	v := newViewer()
	if err := listen(*addr, v); err != nil {
		slog.Error("listen failed", "addr", *addr, "err", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("presence totem panel")
	ebiten.SetWindowSize(parameter.FrameWidth**scale, parameter.FrameHeight**scale)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(v); err != nil {
		slog.Error("viewer exited", "err", err)
		os.Exit(1)
	}
}
