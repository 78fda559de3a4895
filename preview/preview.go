// Package preview mirrors the LED matrix in a terminal. Each character
// cell shows two vertically stacked pixels using the upper half block,
// so a 32x32 frame occupies 32x16 cells.
package preview

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/jerem-marti/presence-totem/render"
)

// Screen is a terminal mirror of the panel. It satisfies the frame sink
// used by the engine driver.
type Screen struct {
	mu     sync.Mutex
	screen tcell.Screen
	onQuit func()
	done   chan struct{}
}

// New initializes the terminal. onQuit is invoked once when the operator
// presses Escape, q, or Ctrl-C.
func New(onQuit func()) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()

	s := &Screen{
		screen: screen,
		onQuit: onQuit,
		done:   make(chan struct{}),
	}
	go s.eventLoop()
	return s, nil
}

func (s *Screen) eventLoop() {
	var once sync.Once
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			quit := ev.Key() == tcell.KeyEscape ||
				ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q')
			if quit && s.onQuit != nil {
				once.Do(s.onQuit)
			}
		case *tcell.EventResize:
			s.mu.Lock()
			s.screen.Sync()
			s.mu.Unlock()
		}
		select {
		case <-s.done:
			return
		default:
		}
	}
}

// Push draws one frame. Two frame rows share one terminal row, upper
// pixel as foreground of the half block and lower pixel as background.
func (s *Screen) Push(f *render.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for y := 0; y < f.H; y += 2 {
		for x := 0; x < f.W; x++ {
			tr, tg, tb := f.At(x, y)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(tr), int32(tg), int32(tb)))
			if y+1 < f.H {
				br, bg, bb := f.At(x, y+1)
				style = style.Background(tcell.NewRGBColor(int32(br), int32(bg), int32(bb)))
			}
			s.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
	s.screen.Show()
	return nil
}

// Close restores the terminal.
func (s *Screen) Close() {
	close(s.done)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Fini()
}
