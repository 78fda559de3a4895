// Presence totem: a raymarched sigil on a 32x32 LED matrix, driven by
// hand gestures and linked to one remote peer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jerem-marti/presence-totem/audio"
	"github.com/jerem-marti/presence-totem/engine"
	"github.com/jerem-marti/presence-totem/gesture"
	"github.com/jerem-marti/presence-totem/journal"
	"github.com/jerem-marti/presence-totem/matrix"
	"github.com/jerem-marti/presence-totem/network"
	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/preview"
	"github.com/jerem-marti/presence-totem/render"
	"github.com/jerem-marti/presence-totem/ritual"
	"github.com/jerem-marti/presence-totem/scene"
)

type options struct {
	shape       string
	fps         int
	noiseSeed   int64
	previewMode bool
	matrixAddr  string
	serialPort  string
	gestureAddr string
	listenAddr  string
	peerAddr    string
	journalPath string
	sound       bool
	verbose     bool
}

func parseFlags() *options {
	opt := &options{}
	flag.StringVar(&opt.shape, "shape", "metaball", "base shape: metaball, torusorb, roundbox")
	flag.IntVar(&opt.fps, "fps", 30, "target frames per second")
	flag.Int64Var(&opt.noiseSeed, "noise-seed", 7, "seed for the domain warp noise field")
	flag.BoolVar(&opt.previewMode, "preview", false, "mirror the matrix in the terminal")
	flag.StringVar(&opt.matrixAddr, "matrix-udp", "", "panel controller address, e.g. 192.168.4.1:44444")
	flag.StringVar(&opt.serialPort, "serial", "", "panel serial device, e.g. /dev/ttyUSB0")
	flag.StringVar(&opt.gestureAddr, "gesture", ":47474", "UDP address for gesture tracker input")
	flag.StringVar(&opt.listenAddr, "listen", ":46464", "UDP address for the peer link")
	flag.StringVar(&opt.peerAddr, "peer", "", "remote totem address; empty runs standalone")
	flag.StringVar(&opt.journalPath, "journal", "", "sqlite event journal path; empty disables")
	flag.BoolVar(&opt.sound, "sound", false, "play audio cues for ritual milestones")
	flag.BoolVar(&opt.verbose, "v", false, "debug logging")
	flag.Parse()
	return opt
}

func setupLogging(opt *options) {
	level := slog.LevelInfo
	if opt.verbose {
		level = slog.LevelDebug
	}
	var w io.Writer = os.Stderr
	if opt.previewMode {
		// The terminal belongs to the preview; logs would corrupt it.
		f, err := os.OpenFile("totem.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			w = f
		} else {
			w = io.Discard
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func run(opt *options) error {
	shape, err := scene.ParseShape(opt.shape)
	if err != nil {
		return err
	}

	st := scene.NewState()
	scars := scene.NewScarLog()
	composer := scene.NewComposer(shape, opt.noiseSeed)
	renderer := render.NewRenderer(composer)
	clock := engine.MonotonicClock{}
	machine := ritual.NewMachine(parameter.DefaultRitual(), st, clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gesture input
	var provider gesture.Provider = gesture.None{}
	if opt.gestureAddr != "" {
		udp, err := gesture.ListenUDP(opt.gestureAddr, 500*time.Millisecond)
		if err != nil {
			return fmt.Errorf("gesture listener: %w", err)
		}
		defer udp.Close()
		provider = udp
	}

	// Frame sinks
	var sinks []engine.FrameSink
	if opt.matrixAddr != "" {
		sink, err := matrix.DialUDPSink(opt.matrixAddr)
		if err != nil {
			return err
		}
		defer sink.Close()
		sinks = append(sinks, sink)
	}
	if opt.serialPort != "" {
		port, err := os.OpenFile(opt.serialPort, os.O_RDWR, 0)
		if err != nil {
			return fmt.Errorf("open serial port: %w", err)
		}
		defer port.Close()
		sinks = append(sinks, matrix.NewSerialSink(port))
	}
	if opt.previewMode {
		screen, err := preview.New(cancel)
		if err != nil {
			return fmt.Errorf("terminal preview: %w", err)
		}
		defer screen.Close()
		sinks = append(sinks, screen)
	}
	if len(sinks) == 0 {
		return fmt.Errorf("no output configured; pass -preview, -matrix-udp, or -serial")
	}

	driverOpt := engine.Options{}

	// Event journal
	if opt.journalPath != "" {
		j, err := journal.Open(opt.journalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		driverOpt.Recorder = j
	}

	// Audio cues
	if opt.sound {
		mgr := audio.NewManager()
		mgr.TryInitialize()
		defer mgr.Cleanup()
		driverOpt.Cue = mgr
	}

	// Peer link
	var link *network.Link
	if opt.listenAddr != "" {
		linkCfg := network.DefaultConfig()
		linkCfg.ListenAddr = opt.listenAddr
		linkCfg.PeerAddr = opt.peerAddr
		link = network.NewLink(linkCfg)
		if opt.peerAddr != "" {
			driverOpt.Sender = link
		}
	}

	driver := engine.NewDriver(clock, provider, machine, st, scars, renderer, sinks, driverOpt)

	if link != nil {
		link.OnPresence = driver.EnqueueRemote
		if err := link.Start(); err != nil {
			return fmt.Errorf("peer link: %w", err)
		}
		defer link.Stop()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		slog.Info("shutting down")
		cancel()
	}()

	slog.Info("totem running", "shape", shape, "fps", opt.fps, "peer", opt.peerAddr)
	driver.Run(ctx, time.Second/time.Duration(opt.fps))
	return nil
}

func main() {
	opt := parseFlags()
	setupLogging(opt)

	if err := run(opt); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}
