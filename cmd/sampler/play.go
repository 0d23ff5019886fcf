package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/core"
	"github.com/cwbudde/algo-sampler/dsp/sampler"
	"github.com/cwbudde/algo-sampler/dsp/wave"
	"github.com/ebitengine/oto/v3"
	"golang.org/x/sync/errgroup"
)

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	var v voiceFlags
	v.register(fs)
	loop := fs.Bool("loop", false, "loop between begin and end until interrupted")
	block := fs.Int("block", 512, "block size in frames")
	latency := fs.Duration("latency", 100*time.Millisecond, "length of the render-ahead ring")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sampler play [flags] file\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("play takes exactly one input file")
	}

	ctx, cancel := signalContext()
	defer cancel()

	mode := sampler.ModeSingle
	if *loop {
		mode = sampler.ModeLoop
	}
	p, err := v.player(ctx, wave.NewStore(), fs.Arg(0), true, mode)
	if err != nil {
		return err
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(v.rate),
		core.WithBlockSize(*block),
		core.WithChannels(2),
	)
	m := sampler.NewMixer(core.WithBlockSize(cfg.BlockSize), core.WithChannels(cfg.Channels))
	if err := m.Add(p); err != nil {
		return err
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	blockBytes := 4 * cfg.BlockSize * cfg.Channels
	ringBytes := int(latency.Seconds()*float64(cfg.SampleRate)) * 4 * cfg.Channels
	stream := newRingStream(max(ringBytes, 2*blockBytes))

	p.Start()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return stream.pump(gctx, m, buffer.New(cfg.BlockSize, cfg.Channels))
	})

	out := otoCtx.NewPlayer(stream)
	out.Play()
	log.Printf("playing %s at pitch %.3f (%s)", fs.Arg(0), p.Pitch(), p.Mode())

	g.Go(func() error {
		for out.IsPlaying() {
			select {
			case <-gctx.Done():
				return nil
			case <-time.After(20 * time.Millisecond):
			}
		}
		return nil
	})

	err = g.Wait()
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if n := stream.underruns.Load(); n > 0 {
		log.Printf("%d buffer underruns", n)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
