package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/core"
	"github.com/cwbudde/algo-sampler/dsp/dither"
	"github.com/cwbudde/algo-sampler/dsp/sampler"
	"github.com/cwbudde/algo-sampler/dsp/wave"
	"golang.org/x/term"
)

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var v voiceFlags
	v.register(fs)
	loops := fs.Int("loops", 1, "passes over [begin, end); more than 1 loops the voice")
	block := fs.Int("block", 512, "block size in frames")
	bits := fs.Int("bits", 24, "output bit depth (16, 24 or 32)")
	outPath := fs.String("o", "out.wav", "output WAV file")
	ditherName := fs.String("dither", dither.Triangular.String(), "dither type: none, rpdf or tpdf")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sampler render [flags] file\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("render takes exactly one input file")
	}

	ditherType, err := dither.ParseType(*ditherName)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	mode := sampler.ModeSingle
	if *loops > 1 {
		mode = sampler.ModeLoop
	}
	p, err := v.player(ctx, wave.NewStore(), fs.Arg(0), false, mode)
	if err != nil {
		return err
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(v.rate),
		core.WithBlockSize(*block),
		core.WithChannels(p.Wave().Channels()),
	)
	out, err := renderVoice(ctx, p, cfg, max(1, *loops), newProgress())
	if err != nil {
		return err
	}

	w, err := wave.New(cfg.SampleRate, out, wave.WithPath(*outPath))
	if err != nil {
		return err
	}
	if err := wave.Save(*outPath, w, cfg.SampleRate, *bits, wave.WithDither(ditherType)); err != nil {
		return err
	}
	log.Printf("wrote %s: %d frames, %s", *outPath, w.FrameCount(), w.Duration().Round(1e6))
	return nil
}

// renderVoice starts p and mixes it block by block until the expected
// number of frames has been produced or the voice stops.
func renderVoice(ctx context.Context, p *sampler.Player, cfg core.ProcessorConfig, loops int, progress func(done, total int)) (*buffer.Audio, error) {
	m := sampler.NewMixer(core.WithBlockSize(cfg.BlockSize), core.WithChannels(cfg.Channels))
	if err := m.Add(p); err != nil {
		return nil, err
	}

	p.Start()
	begin, end := p.Bounds()
	span := end - p.Tracker() + (loops-1)*(end-begin)
	total := int(math.Ceil(float64(span) / p.Pitch()))
	if total <= 0 {
		return nil, errors.New("nothing to render: empty begin/end range")
	}

	out := buffer.New(total, cfg.Channels)
	block := buffer.New(cfg.BlockSize, cfg.Channels)
	done := 0
	for done < total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.Render(block)
		n := min(cfg.BlockSize, total-done)
		out.Set(block, n, 0, done)
		done += n
		if progress != nil {
			progress(done, total)
		}
		if !p.Playing() {
			break
		}
	}
	return out, nil
}

// newProgress returns a progress bar printer sized to the terminal, or nil
// when stderr is not a terminal.
func newProgress() func(done, total int) {
	fd := int(os.Stderr.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func(done, total int) {
		width, _, err := term.GetSize(fd)
		if err != nil {
			width = 80
		}
		fmt.Fprint(os.Stderr, progressLine(done, total, width))
		if done >= total {
			fmt.Fprintln(os.Stderr)
		}
	}
}

func progressLine(done, total, width int) string {
	bar := max(10, width-10)
	filled := bar * done / total
	return fmt.Sprintf("\r[%s%s] %3d%%",
		strings.Repeat("#", filled), strings.Repeat(" ", bar-filled), 100*done/total)
}
