package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-sampler/dsp/core"
	"github.com/cwbudde/algo-sampler/measure/peak"
)

var noteNames = [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func runPeak(args []string) error {
	fs := flag.NewFlagSet("peak", flag.ExitOnError)
	size := fs.Int("size", 65536, "analysis length in frames")
	channel := fs.Int("channel", 0, "channel to analyze")
	low := fs.Float64("low", 20, "lowest frequency to consider in Hz")
	high := fs.Float64("high", 20000, "highest frequency to consider in Hz")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sampler peak [flags] file ...\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	waves, err := loadFiles(ctx, fs.Args())
	if err != nil {
		return err
	}

	for _, w := range waves {
		if *channel < 0 || *channel >= w.Channels() {
			return fmt.Errorf("%s: channel %d out of range [0,%d)", w.Path(), *channel, w.Channels())
		}
		signal := w.Buffer().Channel(*channel, nil)
		if len(signal) > *size {
			signal = signal[:*size]
		}

		res, err := peak.Estimate(signal, float64(w.Rate()), peak.WithRange(*low, *high))
		if err != nil {
			return fmt.Errorf("%s: %w", w.Path(), err)
		}
		fmt.Printf("%s\t%.2f Hz\t%s\n", w.Path(), res.FrequencyHz, noteName(res.FrequencyHz))
	}
	return nil
}

// noteName returns the nearest equal-tempered note and the deviation in cents.
func noteName(freq float64) string {
	if freq <= 0 {
		return "-"
	}
	midi := 69 + core.RatioToSemitones(freq/440)
	nearest := math.Round(midi)
	cents := math.Round(100 * (midi - nearest))
	// Drop negative zero.
	if cents == 0 {
		cents = 0
	}
	n := int(nearest)
	return fmt.Sprintf("%s%d %+.0f cents", noteNames[((n%12)+12)%12], n/12-1, cents)
}
