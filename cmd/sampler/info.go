package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-sampler/dsp/wave"
)

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sampler info file ...\n")
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
	return printInfo(os.Stdout, waves)
}

func printInfo(out io.Writer, waves []*wave.Wave) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\tFrames\tChannels\tRate\tBits\tDuration\tPeak [dBFS]\tID\n")
	fmt.Fprintf(tw, "----\t------\t--------\t----\t----\t--------\t-----------\t--\n")
	for _, w := range waves {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
			w.Path(),
			w.FrameCount(),
			w.Channels(),
			w.Rate(),
			w.BitDepth(),
			w.Duration().Round(1e6),
			formatDB(wave.Peak(w)),
			w.ID(),
		)
	}
	return tw.Flush()
}

func formatDB(linear float64) string {
	if linear <= 0 {
		return "-inf"
	}
	return fmt.Sprintf("%.2f", 20*math.Log10(linear))
}
