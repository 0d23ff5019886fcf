package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-sampler/dsp/resample"
)

var allQualities = []resample.Quality{
	resample.QualitySincBest,
	resample.QualitySincMedium,
	resample.QualitySincFastest,
	resample.QualityZeroOrderHold,
	resample.QualityLinear,
	resample.QualityCubic,
}

func runQualities(args []string) error {
	fs := flag.NewFlagSet("qualities", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Index\tName\tLatency [frames]\tLoad converter\tTaps/phase\n")
	fmt.Fprintf(tw, "-----\t----\t----------------\t--------------\t----------\n")
	for _, q := range allQualities {
		rs, err := resample.New(1, resample.WithQuality(q))
		if err != nil {
			return err
		}
		profile := resample.ConverterProfile(q.ConverterQuality())
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\n", int(q), q, rs.Latency(), q.ConverterQuality(), profile.TapsPerPhase)
	}
	return tw.Flush()
}
