package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/resample"
)

func ExampleResampler_Process() {
	in := buffer.New(1000, 2)
	out := buffer.New(256, 2)

	r, _ := resample.New(2, resample.WithQuality(resample.QualityLinear))
	first := r.Process(in, 0, 1000, out, 0, 128, 2.0)
	second := r.Process(in, first.Used, 1000-first.Used, out, 128, 128, 2.0)

	fmt.Printf("used=%d generated=%d\n", first.Used+second.Used, first.Generated+second.Generated)
	// Output:
	// used=512 generated=256
}

func ExampleNewForRates() {
	c, _ := resample.NewForRates(44100, 48000, resample.WithConverterQuality(resample.ConverterBest))
	up, down := c.Ratio()
	fmt.Printf("ratio=%d/%d\n", up, down)
	// Output:
	// ratio=160/147
}
