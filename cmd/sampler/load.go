package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/cwbudde/algo-sampler/dsp/core"
	"github.com/cwbudde/algo-sampler/dsp/resample"
	"github.com/cwbudde/algo-sampler/dsp/sampler"
	"github.com/cwbudde/algo-sampler/dsp/wave"
)

var errNoFiles = errors.New("no input files")

// voiceFlags are the flags shared by render and play.
type voiceFlags struct {
	pitch     float64
	transpose float64
	quality   string
	begin     int
	end       int
	shift     int
	rate      int
	volume    float64
	normalize bool
}

func (v *voiceFlags) register(fs *flag.FlagSet) {
	fs.Float64Var(&v.pitch, "pitch", 1.0, fmt.Sprintf("pitch ratio in [%.1f, %.1f]", sampler.MinPitch, sampler.MaxPitch))
	fs.Float64Var(&v.transpose, "transpose", 0, "transposition in semitones, applied on top of -pitch")
	fs.StringVar(&v.quality, "quality", resample.QualitySincBest.String(), "resampler quality name or index (see 'sampler qualities')")
	fs.IntVar(&v.begin, "begin", 0, "begin frame")
	fs.IntVar(&v.end, "end", 0, "end frame (0 = end of wave)")
	fs.IntVar(&v.shift, "shift", 0, "start offset after begin, in frames")
	fs.IntVar(&v.rate, "rate", 44100, "engine sample rate; files are converted on load")
	fs.Float64Var(&v.volume, "volume", 1.0, "linear voice gain")
	fs.BoolVar(&v.normalize, "normalize", false, "normalize the wave peak to 0 dBFS")
}

// player loads path into the store and builds a voice around it.
func (v *voiceFlags) player(ctx context.Context, store *wave.Store, path string, stereo bool, mode sampler.Mode) (*sampler.Player, error) {
	q, err := resample.ParseQuality(v.quality)
	if err != nil {
		return nil, err
	}

	opts := []wave.LoadOption{wave.WithTargetRate(v.rate, q)}
	if stereo {
		opts = append(opts, wave.WithStereo())
	}
	waves, err := store.LoadAll(ctx, []string{path}, opts...)
	if err != nil {
		return nil, err
	}
	w, err := store.Acquire(waves[0].ID())
	if err != nil {
		return nil, err
	}
	if v.normalize {
		wave.Normalize(w)
	}

	p, err := sampler.NewPlayer(w.Channels(), sampler.WithQuality(q), sampler.WithMode(mode), sampler.WithPitch(v.ratio()), sampler.WithVolume(v.volume))
	if err != nil {
		return nil, err
	}
	if err := p.SetWave(w); err != nil {
		return nil, err
	}
	p.SetBegin(v.begin)
	p.SetEnd(v.end)
	p.SetShift(v.shift)
	return p, nil
}

// ratio folds -transpose into -pitch.
func (v *voiceFlags) ratio() float64 {
	return v.pitch * core.SemitonesToRatio(v.transpose)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func loadFiles(ctx context.Context, paths []string, opts ...wave.LoadOption) ([]*wave.Wave, error) {
	if len(paths) == 0 {
		return nil, errNoFiles
	}
	return wave.NewStore().LoadAll(ctx, paths, opts...)
}
