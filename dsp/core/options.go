package core

// ProcessorConfig defines the block-processing settings of an engine.
type ProcessorConfig struct {
	SampleRate int
	BlockSize  int
	Channels   int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns stereo, 44.1 kHz, 512-frame blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 44100,
		BlockSize:  512,
		Channels:   2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size in frames.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the output channel count.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
