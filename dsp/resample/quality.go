package resample

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality selects the interpolation algorithm of a pitch [Resampler].
// The numeric values match the resample-quality index stored in engine
// configuration files.
type Quality int

const (
	// QualitySincBest is a 64-tap Kaiser-windowed sinc.
	QualitySincBest Quality = iota
	// QualitySincMedium is a 32-tap Kaiser-windowed sinc.
	QualitySincMedium
	// QualitySincFastest is a 16-tap Kaiser-windowed sinc.
	QualitySincFastest
	// QualityZeroOrderHold repeats the nearest earlier frame.
	QualityZeroOrderHold
	// QualityLinear interpolates between two neighbouring frames.
	QualityLinear
	// QualityCubic is 4-point cubic Hermite interpolation.
	QualityCubic
)

var qualityNames = [...]string{
	QualitySincBest:      "sinc-best",
	QualitySincMedium:    "sinc-medium",
	QualitySincFastest:   "sinc-fastest",
	QualityZeroOrderHold: "zero-order-hold",
	QualityLinear:        "linear",
	QualityCubic:         "cubic",
}

// String returns the configuration name of q.
func (q Quality) String() string {
	if q.Valid() {
		return qualityNames[q]
	}
	return "Quality(" + strconv.Itoa(int(q)) + ")"
}

// Valid reports whether q names a known algorithm.
func (q Quality) Valid() bool {
	return q >= QualitySincBest && q <= QualityCubic
}

// ParseQuality accepts either a quality name or its numeric index.
func ParseQuality(s string) (Quality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		q := Quality(n)
		if !q.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidQuality, n)
		}
		return q, nil
	}
	for i, name := range qualityNames {
		if name == s {
			return Quality(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidQuality, s)
}

// ConverterQuality returns the load-time conversion profile that pairs
// with pitch quality q.
func (q Quality) ConverterQuality() ConverterQuality {
	switch q {
	case QualitySincBest:
		return ConverterBest
	case QualitySincMedium:
		return ConverterBalanced
	default:
		return ConverterFast
	}
}

// reach returns how many frames at or before the read position (left) and
// after it (right) the algorithm needs.
func (q Quality) reach() (left, right int) {
	switch q {
	case QualitySincBest:
		return 32, 32
	case QualitySincMedium:
		return 16, 16
	case QualitySincFastest:
		return 8, 8
	case QualityZeroOrderHold:
		return 1, 0
	case QualityLinear:
		return 1, 1
	default:
		return 2, 2
	}
}

func (q Quality) isSinc() bool {
	return q == QualitySincBest || q == QualitySincMedium || q == QualitySincFastest
}
