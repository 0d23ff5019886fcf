// Package dither converts float samples to integer PCM codes with optional
// dither noise.
package dither

import "fmt"

// Type selects the probability distribution of the dither noise.
type Type int

const (
	// None rounds without added noise.
	None Type = iota
	// Rectangular adds uniform noise of one LSB peak-to-peak.
	Rectangular
	// Triangular adds TPDF noise, the sum of two uniform draws.
	Triangular

	typeCount
)

var typeNames = [typeCount]string{"none", "rpdf", "tpdf"}

// String returns the short name of the dither type.
func (t Type) String() string {
	if t >= 0 && t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known dither type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// ParseType accepts the names returned by [Type.String].
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if s == name {
			return Type(i), nil
		}
	}
	return None, fmt.Errorf("dither: unknown type %q", s)
}
