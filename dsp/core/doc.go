// Package core holds small numeric and slice helpers shared by the sampler
// packages, plus the block-processing configuration used by players and
// mixers.
package core
