package saturation

import "time"

// SplittingMode selects how clauses entering the loop are split.
type SplittingMode uint8

const (
	// SplittingOff disables the splitter: clauses keep an unconditional
	// propositional part.
	SplittingOff SplittingMode = iota

	// SplittingOn routes every new clause through the splitter, naming
	// variable-disjoint components as fresh propositional variables.
	SplittingOn
)

// Options configures a saturation run.
type Options struct {
	// AgeWeightRatio is the number of weight-best picks between two
	// age-best picks when selecting the given clause.
	AgeWeightRatio int

	// Selection is the literal selection function number: 0 selects every
	// literal, 1 selects the maximal literals, 2 prefers a single negative
	// literal and falls back to the maximal ones.
	Selection int

	// Splitting selects the splitting mode.
	Splitting SplittingMode

	// TimeLimit is the soft time budget. Zero means no limit.
	TimeLimit time.Duration

	// MemoryLimitMB is the soft memory budget in megabytes. Zero means no
	// limit.
	MemoryLimitMB int

	// MaxClauseWeight discards clauses heavier than the limit when they
	// enter the loop, input clauses included. Zero means no limit; a
	// non-zero limit makes the strategy incomplete.
	MaxClauseWeight int
}

// DefaultOptions is the default saturation configuration.
var DefaultOptions = Options{
	AgeWeightRatio:  4,
	Selection:       0,
	Splitting:       SplittingOn,
	TimeLimit:       0,
	MemoryLimitMB:   0,
	MaxClauseWeight: 0,
}
