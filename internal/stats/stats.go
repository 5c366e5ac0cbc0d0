// Package stats collects the proof-search statistics: flat counters for the
// input, generating, simplifying, and deletion inferences, the splitting and
// SAT interactions, the current execution phase, and the termination reason.
// The output format is stable so automation can scrape it.
package stats

import (
	"fmt"
	"io"
)

// TerminationReason tells how a proving run ended.
type TerminationReason uint8

const (
	Unknown TerminationReason = iota
	Refutation
	Satisfiable
	RefutationNotFound
	TimeLimit
	MemoryLimit
)

func (r TerminationReason) String() string {
	switch r {
	case Refutation:
		return "refutation"
	case Satisfiable:
		return "satisfiable"
	case RefutationNotFound:
		return "refutation not found"
	case TimeLimit:
		return "time limit"
	case MemoryLimit:
		return "memory limit"
	}
	return "unknown"
}

// Phase is the coarse execution phase of the prover.
type Phase uint8

const (
	Initialization Phase = iota
	Parsing
	Preprocessing
	Clausification
	Saturation
	Finalization
)

func (p Phase) String() string {
	switch p {
	case Initialization:
		return "initialization"
	case Parsing:
		return "parsing"
	case Preprocessing:
		return "preprocessing"
	case Clausification:
		return "clausification"
	case Saturation:
		return "saturation"
	case Finalization:
		return "finalization"
	}
	return "unknown"
}

// Statistics is a flat record of counters. Fields are exported and bumped
// directly by the component that owns the event.
type Statistics struct {
	// Input.
	InputClauses  int
	InputFormulas int

	// Preprocessing.
	InitialClauses  int
	FormulaNames    int
	AnswerLiterals  int
	SkolemFunctions int

	// Generating inferences.
	Factoring             int
	Resolution            int
	URResolution          int
	ForwardSuperposition  int
	BackwardSuperposition int
	SelfSuperposition     int
	EqualityFactoring     int
	EqualityResolution    int

	// Simplifying inferences.
	DuplicateLiterals             int
	TrivialInequalities           int
	ForwardSubsumptionResolution  int
	BackwardSubsumptionResolution int
	ForwardDemodulations          int
	BackwardDemodulations         int

	// Deletion inferences.
	SimpleTautologies     int
	EquationalTautologies int
	ForwardSubsumed       int
	BackwardSubsumed      int

	// Saturation.
	GeneratedClauses int
	PassiveClauses   int
	ActiveClauses    int
	FinalPassive     int
	FinalActive      int

	// Splitting.
	SplitClauses     int
	SplitComponents  int
	UniqueComponents int
	SplitNames       int
	BDDPropClauses   int
	BDDNodes         int

	// SAT backend interactions (refutation checking).
	SATClauses     int
	SATVars        int
	SATSolverCalls int

	// Phase and outcome.
	Phase             Phase
	Termination       TerminationReason
	RefutationUnit    int // unit number of the refutation, when applicable
	HasRefutationUnit bool
}

// New returns a zeroed statistics record.
func New() *Statistics {
	return &Statistics{}
}

// Print writes the statistics in a stable textual form.
func (s *Statistics) Print(w io.Writer) {
	line := func(name string, v int) {
		if v != 0 {
			fmt.Fprintf(w, "%% %s: %d\n", name, v)
		}
	}
	fmt.Fprintf(w, "%% ------------------------------\n")
	fmt.Fprintf(w, "%% termination reason: %s\n", s.Termination)
	if s.HasRefutationUnit {
		fmt.Fprintf(w, "%% refutation unit: %d\n", s.RefutationUnit)
	}
	line("input clauses", s.InputClauses)
	line("input formulas", s.InputFormulas)
	line("initial clauses", s.InitialClauses)
	line("formula names", s.FormulaNames)
	line("answer literals", s.AnswerLiterals)
	line("skolem functions", s.SkolemFunctions)
	line("factoring", s.Factoring)
	line("resolution", s.Resolution)
	line("unit resulting resolution", s.URResolution)
	line("forward superposition", s.ForwardSuperposition)
	line("backward superposition", s.BackwardSuperposition)
	line("self superposition", s.SelfSuperposition)
	line("equality factoring", s.EqualityFactoring)
	line("equality resolution", s.EqualityResolution)
	line("duplicate literals", s.DuplicateLiterals)
	line("trivial inequalities", s.TrivialInequalities)
	line("forward subsumption resolutions", s.ForwardSubsumptionResolution)
	line("backward subsumption resolutions", s.BackwardSubsumptionResolution)
	line("forward demodulations", s.ForwardDemodulations)
	line("backward demodulations", s.BackwardDemodulations)
	line("simple tautologies", s.SimpleTautologies)
	line("equational tautologies", s.EquationalTautologies)
	line("forward subsumed", s.ForwardSubsumed)
	line("backward subsumed", s.BackwardSubsumed)
	line("generated clauses", s.GeneratedClauses)
	line("passive clauses", s.PassiveClauses)
	line("active clauses", s.ActiveClauses)
	line("final passive clauses", s.FinalPassive)
	line("final active clauses", s.FinalActive)
	line("split clauses", s.SplitClauses)
	line("split components", s.SplitComponents)
	line("unique components", s.UniqueComponents)
	line("split names introduced", s.SplitNames)
	line("bdd prop clauses", s.BDDPropClauses)
	line("bdd nodes", s.BDDNodes)
	line("sat clauses", s.SATClauses)
	line("sat variables", s.SATVars)
	line("sat solver calls", s.SATSolverCalls)
	fmt.Fprintf(w, "%% ------------------------------\n")
}
