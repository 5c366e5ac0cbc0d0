package clause

import (
	"github.com/rhartert/saturn/internal/bdd"
	"github.com/rhartert/saturn/internal/term"
)

// PropAlter records one change of a unit's propositional part.
type PropAlter struct {
	Old, New *bdd.Node
	Rule     Rule
}

// SplitRecord records a splitting event: the premises that justified the
// master clause's new propositional part.
type SplitRecord struct {
	Premises []Unit
	Old, New *bdd.Node
}

// MergeRecord records the merge of a variant clause into an existing
// component.
type MergeRecord struct {
	Old, New *bdd.Node
	MergedBy Unit
}

// Store is the inference store: it allocates unit numbers, keeps the side
// tables needed for proof reconstruction, and checks the parent invariant on
// derived units.
type Store struct {
	nextNum int

	// Side tables, keyed by unit number.
	propAlters map[int][]PropAlter
	splitsRecs map[int][]SplitRecord
	mergeRecs  map[int][]MergeRecord
}

// NewStore returns an empty inference store.
func NewStore() *Store {
	return &Store{
		propAlters: map[int][]PropAlter{},
		splitsRecs: map[int][]SplitRecord{},
		mergeRecs:  map[int][]MergeRecord{},
	}
}

// NewClause creates a clause with a fresh unit number. Derived clauses must
// name at least one parent; leaves are input units.
func (st *Store) NewClause(lits []*term.Term, t InputType, inf *Inference) *Clause {
	st.checkInference(inf)
	c := newClause(st.nextNum, lits, t, inf)
	st.nextNum++
	return c
}

// NewFormulaUnit creates a formula unit with a fresh unit number.
func (st *Store) NewFormulaUnit(f *term.Formula, name string, t InputType, inf *Inference) *FormulaUnit {
	st.checkInference(inf)
	u := &FormulaUnit{Form: f, Name: name, num: st.nextNum, inputType: t, inference: inf}
	st.nextNum++
	return u
}

func (st *Store) checkInference(inf *Inference) {
	if inf == nil {
		panic("clause: unit without an inference")
	}
	switch inf.Rule {
	case Input, NegatedConjectureRule, TautologyIntroduction, ClauseNaming, AnswerLiteral:
		// Leaves and naming units may have no parents.
	default:
		if len(inf.Parents) == 0 {
			panic("clause: derived unit with an empty parent set")
		}
	}
}

// RecordPropAlter records that the propositional part of u changed from old
// to new under the given rule.
func (st *Store) RecordPropAlter(u Unit, old, updated *bdd.Node, r Rule) {
	st.propAlters[u.Num()] = append(st.propAlters[u.Num()], PropAlter{Old: old, New: updated, Rule: r})
}

// RecordSplitting records a splitting event on the master clause.
func (st *Store) RecordSplitting(master Unit, old, updated *bdd.Node, premises []Unit) {
	rec := SplitRecord{Premises: premises, Old: old, New: updated}
	st.splitsRecs[master.Num()] = append(st.splitsRecs[master.Num()], rec)
}

// RecordMerge records that the variant clause merged had its propositional
// part conjoined with the one of mergedBy.
func (st *Store) RecordMerge(merged Unit, old *bdd.Node, mergedBy Unit, updated *bdd.Node) {
	rec := MergeRecord{Old: old, New: updated, MergedBy: mergedBy}
	st.mergeRecs[merged.Num()] = append(st.mergeRecs[merged.Num()], rec)
}

// PropAlters returns the recorded propositional-part changes of u.
func (st *Store) PropAlters(u Unit) []PropAlter { return st.propAlters[u.Num()] }

// Splittings returns the recorded splitting events of u.
func (st *Store) Splittings(u Unit) []SplitRecord { return st.splitsRecs[u.Num()] }

// Merges returns the recorded merges into u.
func (st *Store) Merges(u Unit) []MergeRecord { return st.mergeRecs[u.Num()] }

// Traverse walks the inference DAG from the given unit towards the leaves,
// visiting each unit once in a deterministic order. Parents recorded in the
// splitting and merge side tables are traversed as well, so the closure
// covers every premise a proof printer needs.
func (st *Store) Traverse(from Unit, visit func(Unit)) {
	seen := map[int]struct{}{}
	stack := []Unit{from}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[u.Num()]; ok {
			continue
		}
		seen[u.Num()] = struct{}{}
		visit(u)
		if inf := u.Inf(); inf != nil {
			for i := len(inf.Parents) - 1; i >= 0; i-- {
				stack = append(stack, inf.Parents[i])
			}
		}
		for _, rec := range st.splitsRecs[u.Num()] {
			for i := len(rec.Premises) - 1; i >= 0; i-- {
				stack = append(stack, rec.Premises[i])
			}
		}
		for _, rec := range st.mergeRecs[u.Num()] {
			stack = append(stack, rec.MergedBy)
		}
	}
}
