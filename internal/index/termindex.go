package index

import (
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/subst"
	"github.com/rhartert/saturn/internal/term"
)

// EqEntry is a stored rewriting equation l = r from a unit clause.
type EqEntry struct {
	LHS, RHS *term.Term
	Lit      *term.Term
	Clause   *clause.Clause
}

// EqIndex stores the sides of unit positive equalities, bucketed by the top
// symbol of the left-hand side, for demodulation queries.
type EqIndex struct {
	store   *term.Store
	buckets map[int][]EqEntry
}

// NewEqIndex returns an empty equation index.
func NewEqIndex(store *term.Store) *EqIndex {
	return &EqIndex{store: store, buckets: map[int][]EqEntry{}}
}

func eqKey(t *term.Term) (int, bool) {
	// Variable left-hand sides never demodulate: such equations cannot be
	// oriented left-to-right against a simplification ordering.
	if t.IsVar() {
		return 0, false
	}
	return t.Functor(), true
}

// Insert adds the equation l -> r.
func (ix *EqIndex) Insert(l, r, lit *term.Term, cl *clause.Clause) {
	k, ok := eqKey(l)
	if !ok {
		return
	}
	ix.buckets[k] = append(ix.buckets[k], EqEntry{LHS: l, RHS: r, Lit: lit, Clause: cl})
}

// Remove deletes the equation l -> r.
func (ix *EqIndex) Remove(l, r, lit *term.Term, cl *clause.Clause) {
	k, ok := eqKey(l)
	if !ok {
		return
	}
	bucket := ix.buckets[k]
	for i, e := range bucket {
		if e.LHS == l && e.RHS == r && e.Clause == cl {
			ix.buckets[k] = append(bucket[:i:i], bucket[i+1:]...)
			return
		}
	}
}

// EqResult is a generalisation query answer: the equation and the matcher
// binding its variables (stored bank).
type EqResult struct {
	EqEntry
	Subst *subst.Subst
}

// Generalizations returns the stored equations whose left-hand side matches
// onto t.
func (ix *EqIndex) Generalizations(t *term.Term) []EqResult {
	if t.IsVar() {
		return nil
	}
	var out []EqResult
	for _, e := range ix.buckets[t.Functor()] {
		s := subst.New(ix.store)
		if !s.Match(e.LHS, StoredBank, t, QueryBank) {
			continue
		}
		out = append(out, EqResult{EqEntry: e, Subst: s})
	}
	return out
}

// Unifications returns the stored equations whose left-hand side unifies
// with t.
func (ix *EqIndex) Unifications(t *term.Term) []EqResult {
	if t.IsVar() {
		return nil
	}
	var out []EqResult
	for _, e := range ix.buckets[t.Functor()] {
		s := subst.New(ix.store)
		if !s.Unify(t, QueryBank, e.LHS, StoredBank) {
			continue
		}
		out = append(out, EqResult{EqEntry: e, Subst: s})
	}
	return out
}

// SubtermEntry locates a non-variable subterm occurrence inside a literal of
// a clause.
type SubtermEntry struct {
	Subterm *term.Term
	Lit     *term.Term
	Clause  *clause.Clause
}

// SubtermIndex stores the non-variable subterms of active clause literals,
// bucketed by top symbol, for backward superposition and backward
// demodulation.
type SubtermIndex struct {
	store   *term.Store
	buckets map[int][]SubtermEntry
}

// NewSubtermIndex returns an empty subterm index.
func NewSubtermIndex(store *term.Store) *SubtermIndex {
	return &SubtermIndex{store: store, buckets: map[int][]SubtermEntry{}}
}

// Insert indexes every non-variable proper-or-top subterm of the literal's
// arguments. Equal subterms are shared, so each distinct subterm of a
// literal is indexed once.
func (ix *SubtermIndex) Insert(lit *term.Term, cl *clause.Clause) {
	seen := map[*term.Term]struct{}{}
	for _, a := range lit.Args() {
		a.IterSubterms(func(st *term.Term) {
			if _, ok := seen[st]; ok {
				return
			}
			seen[st] = struct{}{}
			k := st.Functor()
			ix.buckets[k] = append(ix.buckets[k], SubtermEntry{Subterm: st, Lit: lit, Clause: cl})
		})
	}
}

// Remove deletes all subterm entries of the literal occurrence.
func (ix *SubtermIndex) Remove(lit *term.Term, cl *clause.Clause) {
	for k, bucket := range ix.buckets {
		j := 0
		for _, e := range bucket {
			if e.Lit == lit && e.Clause == cl {
				continue
			}
			bucket[j] = e
			j++
		}
		ix.buckets[k] = bucket[:j]
	}
}

// SubtermResult is a unification query answer.
type SubtermResult struct {
	SubtermEntry
	Subst *subst.Subst
}

// Unifications returns the indexed subterms unifiable with t. The query term
// owns bank 0, indexed clauses bank 1.
func (ix *SubtermIndex) Unifications(t *term.Term) []SubtermResult {
	if t.IsVar() {
		return nil
	}
	var out []SubtermResult
	for _, e := range ix.buckets[t.Functor()] {
		s := subst.New(ix.store)
		if !s.Unify(t, QueryBank, e.Subterm, StoredBank) {
			continue
		}
		out = append(out, SubtermResult{SubtermEntry: e, Subst: s})
	}
	return out
}

// Instances returns the indexed subterms that t matches onto, for backward
// demodulation: t is the left-hand side of a new unit equality.
func (ix *SubtermIndex) Instances(t *term.Term) []SubtermResult {
	if t.IsVar() {
		return nil
	}
	var out []SubtermResult
	for _, e := range ix.buckets[t.Functor()] {
		s := subst.New(ix.store)
		if !s.Match(t, QueryBank, e.Subterm, StoredBank) {
			continue
		}
		out = append(out, SubtermResult{SubtermEntry: e, Subst: s})
	}
	return out
}
