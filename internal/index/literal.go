// Package index implements the retrieval structures of the prover: a literal
// index answering unification, generalisation, and instance queries, a term
// index for demodulation and superposition, and a variant index for clause
// components.
//
// All structures bucket by top-symbol header and filter candidates with the
// substitution machinery. Stored entries are returned at most once per query,
// in insertion order, which keeps retrieval deterministic for a fixed insert
// history. Mutating an index while holding query results is undefined.
package index

import (
	"sort"

	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/subst"
	"github.com/rhartert/saturn/internal/term"
)

// Banks used by index queries: the query literal owns bank 0, stored
// literals bank 1.
const (
	QueryBank  = 0
	StoredBank = 1
)

// Entry is a stored literal together with the clause it occurs in.
type Entry struct {
	Lit    *term.Term
	Clause *clause.Clause
}

// Result is one query answer. Subst is non-nil only when the query asked for
// substitutions; it is owned by the caller and valid until the next query.
type Result struct {
	Lit    *term.Term
	Clause *clause.Clause
	Subst  *subst.Subst
}

// LiteralIndex stores literals bucketed by header.
type LiteralIndex struct {
	store   *term.Store
	buckets map[int][]Entry
	size    int
}

// NewLiteralIndex returns an empty literal index.
func NewLiteralIndex(store *term.Store) *LiteralIndex {
	return &LiteralIndex{store: store, buckets: map[int][]Entry{}}
}

// Insert adds a literal occurrence.
func (ix *LiteralIndex) Insert(lit *term.Term, cl *clause.Clause) {
	h := lit.Header()
	ix.buckets[h] = append(ix.buckets[h], Entry{lit, cl})
	ix.size++
}

// Remove deletes a literal occurrence. Removing an entry that was never
// inserted is a no-op.
func (ix *LiteralIndex) Remove(lit *term.Term, cl *clause.Clause) {
	h := lit.Header()
	bucket := ix.buckets[h]
	for i, e := range bucket {
		if e.Lit == lit && e.Clause == cl {
			ix.buckets[h] = append(bucket[:i:i], bucket[i+1:]...)
			ix.size--
			return
		}
	}
}

// Size returns the number of stored occurrences.
func (ix *LiteralIndex) Size() int { return ix.size }

// Candidates returns the stored entries with the given header, in insertion
// order. Callers that drive their own substitution (the answer extractor)
// use this instead of Unifications.
func (ix *LiteralIndex) Candidates(header int) []Entry {
	return ix.buckets[header]
}

// Unifications returns the stored literals unifiable with the query.
// When complementary is true, candidates with the complementary header are
// retrieved instead. When withSubst is true, each result carries the
// unifying substitution (query literal in bank 0, stored literal in bank 1).
func (ix *LiteralIndex) Unifications(query *term.Term, complementary, withSubst bool) []Result {
	h := query.Header()
	if complementary {
		h = query.ComplementaryHeader()
	}
	var out []Result
	for _, e := range ix.buckets[h] {
		s := subst.New(ix.store)
		if !UnifyLitArgs(s, query, e.Lit) {
			continue
		}
		r := Result{Lit: e.Lit, Clause: e.Clause}
		if withSubst {
			r.Subst = s
		}
		out = append(out, r)
	}
	return out
}

// Generalizations returns stored literals that match onto the query (the
// stored literal is more general). The substitution binds the stored bank.
func (ix *LiteralIndex) Generalizations(query *term.Term, complementary, withSubst bool) []Result {
	h := query.Header()
	if complementary {
		h = query.ComplementaryHeader()
	}
	var out []Result
	for _, e := range ix.buckets[h] {
		s := subst.New(ix.store)
		if !MatchLitArgs(s, e.Lit, StoredBank, query, QueryBank) {
			continue
		}
		r := Result{Lit: e.Lit, Clause: e.Clause}
		if withSubst {
			r.Subst = s
		}
		out = append(out, r)
	}
	return out
}

// Instances returns stored literals the query matches onto (the stored
// literal is an instance). The substitution binds the query bank.
func (ix *LiteralIndex) Instances(query *term.Term, complementary, withSubst bool) []Result {
	h := query.Header()
	if complementary {
		h = query.ComplementaryHeader()
	}
	var out []Result
	for _, e := range ix.buckets[h] {
		s := subst.New(ix.store)
		if !MatchLitArgs(s, query, QueryBank, e.Lit, StoredBank) {
			continue
		}
		r := Result{Lit: e.Lit, Clause: e.Clause}
		if withSubst {
			r.Subst = s
		}
		out = append(out, r)
	}
	return out
}

// All returns every stored entry, grouped by header in increasing header
// order and in insertion order within a header.
func (ix *LiteralIndex) All() []Entry {
	out := make([]Entry, 0, ix.size)
	headers := make([]int, 0, len(ix.buckets))
	for h := range ix.buckets {
		headers = append(headers, h)
	}
	sort.Ints(headers)
	for _, h := range headers {
		out = append(out, ix.buckets[h]...)
	}
	return out
}

// UnifyLitArgs unifies the argument lists of two literals with compatible
// predicates, trying both argument orders for commutative predicates. On
// failure the substitution is left unchanged.
func UnifyLitArgs(s *subst.Subst, query, stored *term.Term) bool {
	if s.UnifyArgs(query, QueryBank, stored, StoredBank) {
		return true
	}
	if query.Commutative() && query.Arity() == 2 {
		var tr subst.Trail
		s.Record(&tr)
		ok := s.Unify(query.Arg(0), QueryBank, stored.Arg(1), StoredBank) &&
			s.Unify(query.Arg(1), QueryBank, stored.Arg(0), StoredBank)
		s.Done()
		if ok {
			return true
		}
		tr.Backtrack()
	}
	return false
}

// MatchLitArgs matches the arguments of base onto those of inst, trying both
// orders for commutative predicates. On failure the substitution is left
// unchanged.
func MatchLitArgs(s *subst.Subst, base *term.Term, bBank int, inst *term.Term, iBank int) bool {
	if base.Functor() != inst.Functor() || base.Arity() != inst.Arity() {
		return false
	}
	ok := true
	var tr subst.Trail
	s.Record(&tr)
	for i := 0; i < base.Arity(); i++ {
		if !s.Match(base.Arg(i), bBank, inst.Arg(i), iBank) {
			ok = false
			break
		}
	}
	s.Done()
	if ok {
		return true
	}
	tr.Backtrack()
	if base.Commutative() && base.Arity() == 2 {
		var tr2 subst.Trail
		s.Record(&tr2)
		ok = s.Match(base.Arg(0), bBank, inst.Arg(1), iBank) &&
			s.Match(base.Arg(1), bBank, inst.Arg(0), iBank)
		s.Done()
		if ok {
			return true
		}
		tr2.Backtrack()
	}
	return false
}

