// Package subst implements substitutions over banked variables together with
// Robinson unification, one-way matching, and trail-based backtracking.
//
// Variables carry an implicit bank chosen by the caller (0 for the goal or
// query clause, 1 for the indexed clause, and so on) so that the same
// variable number coming from two clauses does not collide. Bindings map
// (var, bank) pairs to terms paired with the bank their variables belong to.
package subst

import "github.com/rhartert/saturn/internal/term"

// VarSpec identifies a variable within a bank.
type VarSpec struct {
	Var  int
	Bank int
}

// TermSpec pairs a term with the bank its variables are interpreted in.
type TermSpec struct {
	T    *term.Term
	Bank int
}

// Subst is a backtrackable substitution over banked variables.
type Subst struct {
	store    *term.Store
	bindings map[VarSpec]TermSpec

	// Recording stack. While non-empty, every new binding is pushed onto
	// the innermost trail so it can be undone.
	trails []*Trail

	// Output-bank renaming used by Apply: unbound variables map to fresh
	// variables of the output bank in first-use order.
	outVars map[VarSpec]int
	nextOut int
}

// New returns an empty substitution over the given store.
func New(store *term.Store) *Subst {
	return &Subst{
		store:    store,
		bindings: map[VarSpec]TermSpec{},
		outVars:  map[VarSpec]int{},
	}
}

// Trail records bindings so they can be undone. Recordings nest as a stack:
// Record starts one, Done ends the innermost one, and Backtrack undoes every
// binding the trail captured.
type Trail struct {
	bound []VarSpec
	subst *Subst
}

// Record starts recording mutations into tr.
func (s *Subst) Record(tr *Trail) {
	tr.subst = s
	s.trails = append(s.trails, tr)
}

// Done ends the innermost recording. The bindings it captured are passed on
// to the enclosing recording, if any, so that backtracking an outer trail
// also undoes bindings made under recordings nested inside it.
func (s *Subst) Done() {
	n := len(s.trails)
	if n == 0 {
		panic("subst: Done without a matching Record")
	}
	if n > 1 {
		outer := s.trails[n-2]
		outer.bound = append(outer.bound, s.trails[n-1].bound...)
	}
	s.trails = s.trails[:n-1]
}

// Backtrack undoes all bindings recorded into the trail, newest first.
func (tr *Trail) Backtrack() {
	for i := len(tr.bound) - 1; i >= 0; i-- {
		delete(tr.subst.bindings, tr.bound[i])
	}
	tr.bound = tr.bound[:0]
}

func (s *Subst) bind(v VarSpec, t TermSpec) {
	s.bindings[v] = t
	if n := len(s.trails); n > 0 {
		tr := s.trails[n-1]
		tr.bound = append(tr.bound, v)
	}
}

// deref follows bindings until it reaches an unbound variable or a compound.
func (s *Subst) deref(t TermSpec) TermSpec {
	for t.T.IsVar() {
		b, ok := s.bindings[VarSpec{t.T.VarID(), t.Bank}]
		if !ok {
			return t
		}
		t = b
	}
	return t
}

// Unify unifies t1 (bank b1) with t2 (bank b2). On success the substitution
// is extended and true is returned; on failure the substitution is left
// unchanged.
func (s *Subst) Unify(t1 *term.Term, b1 int, t2 *term.Term, b2 int) bool {
	var local Trail
	s.Record(&local)
	ok := s.unify(TermSpec{t1, b1}, TermSpec{t2, b2})
	s.Done()
	if !ok {
		local.Backtrack()
		return false
	}
	// Keep the bindings, but replay them onto the enclosing trail so an
	// outer Backtrack still undoes them.
	if n := len(s.trails); n > 0 {
		outer := s.trails[n-1]
		outer.bound = append(outer.bound, local.bound...)
	}
	return true
}

// UnifyArgs unifies the argument lists of two literals with matching header
// (or with complementary headers: only the predicate and arity must agree).
func (s *Subst) UnifyArgs(l1 *term.Term, b1 int, l2 *term.Term, b2 int) bool {
	if l1.Functor() != l2.Functor() || l1.Arity() != l2.Arity() {
		return false
	}
	var local Trail
	s.Record(&local)
	ok := true
	for i := 0; i < l1.Arity(); i++ {
		if !s.unify(TermSpec{l1.Arg(i), b1}, TermSpec{l2.Arg(i), b2}) {
			ok = false
			break
		}
	}
	s.Done()
	if !ok {
		local.Backtrack()
		return false
	}
	if n := len(s.trails); n > 0 {
		outer := s.trails[n-1]
		outer.bound = append(outer.bound, local.bound...)
	}
	return true
}

func (s *Subst) unify(a, b TermSpec) bool {
	a, b = s.deref(a), s.deref(b)
	if a.T == b.T && (a.Bank == b.Bank || a.T.Ground()) {
		return true
	}
	if a.T.IsVar() {
		return s.bindChecked(a, b)
	}
	if b.T.IsVar() {
		return s.bindChecked(b, a)
	}
	if a.T.Functor() != b.T.Functor() || a.T.Arity() != b.T.Arity() ||
		a.T.Kind() != b.T.Kind() {
		return false
	}
	for i := 0; i < a.T.Arity(); i++ {
		if !s.unify(TermSpec{a.T.Arg(i), a.Bank}, TermSpec{b.T.Arg(i), b.Bank}) {
			return false
		}
	}
	return true
}

// bindChecked binds variable a to term b after the occurs check.
func (s *Subst) bindChecked(a, b TermSpec) bool {
	if s.occurs(VarSpec{a.T.VarID(), a.Bank}, b) {
		return false
	}
	s.bind(VarSpec{a.T.VarID(), a.Bank}, b)
	return true
}

func (s *Subst) occurs(v VarSpec, t TermSpec) bool {
	t = s.deref(t)
	if t.T.IsVar() {
		return VarSpec{t.T.VarID(), t.Bank} == v
	}
	for i := 0; i < t.T.Arity(); i++ {
		if s.occurs(v, TermSpec{t.T.Arg(i), t.Bank}) {
			return true
		}
	}
	return false
}

// Match matches base (bank bBase) onto instance (bank bInst): only variables
// of the base bank may be bound, and variables of the instance side are
// treated as constants. Used by subsumption and demodulation.
func (s *Subst) Match(base *term.Term, bBase int, instance *term.Term, bInst int) bool {
	var local Trail
	s.Record(&local)
	ok := s.match(TermSpec{base, bBase}, TermSpec{instance, bInst})
	s.Done()
	if !ok {
		local.Backtrack()
		return false
	}
	if n := len(s.trails); n > 0 {
		outer := s.trails[n-1]
		outer.bound = append(outer.bound, local.bound...)
	}
	return true
}

func (s *Subst) match(base, inst TermSpec) bool {
	if base.T.IsVar() {
		v := VarSpec{base.T.VarID(), base.Bank}
		if b, ok := s.bindings[v]; ok {
			b2 := s.deref(b)
			return b2.T == inst.T && b2.Bank == inst.Bank
		}
		s.bind(v, inst)
		return true
	}
	if inst.T.IsVar() {
		return false
	}
	if base.T.Functor() != inst.T.Functor() || base.T.Arity() != inst.T.Arity() ||
		base.T.Kind() != inst.T.Kind() {
		return false
	}
	for i := 0; i < base.T.Arity(); i++ {
		if !s.match(TermSpec{base.T.Arg(i), base.Bank}, TermSpec{inst.T.Arg(i), inst.Bank}) {
			return false
		}
	}
	return true
}

// Apply walks the substitution and returns the shared term t (bank b) maps
// to. Variables that remain unbound are renamed into fresh variables of an
// implicit output bank, consistently across calls on the same substitution.
func (s *Subst) Apply(t *term.Term, b int) *term.Term {
	return s.apply(TermSpec{t, b})
}

func (s *Subst) apply(t TermSpec) *term.Term {
	t = s.deref(t)
	if t.T.IsVar() {
		v := VarSpec{t.T.VarID(), t.Bank}
		out, ok := s.outVars[v]
		if !ok {
			out = s.nextOut
			s.nextOut++
			s.outVars[v] = out
		}
		return s.store.Variable(out)
	}
	if t.T.Ground() {
		return t.T
	}
	args := make([]*term.Term, t.T.Arity())
	for i := range args {
		args[i] = s.apply(TermSpec{t.T.Arg(i), t.Bank})
	}
	if t.T.IsLiteral() {
		return s.store.CreateLiteral(t.T.Functor(), t.T.IsPositive(), args)
	}
	return s.store.Create(t.T.Functor(), args)
}

// ApplyKeep is like Apply but renders variables that remain unbound as
// themselves, keeping their numbering instead of renaming into the output
// bank. Demodulation uses it: the rewritten literal must keep the target
// clause's variables.
func (s *Subst) ApplyKeep(t *term.Term, b int) *term.Term {
	return s.applyKeep(TermSpec{t, b})
}

func (s *Subst) applyKeep(t TermSpec) *term.Term {
	t = s.deref(t)
	if t.T.IsVar() {
		return t.T
	}
	if t.T.Ground() {
		return t.T
	}
	args := make([]*term.Term, t.T.Arity())
	for i := range args {
		args[i] = s.applyKeep(TermSpec{t.T.Arg(i), t.Bank})
	}
	if t.T.IsLiteral() {
		return s.store.CreateLiteral(t.T.Functor(), t.T.IsPositive(), args)
	}
	return s.store.Create(t.T.Functor(), args)
}

// ApplyGround is like Apply but fails (returns nil) if the result would
// contain an unbound variable. Callers that demand groundness decide.
func (s *Subst) ApplyGround(t *term.Term, b int) *term.Term {
	res := s.Apply(t, b)
	if res.IsVar() || !res.Ground() {
		return nil
	}
	return res
}

// Bound reports whether variable v of bank b is bound.
func (s *Subst) Bound(v, b int) bool {
	_, ok := s.bindings[VarSpec{v, b}]
	return ok
}

// Len returns the number of bindings.
func (s *Subst) Len() int { return len(s.bindings) }
