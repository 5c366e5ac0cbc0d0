package saturation

import (
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/index"
	"github.com/rhartert/saturn/internal/term"
)

// Splitter decomposes clauses into variable-disjoint components, names
// components with fresh BDD variables, and maintains each clause's
// propositional part accordingly.
//
// A component that has been seen before is recognised through a variant
// index; named components are assumed through their name atom instead of
// being re-derived.
type Splitter struct {
	ctx *Context

	variants *index.VariantIndex

	// clauseNames maps a named component to its BDD variable.
	clauseNames map[*clause.Clause]int

	// propPredNames maps an arity-0 predicate to its BDD variable, and
	// the premise tables hold the naming clauses {p} and {~p}.
	propPredNames       map[int]int
	propPredPosPremises map[int]*clause.Clause
	propPredNegPremises map[int]*clause.Clause
}

// NewSplitter returns a splitter over the context.
func NewSplitter(ctx *Context) *Splitter {
	return &Splitter{
		ctx:                 ctx,
		variants:            index.NewVariantIndex(),
		clauseNames:         map[*clause.Clause]int{},
		propPredNames:       map[int]int{},
		propPredPosPremises: map[int]*clause.Clause{},
		propPredNegPremises: map[int]*clause.Clause{},
	}
}

// Split processes a clause entering the loop and returns the new component
// clauses and the components whose propositional part changed. The clause
// itself is consumed: its refutation obligation continues in the returned
// clauses and the recorded premises.
func (sp *Splitter) Split(cl *clause.Clause) (news, modified []*clause.Clause) {
	b := sp.ctx.BDD

	if cl.Len() <= 1 {
		return sp.handleNoSplit(cl)
	}

	// Partition the literals into variable-connected components: the
	// master literal of a variable is the lowest literal index it occurs
	// in; sharing a variable links two literals.
	varMasters := map[int]int{}
	comps := newUnionFind(cl.Len())
	for i, lit := range cl.Lits {
		lit.IterVars(func(v int) {
			if master, ok := varMasters[v]; ok {
				comps.union(master, i)
			} else {
				varMasters[v] = i
			}
		})
	}
	groups := comps.components()
	if len(groups) == 1 {
		return sp.handleNoSplit(cl)
	}

	sp.ctx.Stats.SplitClauses++
	sp.ctx.Stats.SplitComponents += len(groups)

	newMasterProp := sp.ctx.prop(cl)
	masterPremises := []clause.Unit{cl}

	var newComps, unnamedComps []*clause.Clause
	var masterComp *clause.Clause
	remaining := len(groups)

	// Propositional components first: a length-1 component whose literal
	// has arity 0 is promoted into a split name right away.
	for _, g := range groups {
		if len(g) != 1 || cl.Lits[g[0]].Arity() != 0 {
			continue
		}
		lit := cl.Lits[g[0]]
		remaining--
		name, premise := sp.propPredName(lit)
		newMasterProp = b.Disjunction(newMasterProp, b.Atomic(name, lit.IsPositive()))
		masterPremises = append(masterPremises, premise)
	}

	for _, g := range groups {
		if len(g) == 1 && cl.Lits[g[0]].Arity() == 0 {
			continue
		}
		lits := make([]*term.Term, len(g))
		for i, litIndex := range g {
			lits[i] = cl.Lits[litIndex]
		}
		remaining--

		if comp := sp.variants.RetrieveVariant(lits); comp != nil {
			if name, named := sp.clauseNames[comp]; named {
				if remaining == 0 && len(newComps) == 0 && len(unnamedComps) == 0 {
					masterComp = comp
					continue
				}
				newMasterProp = b.Disjunction(newMasterProp, b.Atomic(name, true))
				if b.IsTrue(newMasterProp) {
					// The propositional part of cl is true, so
					// there is no point in keeping any of it.
					return nil, nil
				}
				masterPremises = append(masterPremises, comp)
			} else {
				unnamedComps = append(unnamedComps, comp)
			}
			continue
		}

		sp.ctx.Stats.UniqueComponents++
		comp := sp.ctx.Infs.NewClause(lits, cl.Type(), clause.NewInference(clause.TautologyIntroduction))
		sp.ctx.setProp(comp, b.True())
		sp.variants.Insert(comp)
		newComps = append(newComps, comp)
	}

	masterNew := false
	switch {
	case masterComp != nil:
	case len(newComps) > 0:
		masterNew = true
		masterComp, newComps = newComps[len(newComps)-1], newComps[:len(newComps)-1]
	case len(unnamedComps) > 0:
		masterComp, unnamedComps = unnamedComps[len(unnamedComps)-1], unnamedComps[:len(unnamedComps)-1]
	default:
		// The split clause consisted of propositional literals only:
		// its remainder is an empty clause guarded by the accumulated
		// disjunction.
		emptyCl := sp.ctx.Infs.NewClause(nil, clause.Axiom, clause.NewInference(clause.TautologyIntroduction))
		sp.ctx.setProp(emptyCl, b.True())
		ins, isNew, _ := sp.insertIntoIndex(emptyCl)
		masterComp = ins
		masterNew = isNew
	}

	// Name the remaining components. The master is skipped: its
	// propositional part receives the whole split disjunction instead.
	for _, comp := range append(append([]*clause.Clause{}, newComps...), unnamedComps...) {
		if comp == masterComp {
			// The same component can appear multiple times when the
			// master is unnamed.
			continue
		}
		if _, named := sp.clauseNames[comp]; named {
			// Naming a component twice would be unsound; the
			// duplicate occurrences were already folded in above.
			continue
		}
		name := b.NewVar()
		sp.ctx.Stats.SplitNames++
		sp.clauseNames[comp] = name
		oldProp := sp.ctx.prop(comp)
		newProp := b.Conjunction(oldProp, b.Atomic(name, false))
		if newProp != oldProp {
			sp.ctx.setProp(comp, newProp)
			sp.ctx.Infs.RecordPropAlter(comp, oldProp, newProp, clause.ClauseNaming)
		}
		newMasterProp = b.Disjunction(newMasterProp, b.Atomic(name, true))
		masterPremises = append(masterPremises, comp)
	}

	if b.IsTrue(newMasterProp) {
		panic("saturation: split master with a vacuous propositional part")
	}

	oldProp := sp.ctx.prop(masterComp)
	sp.ctx.setProp(masterComp, b.Conjunction(oldProp, newMasterProp))
	sp.ctx.Infs.RecordSplitting(masterComp, oldProp, masterComp.Prop, masterPremises)

	if masterNew {
		news = append(append(news, masterComp), newComps...)
		modified = unnamedComps
	} else {
		news = newComps
		if oldProp != masterComp.Prop {
			modified = append(modified, masterComp)
		}
		modified = append(modified, unnamedComps...)
	}
	return news, modified
}

// propPredName returns the split name of an arity-0 literal's predicate,
// allocating the name and the naming premise clause on first use. The
// premise {lit} carries the propositional part that makes the pair
// equivalent to the original literal.
func (sp *Splitter) propPredName(lit *term.Term) (int, *clause.Clause) {
	b := sp.ctx.BDD
	pred := lit.Functor()
	name, ok := sp.propPredNames[pred]
	if !ok {
		name = b.NewVar()
		sp.ctx.Stats.SplitNames++
		sp.propPredNames[pred] = name
	}

	premises := sp.propPredPosPremises
	if lit.IsNegative() {
		premises = sp.propPredNegPremises
	}
	premise, ok := premises[pred]
	if !ok {
		premise = sp.ctx.Infs.NewClause([]*term.Term{lit}, clause.Axiom, clause.NewInference(clause.ClauseNaming))
		sp.ctx.setProp(premise, b.Atomic(name, lit.IsNegative()))
		premises[pred] = premise
	}
	return name, premise
}

// insertIntoIndex routes a single-component clause through the variant
// index. It returns the representative clause, whether the clause was newly
// inserted, and whether an existing variant's propositional part changed.
func (sp *Splitter) insertIntoIndex(cl *clause.Clause) (*clause.Clause, bool, bool) {
	b := sp.ctx.BDD

	comp := sp.variants.RetrieveVariant(cl.Lits)
	if comp == nil {
		sp.ctx.Stats.UniqueComponents++
		sp.variants.Insert(cl)
		return cl, true, false
	}

	oldCompProp := sp.ctx.prop(comp)
	newCompProp := b.Conjunction(oldCompProp, sp.ctx.prop(cl))
	if oldCompProp == newCompProp {
		return comp, false, false
	}
	sp.ctx.setProp(comp, newCompProp)
	sp.ctx.Infs.RecordMerge(comp, oldCompProp, cl, newCompProp)
	return comp, false, true
}

// handleNoSplit treats clauses with at most one component. A unit arity-0
// clause is first rewritten into an empty clause guarded by its split name.
func (sp *Splitter) handleNoSplit(cl *clause.Clause) (news, modified []*clause.Clause) {
	b := sp.ctx.BDD

	if cl.Len() == 1 && cl.Lits[0].Arity() == 0 {
		lit := cl.Lits[0]
		name, premise := sp.propPredName(lit)
		newCl := sp.ctx.Infs.NewClause(nil, cl.Type(), clause.NewInference(clause.Splitting, cl, premise))
		sp.ctx.setProp(newCl, b.Disjunction(sp.ctx.prop(cl), b.Atomic(name, lit.IsPositive())))
		sp.ctx.Stats.BDDPropClauses++
		cl = newCl
	}

	ins, isNew, changed := sp.insertIntoIndex(cl)
	switch {
	case isNew:
		news = append(news, ins)
	case changed:
		if ins.Empty() && b.IsFalse(sp.ctx.prop(ins)) {
			// The merged empty clause became unconditional: surface
			// the refutation as a new clause so the loop sees it.
			oldClProp := sp.ctx.prop(cl)
			sp.ctx.setProp(cl, ins.Prop)
			sp.ctx.Infs.RecordMerge(cl, oldClProp, ins, cl.Prop)
			news = append(news, cl)
		} else {
			modified = append(modified, ins)
		}
	}
	return news, modified
}
