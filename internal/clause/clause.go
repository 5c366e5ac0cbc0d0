// Package clause defines clauses, formula units, inferences, and the
// inference store that records how every unit of a proving run was derived.
package clause

import (
	"strings"

	"github.com/rhartert/saturn/internal/bdd"
	"github.com/rhartert/saturn/internal/term"
)

// InputType classifies where a unit entered the problem.
type InputType uint8

const (
	Axiom InputType = iota
	Hypothesis
	Assumption
	Conjecture
	NegatedConjecture
)

func (t InputType) String() string {
	switch t {
	case Axiom:
		return "axiom"
	case Hypothesis:
		return "hypothesis"
	case Assumption:
		return "assumption"
	case Conjecture:
		return "conjecture"
	case NegatedConjecture:
		return "negated_conjecture"
	}
	return "unknown"
}

// Unit is a clause or formula participating in the inference DAG.
type Unit interface {
	// Num returns the unit number. Numbers are allocated in creation
	// order and double as the age of a clause.
	Num() int

	// Inf returns the inference that derived the unit.
	Inf() *Inference

	// Type returns the unit's input type.
	Type() InputType
}

// Clause is a multiset of literals together with its propositional part.
type Clause struct {
	// Lits holds the literals in declaration order.
	Lits []*term.Term

	// Prop is the BDD node guarding the clause: the clause is valid under
	// every split assignment falsifying Prop. The false node means the
	// clause is unconditional; the true node means it is vacuous.
	Prop *bdd.Node

	// Splits is the set of split names the propositional part currently
	// depends on.
	Splits []int

	// Selected is the number of selected literals. The first Selected
	// literals of Lits are the selected ones; zero means no selection has
	// been applied yet and all literals are eligible.
	Selected int

	num       int
	inputType InputType
	inference *Inference
	weight    int
}

// newClause creates a clause. The unit number is allocated by the inference store,
// so clauses are created through Store.NewClause in normal operation.
func newClause(num int, lits []*term.Term, t InputType, inf *Inference) *Clause {
	c := &Clause{
		Lits:      lits,
		num:       num,
		inputType: t,
		inference: inf,
	}
	for _, l := range lits {
		c.weight += l.Weight()
	}
	return c
}

// Num returns the clause number.
func (c *Clause) Num() int { return c.num }

// Inf returns the inference that derived the clause.
func (c *Clause) Inf() *Inference { return c.inference }

// Type returns the clause input type.
func (c *Clause) Type() InputType { return c.inputType }

// Len returns the number of literals.
func (c *Clause) Len() int { return len(c.Lits) }

// Weight returns the symbol-count weight of the clause.
func (c *Clause) Weight() int { return c.weight }

// Age returns the age of the clause. Unit numbers grow monotonically, so the
// number doubles as the age.
func (c *Clause) Age() int { return c.num }

// Empty reports whether the clause has no literals. An empty clause whose
// propositional part is the false node is the refutation.
func (c *Clause) Empty() bool { return len(c.Lits) == 0 }

// NoProp reports whether the propositional part is absent or unconditional.
func (c *Clause) NoProp(b *bdd.BDD) bool {
	return c.Prop == nil || b.IsFalse(c.Prop)
}

// NoSplits reports whether the clause depends on no split names.
func (c *Clause) NoSplits() bool { return len(c.Splits) == 0 }

// SelectedLits returns the selected literals; all literals when no selection
// has been applied.
func (c *Clause) SelectedLits() []*term.Term {
	if c.Selected == 0 {
		return c.Lits
	}
	return c.Lits[:c.Selected]
}

// String renders the clause using the store's signature, for tracing.
func (c *Clause) String(s *term.Store) string {
	if len(c.Lits) == 0 {
		return "$false"
	}
	var sb strings.Builder
	for i, l := range c.Lits {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(s.String(l))
	}
	return sb.String()
}

// FormulaUnit is a non-clausal unit: an input formula or a formula produced
// by a preprocessing pass.
type FormulaUnit struct {
	// Form is the formula.
	Form *term.Formula

	// Name is the unit name from the input file, when the unit was read.
	Name string

	num       int
	inputType InputType
	inference *Inference
}

// Num returns the unit number.
func (u *FormulaUnit) Num() int { return u.num }

// Inf returns the inference that derived the unit.
func (u *FormulaUnit) Inf() *Inference { return u.inference }

// Type returns the unit input type.
func (u *FormulaUnit) Type() InputType { return u.inputType }
