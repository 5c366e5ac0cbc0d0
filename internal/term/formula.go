package term

// Connective enumerates the formula connectives.
type Connective uint8

const (
	// Lit is an atomic formula or its negation, held as a literal term.
	Lit Connective = iota
	And
	Or
	Not
	Implies
	Iff
	Xor
	Forall
	Exists
	TrueConst
	FalseConst
)

// Formula is a first-order formula over shared literals. Formulas are plain
// trees: unlike terms they are not hash-consed, as the prover only carries
// them from parsing to clausification.
type Formula struct {
	Conn Connective

	// Literal for Conn == Lit.
	Literal *Term

	// Sub holds the subformulas: one for Not and the quantifiers, two for
	// Implies/Iff/Xor, any number for And/Or.
	Sub []*Formula

	// Bound holds the bound variables of a quantified formula.
	Bound []int
}

// NewLit wraps a literal into a formula.
func NewLit(l *Term) *Formula { return &Formula{Conn: Lit, Literal: l} }

// NewNot negates a formula.
func NewNot(f *Formula) *Formula { return &Formula{Conn: Not, Sub: []*Formula{f}} }

// NewBinary builds an And/Or/Implies/Iff/Xor formula.
func NewBinary(c Connective, l, r *Formula) *Formula {
	return &Formula{Conn: c, Sub: []*Formula{l, r}}
}

// NewJunction builds an n-ary conjunction or disjunction.
func NewJunction(c Connective, sub []*Formula) *Formula {
	if c != And && c != Or {
		panic("term: NewJunction on a non-junction connective")
	}
	return &Formula{Conn: c, Sub: sub}
}

// NewQuantified builds a Forall or Exists formula.
func NewQuantified(c Connective, vars []int, f *Formula) *Formula {
	return &Formula{Conn: c, Sub: []*Formula{f}, Bound: vars}
}

// Flatten collapses nested negations and merges nested junctions of the same
// connective, mirroring the flattening pass run before answer-literal
// detection.
func (f *Formula) Flatten() *Formula {
	switch f.Conn {
	case Not:
		sub := f.Sub[0].Flatten()
		if sub.Conn == Not {
			return sub.Sub[0]
		}
		return &Formula{Conn: Not, Sub: []*Formula{sub}}
	case And, Or:
		out := make([]*Formula, 0, len(f.Sub))
		for _, g := range f.Sub {
			g = g.Flatten()
			if g.Conn == f.Conn {
				out = append(out, g.Sub...)
			} else {
				out = append(out, g)
			}
		}
		if len(out) == 1 {
			return out[0]
		}
		return &Formula{Conn: f.Conn, Sub: out}
	case Forall, Exists:
		sub := f.Sub[0].Flatten()
		if sub.Conn == f.Conn {
			vars := append(append([]int{}, f.Bound...), sub.Bound...)
			return &Formula{Conn: f.Conn, Sub: sub.Sub, Bound: vars}
		}
		return &Formula{Conn: f.Conn, Sub: []*Formula{sub}, Bound: f.Bound}
	case Implies, Iff, Xor:
		return &Formula{
			Conn: f.Conn,
			Sub:  []*Formula{f.Sub[0].Flatten(), f.Sub[1].Flatten()},
		}
	default:
		return f
	}
}
