// Package term implements the shared term and literal representation used by
// the prover. Terms are hash-consed: building the same term twice through the
// same Store returns the same pointer, which makes structural equality a
// pointer comparison and lets the rest of the prover cache per-term data.
package term

// Kind discriminates the three forms a term can take.
type Kind uint8

const (
	// Var is an ordinary variable identified by its index.
	Var Kind = iota

	// SpecialVar is a variable from a disjoint namespace reserved for
	// internal substitution slots.
	SpecialVar

	// Compound is a function or predicate symbol applied to arguments.
	Compound
)

// Colour partitions symbols for interpolation. Most symbols are Transparent.
type Colour uint8

const (
	Transparent Colour = iota
	ColourLeft
	ColourRight
)

// Equality is the reserved predicate number for the equality predicate.
const Equality = 0

// unknownDistinctVars is the sentinel for a distinct-variable count that has
// not been computed yet.
const unknownDistinctVars = -1

// Term is a shared term, literal, or variable. Terms must only be created
// through a Store; two structurally equal terms created through the same
// Store are the same pointer.
type Term struct {
	kind    Kind
	functor int
	args    []*Term

	// Literal fields.
	literal  bool
	positive bool
	twoVarEq bool
	sort     int

	// Cached attributes, filled in when the term is shared.
	id           uint32
	shared       bool
	ground       bool
	commutative  bool
	interpreted  bool
	colour       Colour
	orderHint    uint8
	weight       int
	varOccs      int
	distinctVars int
}

// Kind returns the kind of the term.
func (t *Term) Kind() Kind { return t.kind }

// IsVar returns true if the term is an ordinary or special variable.
func (t *Term) IsVar() bool { return t.kind != Compound }

// VarID returns the variable index of a variable term.
func (t *Term) VarID() int {
	if t.kind == Compound {
		panic("term: VarID on a compound term")
	}
	return t.functor
}

// Functor returns the function (or predicate) symbol number of a compound.
func (t *Term) Functor() int { return t.functor }

// Arity returns the number of arguments.
func (t *Term) Arity() int { return len(t.args) }

// Arg returns the i-th argument.
func (t *Term) Arg(i int) *Term { return t.args[i] }

// Args returns the argument slice. The slice must not be mutated.
func (t *Term) Args() []*Term { return t.args }

// ID returns the identity of the term within its Store. IDs are allocated in
// creation order, so they double as a deterministic age tie-break.
func (t *Term) ID() uint32 { return t.id }

// Ground returns true if the term contains no variables.
func (t *Term) Ground() bool {
	if t.kind != Compound {
		return false
	}
	return t.ground
}

// Weight returns the number of symbol occurrences in the term. Variables
// weigh one, and weight(f(t1..tn)) = 1 + sum weight(ti).
func (t *Term) Weight() int {
	if t.kind != Compound {
		return 1
	}
	return t.weight
}

// VarOccs returns the total number of variable occurrences in the term.
func (t *Term) VarOccs() int {
	if t.kind != Compound {
		return 1
	}
	return t.varOccs
}

// DistinctVars returns the number of distinct variables in the term. The
// count is computed lazily on first use.
func (t *Term) DistinctVars() int {
	if t.kind != Compound {
		return 1
	}
	if t.twoVarEq {
		// Two-variable equalities carry their sort in place of the
		// variable count field.
		return 2
	}
	if t.distinctVars == unknownDistinctVars {
		seen := map[int]struct{}{}
		t.IterVars(func(v int) { seen[v] = struct{}{} })
		t.distinctVars = len(seen)
	}
	return t.distinctVars
}

// Commutative returns true if the top symbol is commutative (equality, or a
// predicate declared symmetric).
func (t *Term) Commutative() bool { return t.commutative }

// InterpretedConst reports whether the term is an interpreted constant of one
// of the recognised arithmetic signatures.
func (t *Term) InterpretedConst() bool { return t.interpreted }

// Colour returns the interpolation colour of the term.
func (t *Term) Colour() Colour { return t.colour }

// OrderHint returns the argument-order hint (0-7) for commutative literals.
func (t *Term) OrderHint() uint8 { return t.orderHint }

// IsLiteral returns true if the term is a literal.
func (t *Term) IsLiteral() bool { return t.literal }

// IsPositive returns the polarity of a literal.
func (t *Term) IsPositive() bool { return t.positive }

// IsNegative returns true for a negative literal.
func (t *Term) IsNegative() bool { return !t.positive }

// IsEquality returns true if the literal is an equality literal.
func (t *Term) IsEquality() bool { return t.literal && t.functor == Equality }

// IsTwoVarEquality returns true if the literal is an equality both of whose
// sides are variables.
func (t *Term) IsTwoVarEquality() bool { return t.twoVarEq }

// TwoVarEqSort returns the sort of the variables of a two-variable equality.
func (t *Term) TwoVarEqSort() int {
	if !t.twoVarEq {
		panic("term: TwoVarEqSort on a non two-variable equality")
	}
	return t.sort
}

// Header returns 2*predicate + polarity for a literal. Complementary literals
// have headers differing in the lowest bit.
func (t *Term) Header() int {
	if !t.literal {
		panic("term: Header on a non-literal")
	}
	h := 2 * t.functor
	if t.positive {
		h++
	}
	return h
}

// ComplementaryHeader returns the header of the complement of the literal.
func (t *Term) ComplementaryHeader() int { return t.Header() ^ 1 }

// IterVars calls f once per variable occurrence in the term, in left-to-right
// traversal order.
func (t *Term) IterVars(f func(v int)) {
	if t.kind != Compound {
		f(t.functor)
		return
	}
	for _, a := range t.args {
		a.IterVars(f)
	}
}

// ContainsVar returns true if variable v occurs in the term.
func (t *Term) ContainsVar(v int) bool {
	found := false
	t.IterVars(func(w int) {
		if w == v {
			found = true
		}
	})
	return found
}

// IterSubterms calls f for every compound subterm of t (including t itself
// when t is a compound), outermost first.
func (t *Term) IterSubterms(f func(*Term)) {
	if t.kind != Compound {
		return
	}
	f(t)
	for _, a := range t.args {
		a.IterSubterms(f)
	}
}
