// Package ordering implements the simplification orderings used to orient
// equalities and to select maximal literals: the Knuth-Bendix ordering and a
// lexicographic path ordering. Both are parameterised by a symbol precedence.
package ordering

import (
	"math/rand"

	"github.com/rhartert/saturn/internal/term"
)

// Result is the outcome of comparing two terms.
type Result int8

const (
	Incomparable Result = iota
	Greater
	Less
	Equal
)

func (r Result) String() string {
	switch r {
	case Greater:
		return "greater"
	case Less:
		return "less"
	case Equal:
		return "equal"
	}
	return "incomparable"
}

// Reverse flips Greater and Less.
func (r Result) Reverse() Result {
	switch r {
	case Greater:
		return Less
	case Less:
		return Greater
	}
	return r
}

// Ordering compares shared terms. Implementations must be simplification
// orderings: compatible with contexts, stable under substitution, and with
// the subterm property.
type Ordering interface {
	// Compare compares two terms of the same bank.
	Compare(s, t *term.Term) Result

	// CompareLits compares two literals, extending the term ordering to
	// literals in the usual multiset fashion on equality arguments and by
	// header precedence otherwise.
	CompareLits(l1, l2 *term.Term) Result
}

// Precedence assigns each function symbol a rank. Symbols of higher rank are
// greater in the precedence.
type Precedence struct {
	rank []int
}

// NewPrecedence builds the default precedence over the signature: symbols
// are ranked by arity first, then by symbol number. A non-zero seed shuffles
// symbols within equal-arity groups, which is the strategy's randomisation
// point.
func NewPrecedence(sig *term.Signature, seed int64) *Precedence {
	n := sig.NumFunctions()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if seed != 0 {
		rnd := rand.New(rand.NewSource(seed))
		rnd.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	// Stable sort by arity so that the shuffle only permutes symbols of
	// equal arity.
	for i := 1; i < n; i++ {
		for j := i; j > 0 && sig.Function(order[j]).Arity < sig.Function(order[j-1]).Arity; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	p := &Precedence{rank: make([]int, n)}
	for r, f := range order {
		p.rank[f] = r
	}
	return p
}

// Rank returns the precedence rank of function symbol f. Symbols registered
// after the precedence was built rank above all earlier ones.
func (p *Precedence) Rank(f int) int {
	if f >= len(p.rank) {
		return f
	}
	return p.rank[f]
}

// compareLits is the literal extension shared by KBO and LPO.
func compareLits(o Ordering, p *Precedence, l1, l2 *term.Term) Result {
	if l1 == l2 {
		return Equal
	}
	// Equality literals are smaller than non-equality literals; among
	// non-equality literals the header decides, comparing argument tuples
	// lexicographically on ties.
	e1, e2 := l1.IsEquality(), l2.IsEquality()
	switch {
	case e1 && !e2:
		return Less
	case !e1 && e2:
		return Greater
	case e1 && e2:
		return compareEqualityLits(o, l1, l2)
	}
	if h1, h2 := l1.Header(), l2.Header(); h1 != h2 {
		if h1 > h2 {
			return Greater
		}
		return Less
	}
	for i := 0; i < l1.Arity(); i++ {
		if r := o.Compare(l1.Arg(i), l2.Arg(i)); r != Equal {
			return r
		}
	}
	return Equal
}

// compareEqualityLits compares two equality literals as the multisets of
// their sides, with negative equalities greater than positive ones on equal
// multisets.
func compareEqualityLits(o Ordering, l1, l2 *term.Term) Result {
	m1 := [2]*term.Term{l1.Arg(0), l1.Arg(1)}
	m2 := [2]*term.Term{l2.Arg(0), l2.Arg(1)}
	r := compareMultisets(o, m1, m2)
	if r != Equal {
		return r
	}
	switch {
	case l1.IsPositive() == l2.IsPositive():
		return Equal
	case l1.IsNegative():
		return Greater
	default:
		return Less
	}
}

func compareMultisets(o Ordering, a, b [2]*term.Term) Result {
	// Drop common elements first.
	if a[0] == b[0] || a[0] == b[1] {
		rest := b[1]
		if a[0] == b[1] {
			rest = b[0]
		}
		return o.Compare(a[1], rest)
	}
	if a[1] == b[0] || a[1] == b[1] {
		rest := b[1]
		if a[1] == b[1] {
			rest = b[0]
		}
		return o.Compare(a[0], rest)
	}
	gt := func(x, y *term.Term) bool { return o.Compare(x, y) == Greater }
	covers := func(xs, ys [2]*term.Term) bool {
		// Every y must be dominated by some x.
		return (gt(xs[0], ys[0]) || gt(xs[1], ys[0])) &&
			(gt(xs[0], ys[1]) || gt(xs[1], ys[1]))
	}
	if covers(a, b) {
		return Greater
	}
	if covers(b, a) {
		return Less
	}
	return Incomparable
}
