package index

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/term"
)

// VariantIndex retrieves clauses equal to a query clause up to variable
// renaming. It is used by the splitter to recognise components that have
// been seen before.
//
// Clauses are bucketed by a renaming-invariant shape key; candidates in a
// bucket are checked exactly with a backtracking variant test that requires
// the variable renaming to be a bijection.
type VariantIndex struct {
	buckets map[string][]*clause.Clause
	size    int
}

// NewVariantIndex returns an empty variant index.
func NewVariantIndex() *VariantIndex {
	return &VariantIndex{buckets: map[string][]*clause.Clause{}}
}

// Insert adds the clause.
func (ix *VariantIndex) Insert(cl *clause.Clause) {
	k := shapeKey(cl.Lits)
	ix.buckets[k] = append(ix.buckets[k], cl)
	ix.size++
}

// Remove deletes the clause.
func (ix *VariantIndex) Remove(cl *clause.Clause) {
	k := shapeKey(cl.Lits)
	bucket := ix.buckets[k]
	for i, c := range bucket {
		if c == cl {
			ix.buckets[k] = append(bucket[:i:i], bucket[i+1:]...)
			ix.size--
			return
		}
	}
}

// Size returns the number of stored clauses.
func (ix *VariantIndex) Size() int { return ix.size }

// RetrieveVariant returns the stored clause that is a variant of the given
// literal multiset, or nil. The index never stores two variants of the same
// clause, so the first hit is the only one.
func (ix *VariantIndex) RetrieveVariant(lits []*term.Term) *clause.Clause {
	for _, c := range ix.buckets[shapeKey(lits)] {
		if len(c.Lits) == len(lits) && variantLits(c.Lits, lits) {
			return c
		}
	}
	return nil
}

// shapeKey renders the literal multiset with all variables collapsed, sorted
// so that literal order does not matter.
func shapeKey(lits []*term.Term) string {
	shapes := make([]string, len(lits))
	for i, l := range lits {
		var sb strings.Builder
		writeShape(&sb, l)
		shapes[i] = sb.String()
	}
	sort.Strings(shapes)
	return strings.Join(shapes, "|")
}

func writeShape(sb *strings.Builder, t *term.Term) {
	if t.IsVar() {
		sb.WriteByte('*')
		return
	}
	if t.IsLiteral() {
		sb.WriteByte('h')
		sb.WriteString(strconv.Itoa(t.Header()))
	} else {
		sb.WriteByte('f')
		sb.WriteString(strconv.Itoa(t.Functor()))
	}
	if t.Arity() == 0 {
		return
	}
	sb.WriteByte('(')
	for i, a := range t.Args() {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeShape(sb, a)
	}
	sb.WriteByte(')')
}

// variantLits checks whether two literal multisets are equal up to a
// bijective variable renaming, searching over literal pairings.
func variantLits(as, bs []*term.Term) bool {
	m := &varBijection{fwd: map[int]int{}, rev: map[int]int{}}
	used := make([]bool, len(bs))
	var try func(i int) bool
	try = func(i int) bool {
		if i == len(as) {
			return true
		}
		for j := range bs {
			if used[j] {
				continue
			}
			mark := m.mark()
			if m.matchLits(as[i], bs[j]) {
				used[j] = true
				if try(i + 1) {
					return true
				}
				used[j] = false
			}
			m.undo(mark)
		}
		return false
	}
	return try(0)
}

type varBijection struct {
	fwd, rev map[int]int
	trail    []int // forward keys, for undo
}

func (m *varBijection) mark() int { return len(m.trail) }

func (m *varBijection) undo(mark int) {
	for len(m.trail) > mark {
		v := m.trail[len(m.trail)-1]
		m.trail = m.trail[:len(m.trail)-1]
		w := m.fwd[v]
		delete(m.fwd, v)
		delete(m.rev, w)
	}
}

func (m *varBijection) bind(v, w int) bool {
	if x, ok := m.fwd[v]; ok {
		return x == w
	}
	if _, ok := m.rev[w]; ok {
		return false
	}
	m.fwd[v] = w
	m.rev[w] = v
	m.trail = append(m.trail, v)
	return true
}

func (m *varBijection) matchLits(a, b *term.Term) bool {
	if a.IsLiteral() != b.IsLiteral() {
		return false
	}
	if a.IsLiteral() && a.Header() != b.Header() {
		return false
	}
	return m.matchTerms(a, b)
}

func (m *varBijection) matchTerms(a, b *term.Term) bool {
	if a.IsVar() != b.IsVar() {
		return false
	}
	if a.IsVar() {
		if a.Kind() != b.Kind() {
			return false
		}
		return m.bind(a.VarID(), b.VarID())
	}
	if a.Functor() != b.Functor() || a.Arity() != b.Arity() {
		return false
	}
	for i := 0; i < a.Arity(); i++ {
		if !m.matchTerms(a.Arg(i), b.Arg(i)) {
			return false
		}
	}
	return true
}
