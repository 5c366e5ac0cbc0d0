package saturation

import (
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/ordering"
	"github.com/rhartert/saturn/internal/term"
)

// selectLiterals reorders the clause's literals so that the selected ones
// come first and records their count. Selection runs once, when the clause
// is activated.
//
// Function 0 selects every literal (the complete default). Function 1
// selects the maximal literals under the term ordering. Function 2 selects a
// single negative literal when one exists, preferring the heaviest, and
// falls back to the maximal literals.
func (ctx *Context) selectLiterals(c *clause.Clause, fn int) {
	if c.Selected != 0 || len(c.Lits) <= 1 {
		c.Selected = len(c.Lits)
		return
	}
	switch fn {
	case 1:
		ctx.selectMaximal(c)
	case 2:
		best := -1
		for i, l := range c.Lits {
			if l.IsNegative() && (best < 0 || l.Weight() > c.Lits[best].Weight()) {
				best = i
			}
		}
		if best < 0 {
			ctx.selectMaximal(c)
			return
		}
		c.Lits[0], c.Lits[best] = c.Lits[best], c.Lits[0]
		c.Selected = 1
	default:
		c.Selected = len(c.Lits)
	}
}

// selectMaximal moves the literals maximal in the clause to the front.
func (ctx *Context) selectMaximal(c *clause.Clause) {
	maximal := func(l *term.Term) bool {
		for _, m := range c.Lits {
			if m == l {
				continue
			}
			if ctx.Ord.CompareLits(m, l) == ordering.Greater {
				return false
			}
		}
		return true
	}
	n := 0
	for i := 0; i < len(c.Lits); i++ {
		if maximal(c.Lits[i]) {
			c.Lits[n], c.Lits[i] = c.Lits[i], c.Lits[n]
			n++
		}
	}
	if n == 0 {
		// The ordering found no maximal literal; select everything.
		n = len(c.Lits)
	}
	c.Selected = n
}
