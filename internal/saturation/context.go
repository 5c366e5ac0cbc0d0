// Package saturation implements the given-clause saturation loop together
// with the splitter, the generating and simplifying inference rules, and
// literal selection.
package saturation

import (
	"github.com/sirupsen/logrus"

	"github.com/rhartert/saturn/internal/bdd"
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/ordering"
	"github.com/rhartert/saturn/internal/stats"
	"github.com/rhartert/saturn/internal/term"
)

// Context bundles the process-wide stores of a proving run: the term store,
// the BDD, the inference store, and the statistics. It is threaded through
// constructors explicitly so tests stay hermetic.
type Context struct {
	Store *term.Store
	BDD   *bdd.BDD
	Infs  *clause.Store
	Stats *stats.Statistics
	Ord   ordering.Ordering
	Log   logrus.FieldLogger
}

// setProp updates a clause's propositional part and its split set.
func (ctx *Context) setProp(c *clause.Clause, n *bdd.Node) {
	c.Prop = n
	c.Splits = ctx.BDD.Support(n)
}

// prop returns the clause's propositional part, defaulting to the false
// (unconditional) node.
func (ctx *Context) prop(c *clause.Clause) *bdd.Node {
	if c.Prop == nil {
		return ctx.BDD.False()
	}
	return c.Prop
}

// propImplies reports whether the propositional part a entails b, which is
// the condition under which a clause guarded by a may delete one guarded
// by b.
func (ctx *Context) propImplies(a, b *bdd.Node) bool {
	return ctx.BDD.IsTrue(ctx.BDD.Implication(a, b))
}

// isRefutation reports whether the clause is the empty refutation: no
// literals and an unconditional propositional part.
func (ctx *Context) isRefutation(c *clause.Clause) bool {
	return c.Empty() && ctx.BDD.IsFalse(ctx.prop(c))
}
