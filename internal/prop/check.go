// Package prop re-verifies the propositional skeleton of a splitting
// refutation with an external SAT solver. Only the solver's add/solve/model
// contract is used.
//
// Every empty clause derived during saturation asserts its propositional
// part (the clause "false or p" entails p). A splitting refutation is sound
// exactly when the conjunction of these asserted parts is unsatisfiable,
// which the BDD decides by reducing it to the false node; the checker
// reproduces the same verdict independently by Tseitin-encoding the parts
// and asking the SAT backend.
package prop

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/rhartert/saturn/internal/bdd"
	"github.com/rhartert/saturn/internal/stats"
)

// Checker encodes BDD nodes into a SAT instance.
type Checker struct {
	b     *bdd.BDD
	g     *gini.Gini
	stats *stats.Statistics

	vars  map[int]z.Lit     // split name -> solver literal
	nodes map[uint32]z.Lit  // BDD node id -> defining literal
}

// NewChecker returns a checker over the run's BDD.
func NewChecker(b *bdd.BDD, st *stats.Statistics) *Checker {
	return &Checker{
		b:     b,
		g:     gini.New(),
		stats: st,
		vars:  map[int]z.Lit{},
		nodes: map[uint32]z.Lit{},
	}
}

// VerifyRefutation asserts every given propositional part and reports
// whether the SAT backend agrees that their conjunction is unsatisfiable.
func (c *Checker) VerifyRefutation(parts []*bdd.Node) bool {
	for _, p := range parts {
		c.addClause(c.encode(p))
	}
	c.stats.SATSolverCalls++
	return c.g.Solve() == -1
}

func (c *Checker) freshLit() z.Lit {
	c.stats.SATVars++
	return c.g.Lit()
}

func (c *Checker) varLit(v int) z.Lit {
	if m, ok := c.vars[v]; ok {
		return m
	}
	m := c.freshLit()
	c.vars[v] = m
	return m
}

func (c *Checker) addClause(ms ...z.Lit) {
	for _, m := range ms {
		c.g.Add(m)
	}
	c.g.Add(z.LitNull)
	c.stats.SATClauses++
}

// encode returns a literal equivalent to the function of the node, adding
// the Tseitin definition clauses for every inner node once.
func (c *Checker) encode(n *bdd.Node) z.Lit {
	if m, ok := c.nodes[n.ID()]; ok {
		return m
	}
	if c.b.IsConstant(n) {
		m := c.freshLit()
		if c.b.IsFalse(n) {
			c.addClause(m.Not())
		} else {
			c.addClause(m)
		}
		c.nodes[n.ID()] = m
		return m
	}
	v := c.varLit(n.Var)
	lo := c.encode(n.Low)
	hi := c.encode(n.High)
	m := c.freshLit()
	// m <-> (v ? hi : lo)
	c.addClause(m.Not(), v.Not(), hi)
	c.addClause(m.Not(), v, lo)
	c.addClause(m, v.Not(), hi.Not())
	c.addClause(m, v, lo.Not())
	c.nodes[n.ID()] = m
	return m
}
