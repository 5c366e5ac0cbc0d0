package saturation

import (
	"runtime"
	"time"

	"github.com/rhartert/saturn/internal/bdd"
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/index"
	"github.com/rhartert/saturn/internal/stats"
)

// OutcomeKind is the structured result of a saturation run.
type OutcomeKind uint8

const (
	// RefutationFound means the empty unconditional clause was derived.
	RefutationFound OutcomeKind = iota

	// Saturated means passive and unprocessed drained under a complete
	// strategy: the clause set is satisfiable.
	Saturated

	// SaturatedIncomplete means the search space drained but clauses were
	// discarded, so nothing can be concluded.
	SaturatedIncomplete

	// LimitTime and LimitMemory report a tripped soft budget.
	LimitTime
	LimitMemory
)

// Outcome is returned by Run. A refutation is a structured return, never an
// error.
type Outcome struct {
	Kind       OutcomeKind
	Refutation *clause.Clause
}

// NewClauseHook observes every clause entering the loop. A non-nil return
// value is a synthetic refutation that terminates the run; the answer
// manager uses this to capture answer clauses.
type NewClauseHook interface {
	OnNewClause(c *clause.Clause) *clause.Clause
}

// Loop is the given-clause saturation algorithm. It maintains the
// unprocessed FIFO, the passive priority queues, and the active set with its
// retrieval indices.
type Loop struct {
	ctx      *Context
	opts     Options
	splitter *Splitter
	hook     NewClauseHook

	unprocessed *clauseQueue
	passive     *passiveQueue
	active      []*clause.Clause
	activeSet   map[int]struct{}

	genIndex     *index.LiteralIndex
	demodIndex   *index.EqIndex
	eqLhsIndex   *index.EqIndex
	subtermIndex *index.SubtermIndex

	start      time.Time
	refutation *clause.Clause
	discarded  bool
	memChecks  int

	// emptyProps records the propositional part of every empty clause
	// derived during the run, for the SAT-backed refutation checker.
	emptyProps []*bdd.Node
}

// EmptyClauseProps returns the propositional parts asserted by the empty
// clauses derived so far.
func (l *Loop) EmptyClauseProps() []*bdd.Node { return l.emptyProps }

// NewLoop assembles a loop over the context.
func NewLoop(ctx *Context, opts Options) *Loop {
	return &Loop{
		ctx:          ctx,
		opts:         opts,
		splitter:     NewSplitter(ctx),
		unprocessed:  newClauseQueue(128),
		passive:      newPassiveQueue(opts.AgeWeightRatio),
		activeSet:    map[int]struct{}{},
		genIndex:     index.NewLiteralIndex(ctx.Store),
		demodIndex:   index.NewEqIndex(ctx.Store),
		eqLhsIndex:   index.NewEqIndex(ctx.Store),
		subtermIndex: index.NewSubtermIndex(ctx.Store),
	}
}

// SetHook installs the new-clause hook.
func (l *Loop) SetHook(h NewClauseHook) { l.hook = h }

// AddInput feeds the initial clauses into the loop.
func (l *Loop) AddInput(cs []*clause.Clause) {
	for _, c := range cs {
		l.enqueueNew(c)
	}
}

// Run executes the given-clause algorithm until a refutation is found, the
// clause sets drain, or a resource budget trips.
func (l *Loop) Run() Outcome {
	l.start = time.Now()
	l.ctx.Stats.Phase = stats.Saturation

	for {
		for !l.unprocessed.empty() {
			if l.refutation != nil {
				return l.finish(Outcome{Kind: RefutationFound, Refutation: l.refutation})
			}
			c := l.unprocessed.pop()
			l.processUnprocessed(c)
			if out := l.checkLimits(); out != nil {
				return l.finish(*out)
			}
		}
		if l.refutation != nil {
			return l.finish(Outcome{Kind: RefutationFound, Refutation: l.refutation})
		}

		if l.passive.len() == 0 {
			kind := Saturated
			if l.discarded {
				kind = SaturatedIncomplete
			}
			return l.finish(Outcome{Kind: kind})
		}

		given := l.passive.pop()
		l.ctx.Log.WithField("clause", given.String(l.ctx.Store)).Debug("given clause")
		l.activate(given)
		if l.refutation != nil {
			return l.finish(Outcome{Kind: RefutationFound, Refutation: l.refutation})
		}
		if out := l.checkLimits(); out != nil {
			return l.finish(*out)
		}
	}
}

func (l *Loop) finish(out Outcome) Outcome {
	l.ctx.Stats.FinalPassive = l.passive.len()
	l.ctx.Stats.FinalActive = len(l.active)
	l.ctx.Stats.BDDNodes = l.ctx.BDD.NumNodes()
	switch out.Kind {
	case RefutationFound:
		l.ctx.Stats.Termination = stats.Refutation
		if out.Refutation != nil {
			l.ctx.Stats.RefutationUnit = out.Refutation.Num()
			l.ctx.Stats.HasRefutationUnit = true
		}
	case Saturated:
		l.ctx.Stats.Termination = stats.Satisfiable
	case SaturatedIncomplete:
		l.ctx.Stats.Termination = stats.RefutationNotFound
	case LimitTime:
		l.ctx.Stats.Termination = stats.TimeLimit
	case LimitMemory:
		l.ctx.Stats.Termination = stats.MemoryLimit
	}
	return out
}

// processUnprocessed forward-simplifies a dequeued clause and moves the
// survivor to passive.
func (l *Loop) processUnprocessed(c *clause.Clause) {
	s := l.forwardSimplify(c)
	if s == nil {
		return
	}
	if s != c {
		// The clause was rewritten; the replacement re-enters as a new
		// clause (it may split differently).
		l.enqueueNew(s)
		return
	}
	if l.ctx.isRefutation(s) {
		l.refutation = s
		return
	}
	if l.ctx.BDD.IsTrue(l.ctx.prop(s)) {
		// Vacuous propositional part: the clause holds trivially.
		return
	}
	l.passive.put(s)
	l.ctx.Stats.PassiveClauses++
}

// enqueueNew routes a newly derived clause through the answer hook and the
// splitter and queues the results as unprocessed.
func (l *Loop) enqueueNew(c *clause.Clause) {
	l.ctx.Stats.GeneratedClauses++

	if l.hook != nil {
		if ref := l.hook.OnNewClause(c); ref != nil {
			l.refutation = ref
			return
		}
	}
	if l.opts.MaxClauseWeight > 0 && c.Weight() > l.opts.MaxClauseWeight {
		l.discarded = true
		return
	}

	if l.opts.Splitting == SplittingOff || l.containsAnswerLiteral(c) {
		// Clauses carrying answer literals stay whole: naming an answer
		// component would guard the witness behind a split name and
		// defeat the capture.
		l.pushUnprocessed(c)
		return
	}
	news, modified := l.splitter.Split(c)
	for _, n := range news {
		l.pushUnprocessed(n)
	}
	for _, m := range modified {
		// A tightened propositional part may have turned an existing
		// component into the refutation.
		if l.ctx.isRefutation(m) {
			l.refutation = m
			return
		}
	}
}

// containsAnswerLiteral reports whether any literal of the clause belongs to
// an answer predicate.
func (l *Loop) containsAnswerLiteral(c *clause.Clause) bool {
	for _, lit := range c.Lits {
		if !lit.IsEquality() && l.ctx.Store.Sig.Predicate(lit.Functor()).Answer {
			return true
		}
	}
	return false
}

func (l *Loop) pushUnprocessed(c *clause.Clause) {
	if c.Empty() {
		l.emptyProps = append(l.emptyProps, l.ctx.prop(c))
	}
	if l.ctx.isRefutation(c) {
		l.refutation = c
		return
	}
	l.unprocessed.push(c)
}

// activate turns the given clause into an active clause: literal selection,
// backward simplification of the current active set, index registration, and
// generating inferences.
func (l *Loop) activate(given *clause.Clause) {
	l.ctx.selectLiterals(given, l.opts.Selection)
	l.backwardSimplify(given)

	l.active = append(l.active, given)
	l.activeSet[given.Num()] = struct{}{}
	l.ctx.Stats.ActiveClauses++

	for _, lit := range given.SelectedLits() {
		l.genIndex.Insert(lit, given)
		l.subtermIndex.Insert(lit, given)
		if lit.IsEquality() && lit.IsPositive() {
			for _, o := range orientations(l.ctx, lit) {
				l.eqLhsIndex.Insert(o.lhs, o.rhs, lit, given)
			}
		}
	}
	if given.Len() == 1 && given.Lits[0].IsEquality() && given.Lits[0].IsPositive() {
		for _, o := range orientations(l.ctx, given.Lits[0]) {
			l.demodIndex.Insert(o.lhs, o.rhs, given.Lits[0], given)
		}
	}

	l.generate(given)
}

// isActive reports whether the clause is currently in the active set.
func (l *Loop) isActive(c *clause.Clause) bool {
	_, ok := l.activeSet[c.Num()]
	return ok
}

// deactivate removes a backward-simplified clause from the active set and
// every index.
func (l *Loop) deactivate(c *clause.Clause) {
	if !l.isActive(c) {
		return
	}
	delete(l.activeSet, c.Num())
	for i, a := range l.active {
		if a == c {
			l.active = append(l.active[:i:i], l.active[i+1:]...)
			break
		}
	}
	for _, lit := range c.SelectedLits() {
		l.genIndex.Remove(lit, c)
		l.subtermIndex.Remove(lit, c)
		if lit.IsEquality() && lit.IsPositive() {
			for _, o := range orientations(l.ctx, lit) {
				l.eqLhsIndex.Remove(o.lhs, o.rhs, lit, c)
			}
		}
	}
	if c.Len() == 1 && c.Lits[0].IsEquality() && c.Lits[0].IsPositive() {
		for _, o := range orientations(l.ctx, c.Lits[0]) {
			l.demodIndex.Remove(o.lhs, o.rhs, c.Lits[0], c)
		}
	}
}

// checkLimits polls the soft time and memory budgets.
func (l *Loop) checkLimits() *Outcome {
	if l.opts.TimeLimit > 0 && time.Since(l.start) > l.opts.TimeLimit {
		return &Outcome{Kind: LimitTime}
	}
	if l.opts.MemoryLimitMB > 0 {
		l.memChecks++
		if l.memChecks%64 == 0 {
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			if int(ms.HeapAlloc/(1<<20)) > l.opts.MemoryLimitMB {
				return &Outcome{Kind: LimitMemory}
			}
		}
	}
	return nil
}
