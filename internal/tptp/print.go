package tptp

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/term"
)

// PrintProof writes the TPTP derivation of the refutation: one cnf() or
// fof() line per proof-relevant unit, oldest first. Conjecture inputs are
// printed back in their original positive polarity.
func PrintProof(w io.Writer, store *term.Store, infs *clause.Store, refutation clause.Unit) {
	var units []clause.Unit
	infs.Traverse(refutation, func(u clause.Unit) { units = append(units, u) })
	sort.Slice(units, func(i, j int) bool { return units[i].Num() < units[j].Num() })

	for _, u := range units {
		printUnit(w, store, infs, u)
	}
}

func unitName(u clause.Unit) string {
	if fu, ok := u.(*clause.FormulaUnit); ok && fu.Name != "" && fu.Inf().Rule == clause.Input {
		return fu.Name
	}
	return "u" + strconv.Itoa(u.Num())
}

func unitRole(u clause.Unit) string {
	if u.Inf().Rule == clause.Input || u.Inf().Rule == clause.ClauseNaming {
		switch u.Type() {
		case clause.Conjecture:
			return "conjecture"
		case clause.Hypothesis:
			return "hypothesis"
		case clause.Assumption:
			return "assumption"
		default:
			return "axiom"
		}
	}
	if u.Type() == clause.NegatedConjecture && u.Inf().Rule == clause.NegatedConjectureRule {
		return "negated_conjecture"
	}
	return "plain"
}

func printUnit(w io.Writer, store *term.Store, infs *clause.Store, u clause.Unit) {
	lang := "fof"
	var body string
	switch v := u.(type) {
	case *clause.Clause:
		lang = "cnf"
		body = v.String(store)
		if len(v.Lits) > 1 {
			body = "(" + body + ")"
		}
	case *clause.FormulaUnit:
		body = store.FormulaString(v.Form)
	}

	inf := u.Inf()
	parents := append([]clause.Unit{}, inf.Parents...)
	for _, rec := range infs.Splittings(u) {
		parents = append(parents, rec.Premises...)
	}
	for _, rec := range infs.Merges(u) {
		parents = append(parents, rec.MergedBy)
	}

	if len(parents) == 0 {
		fmt.Fprintf(w, "%s(%s,%s,%s).\n", lang, unitName(u), unitRole(u), body)
		return
	}
	names := make([]string, 0, len(parents))
	seen := map[int]struct{}{}
	for _, p := range parents {
		if _, ok := seen[p.Num()]; ok {
			continue
		}
		seen[p.Num()] = struct{}{}
		names = append(names, unitName(p))
	}
	fmt.Fprintf(w, "%s(%s,%s,%s,inference(%s,[status(thm)],[%s])).\n",
		lang, unitName(u), unitRole(u), body, inf.Rule, strings.Join(names, ","))
}

// PrintAnswer writes the SZS answers line for an answer tuple.
func PrintAnswer(w io.Writer, store *term.Store, answer []*term.Term, problem string) {
	fmt.Fprintf(w, "%% SZS answers Tuple [[")
	for i, t := range answer {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		fmt.Fprint(w, store.String(t))
	}
	fmt.Fprintf(w, "]|_] for %s\n", problem)
}

// PrintSZSStatus writes the final SZS status line.
func PrintSZSStatus(w io.Writer, status, problem string) {
	fmt.Fprintf(w, "%% SZS status %s for %s\n", status, problem)
}
