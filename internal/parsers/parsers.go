// Package parsers is the input front door of the prover: it loads a problem
// file as TPTP or, for propositional instances, as DIMACS CNF, with
// transparent gzip decompression.
package parsers

import (
	"compress/gzip"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rhartert/dimacs"

	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/stats"
	"github.com/rhartert/saturn/internal/term"
	"github.com/rhartert/saturn/internal/tptp"
)

// LoadProblem reads the problem file into units. Files ending in .cnf,
// .dimacs, or .sat (optionally .gz-compressed) are parsed as DIMACS;
// everything else is TPTP.
func LoadProblem(path string, store *term.Store, infs *clause.Store, st *stats.Statistics, includeRoot string) ([]clause.Unit, error) {
	name := path
	gzipped := strings.HasSuffix(name, ".gz")
	if gzipped {
		name = strings.TrimSuffix(name, ".gz")
	}
	if isDIMACS(name) {
		return loadDIMACS(path, gzipped, store, infs, st)
	}
	p := tptp.NewParser(store, infs, st)
	p.IncludeRoot = includeRoot
	return p.ParseFile(path)
}

func isDIMACS(name string) bool {
	return strings.HasSuffix(name, ".cnf") ||
		strings.HasSuffix(name, ".dimacs") ||
		strings.HasSuffix(name, ".sat")
}

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			file.Close()
			return nil, err
		}
	}
	return rc, nil
}

// loadDIMACS parses a DIMACS CNF file into propositional clauses: DIMACS
// variable v becomes the arity-0 predicate pv, so the instance routes
// through the splitter's propositional naming path.
func loadDIMACS(filename string, gzipped bool, store *term.Store, infs *clause.Store, st *stats.Statistics) ([]clause.Unit, error) {
	rc, err := reader(filename, gzipped)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading file %q", filename)
	}
	defer rc.Close()

	b := &builder{store: store, infs: infs, stats: st}
	if err := dimacs.ReadBuilder(rc, b); err != nil {
		return nil, errors.Wrapf(err, "could not parse DIMACS instance %q", filename)
	}
	return b.units, nil
}

// builder wraps the stores to implement dimacs.Builder.
type builder struct {
	store *term.Store
	infs  *clause.Store
	stats *stats.Statistics
	units []clause.Unit
}

func (b *builder) Problem(problem string, nVars, nClauses int) error {
	if problem != "cnf" {
		return errors.Errorf("instances of type %q are not supported", problem)
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	lits := make([]*term.Term, len(tmpClause))
	for i, v := range tmpClause {
		positive := v > 0
		if !positive {
			v = -v
		}
		pred := b.store.Sig.AddPredicate("p"+strconv.Itoa(v), 0)
		lits[i] = b.store.CreateLiteral(pred, positive, nil)
	}
	b.stats.InputClauses++
	b.units = append(b.units, b.infs.NewClause(lits, clause.Axiom, clause.NewInference(clause.Input)))
	return nil
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}
