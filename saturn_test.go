package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/rhartert/saturn/internal/answer"
	"github.com/rhartert/saturn/internal/bdd"
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/ordering"
	"github.com/rhartert/saturn/internal/parsers"
	"github.com/rhartert/saturn/internal/saturation"
	"github.com/rhartert/saturn/internal/stats"
	"github.com/rhartert/saturn/internal/term"
	"github.com/rhartert/saturn/internal/tptp"
)

// This test suite proves every instance under testdataDir and compares the
// outcome against the instance's companion file. Each test case consists of:
//
//   - A problem file in TPTP (".p") or DIMACS (".cnf") syntax.
//   - An expectations file with the same name plus the ".expect" extension.
//     Its first line is the expected SZS status; an optional second line of
//     the form "answer: t1,...,tn" is the expected answer tuple.
var testdataDir = "testdata"

type testCase struct {
	name        string
	problemFile string
	expectFile  string
}

func listTestCases(dir string) ([]testCase, error) {
	var cases []testCase
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".expect") {
			return nil
		}
		cases = append(cases, testCase{
			name:        d.Name(),
			problemFile: path,
			expectFile:  path + ".expect",
		})
		return nil
	})
	return cases, err
}

// proveResult is what one in-process proving run produced.
type proveResult struct {
	status string
	answer []string
	stats  *stats.Statistics
}

// prove runs the full pipeline on one problem file, mirroring the main
// program.
func prove(t *testing.T, path string, opts saturation.Options) proveResult {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	st := stats.New()
	store := term.NewStore(term.NewSignature())
	infs := clause.NewStore()

	units, err := parsers.LoadProblem(path, store, infs, st, "")
	if err != nil {
		t.Fatalf("could not load problem: %s", err)
	}
	hasConjecture := false
	for _, u := range units {
		if u.Type() == clause.Conjecture {
			hasConjecture = true
		}
	}

	clausifier := tptp.NewClausifier(store, infs, st)
	units = clausifier.NegateConjectures(units)

	ctx := &saturation.Context{Store: store, BDD: bdd.New(), Infs: infs, Stats: st, Log: log}
	mgr := answer.NewManager(store, ctx.BDD, infs, st)
	units = mgr.AddAnswerLiterals(units)
	clauses := clausifier.Clausify(units)

	prec := ordering.NewPrecedence(store.Sig, 0)
	ctx.Ord = ordering.NewKBO(store.Sig, prec)

	loop := saturation.NewLoop(ctx, opts)
	loop.SetHook(mgr)
	loop.AddInput(clauses)
	outcome := loop.Run()

	res := proveResult{stats: st}
	switch outcome.Kind {
	case saturation.RefutationFound:
		if hasConjecture {
			res.status = "Theorem"
		} else {
			res.status = "Unsatisfiable"
		}
		if ans, ok := mgr.ExtractAnswer(outcome.Refutation); ok {
			for _, a := range ans {
				res.answer = append(res.answer, store.String(a))
			}
		}
	case saturation.Saturated:
		if hasConjecture {
			res.status = "CounterSatisfiable"
		} else {
			res.status = "Satisfiable"
		}
	default:
		res.status = "GaveUp"
	}
	return res
}

func TestProveAll(t *testing.T) {
	cases, err := listTestCases(testdataDir)
	if err != nil {
		t.Fatalf("error listing test cases: %s", err)
	}
	if len(cases) == 0 {
		t.Fatal("no test cases found")
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			raw, err := os.ReadFile(tc.expectFile)
			if err != nil {
				t.Fatalf("missing expectations: %s", err)
			}
			lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
			wantStatus := strings.TrimSpace(lines[0])
			wantAnswer := ""
			if len(lines) > 1 && strings.HasPrefix(lines[1], "answer:") {
				wantAnswer = strings.TrimSpace(strings.TrimPrefix(lines[1], "answer:"))
			}

			res := prove(t, tc.problemFile, saturation.DefaultOptions)

			if res.status != wantStatus {
				t.Errorf("status: got %s, want %s", res.status, wantStatus)
			}
			if wantAnswer != "" {
				got := strings.Join(res.answer, ",")
				if got != wantAnswer {
					t.Errorf("answer: got %q, want %q", got, wantAnswer)
				}
			}
		})
	}
}

// TestProveAllNoSplitting re-proves every test instance with the
// splitter disabled: the outcomes must not depend on the splitting mode.
func TestProveAllNoSplitting(t *testing.T) {
	cases, err := listTestCases(testdataDir)
	if err != nil {
		t.Fatalf("error listing test cases: %s", err)
	}

	opts := saturation.DefaultOptions
	opts.Splitting = saturation.SplittingOff

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			raw, err := os.ReadFile(tc.expectFile)
			if err != nil {
				t.Fatalf("missing expectations: %s", err)
			}
			wantStatus := strings.TrimSpace(strings.Split(strings.TrimSpace(string(raw)), "\n")[0])

			res := prove(t, tc.problemFile, opts)
			if res.status != wantStatus {
				t.Errorf("status: got %s, want %s", res.status, wantStatus)
			}
		})
	}
}
