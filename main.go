package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/rhartert/saturn/internal/answer"
	"github.com/rhartert/saturn/internal/bdd"
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/ordering"
	"github.com/rhartert/saturn/internal/parsers"
	"github.com/rhartert/saturn/internal/prop"
	"github.com/rhartert/saturn/internal/saturation"
	"github.com/rhartert/saturn/internal/stats"
	"github.com/rhartert/saturn/internal/term"
	"github.com/rhartert/saturn/internal/tptp"
)

var flagTimeLimit = flag.Int(
	"time-limit",
	0,
	"soft time limit in deciseconds (0 = no limit)",
)

var flagMemoryLimit = flag.Int(
	"memory-limit",
	0,
	"soft memory limit in MB (0 = no limit)",
)

var flagAgeWeightRatio = flag.Int(
	"age-weight-ratio",
	4,
	"number of weight-best given-clause picks between two age-best picks",
)

var flagOrdering = flag.String(
	"ordering",
	"kbo",
	"simplification ordering: kbo or lpo",
)

var flagSelection = flag.Int(
	"selection",
	0,
	"literal selection function (0 = all, 1 = maximal, 2 = negative+maximal)",
)

var flagSplitting = flag.String(
	"splitting",
	"on",
	"splitting mode: off or on",
)

var flagSeed = flag.Int64(
	"seed",
	0,
	"random seed for the symbol precedence (0 = no shuffling)",
)

var flagProof = flag.Bool(
	"proof",
	false,
	"print the TPTP derivation of the refutation",
)

var flagCheckSplits = flag.Bool(
	"check-splits",
	false,
	"re-verify the splitting refutation with the SAT backend",
)

var flagStats = flag.Bool(
	"stats",
	true,
	"print statistics after the run",
)

var flagInclude = flag.String(
	"include",
	"",
	"TPTP include root (defaults to the TPTP environment variable)",
)

var flagVerbose = flag.Bool(
	"verbose",
	false,
	"enable debug tracing of the saturation loop",
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

type config struct {
	problemFile string
	includeRoot string
	ordering    string
	seed        int64
	proof       bool
	checkSplits bool
	printStats  bool
	verbose     bool
	cpuProfile  bool
	memProfile  bool
	saturation  saturation.Options
}

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing problem file")
	}
	cfg := &config{
		problemFile: flag.Arg(0),
		includeRoot: *flagInclude,
		ordering:    *flagOrdering,
		seed:        *flagSeed,
		proof:       *flagProof,
		checkSplits: *flagCheckSplits,
		printStats:  *flagStats,
		verbose:     *flagVerbose,
		cpuProfile:  *flagCPUProfile,
		memProfile:  *flagMemProfile,
	}
	if cfg.includeRoot == "" {
		cfg.includeRoot = os.Getenv("TPTP")
	}

	cfg.saturation = saturation.DefaultOptions
	cfg.saturation.AgeWeightRatio = *flagAgeWeightRatio
	cfg.saturation.Selection = *flagSelection
	cfg.saturation.TimeLimit = time.Duration(*flagTimeLimit) * 100 * time.Millisecond
	cfg.saturation.MemoryLimitMB = *flagMemoryLimit
	switch *flagSplitting {
	case "on":
		cfg.saturation.Splitting = saturation.SplittingOn
	case "off":
		cfg.saturation.Splitting = saturation.SplittingOff
	default:
		return nil, fmt.Errorf("unknown splitting mode %q", *flagSplitting)
	}
	if cfg.ordering != "kbo" && cfg.ordering != "lpo" {
		return nil, fmt.Errorf("unknown ordering %q", cfg.ordering)
	}
	return cfg, nil
}

// run executes one proving run and returns the process exit code.
func run(cfg *config) (int, error) {
	log := logrus.New()
	if cfg.verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	st := stats.New()
	store := term.NewStore(term.NewSignature())
	infs := clause.NewStore()

	installSignalHandler(st)

	st.Phase = stats.Parsing
	units, err := parsers.LoadProblem(cfg.problemFile, store, infs, st, cfg.includeRoot)
	if err != nil {
		return 2, err
	}
	hasConjecture := false
	for _, u := range units {
		if u.Type() == clause.Conjecture {
			hasConjecture = true
		}
	}

	st.Phase = stats.Preprocessing
	clausifier := tptp.NewClausifier(store, infs, st)
	units = clausifier.NegateConjectures(units)

	ctx := &saturation.Context{Store: store, BDD: bdd.New(), Infs: infs, Stats: st, Log: log}

	mgr := answer.NewManager(store, ctx.BDD, infs, st)
	units = mgr.AddAnswerLiterals(units)

	st.Phase = stats.Clausification
	clauses := clausifier.Clausify(units)

	prec := ordering.NewPrecedence(store.Sig, cfg.seed)
	if cfg.ordering == "lpo" {
		ctx.Ord = ordering.NewLPO(prec)
	} else {
		ctx.Ord = ordering.NewKBO(store.Sig, prec)
	}

	loop := saturation.NewLoop(ctx, cfg.saturation)
	loop.SetHook(mgr)
	loop.AddInput(clauses)

	outcome := loop.Run()

	st.Phase = stats.Finalization
	status := szsStatus(outcome, hasConjecture)

	if outcome.Kind == saturation.RefutationFound {
		if ans, ok := mgr.ExtractAnswer(outcome.Refutation); ok {
			tptp.PrintAnswer(os.Stdout, store, ans, cfg.problemFile)
		}
		if cfg.proof {
			tptp.PrintProof(os.Stdout, store, infs, outcome.Refutation)
		}
		if cfg.checkSplits {
			parts := loop.EmptyClauseProps()
			if p := outcome.Refutation.Prop; p != nil {
				parts = append(parts, p)
			}
			checker := prop.NewChecker(ctx.BDD, st)
			if !checker.VerifyRefutation(parts) {
				return 2, fmt.Errorf("splitting refutation failed the SAT check")
			}
			fmt.Println("% splitting refutation verified by the SAT backend")
		}
	}

	tptp.PrintSZSStatus(os.Stdout, status, cfg.problemFile)
	if cfg.printStats {
		st.Print(os.Stdout)
	}

	switch outcome.Kind {
	case saturation.RefutationFound, saturation.Saturated:
		return 0, nil
	default:
		return 1, nil
	}
}

func szsStatus(outcome saturation.Outcome, hasConjecture bool) string {
	switch outcome.Kind {
	case saturation.RefutationFound:
		if hasConjecture {
			return "Theorem"
		}
		return "Unsatisfiable"
	case saturation.Saturated:
		if hasConjecture {
			return "CounterSatisfiable"
		}
		return "Satisfiable"
	case saturation.LimitTime, saturation.LimitMemory:
		return "Timeout"
	default:
		return "GaveUp"
	}
}

// installSignalHandler makes SIGINT transition to finalisation: statistics
// are printed and the process exits with a well-defined code.
func installSignalHandler(st *stats.Statistics) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		st.Phase = stats.Finalization
		st.Print(os.Stdout)
		os.Exit(1)
	}()
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	code, err := run(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}

	os.Exit(code)
}
