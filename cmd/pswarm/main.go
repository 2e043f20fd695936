// Command pswarm runs particle swarm optimization trials against the
// built-in benchmark functions, reporting a success rate in the same
// style as the classic test-function literature.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/rogerwibrew/pswarm"
	"github.com/rogerwibrew/pswarm/bench"
	"github.com/rogerwibrew/pswarm/config"
	"github.com/rogerwibrew/pswarm/rng"
)

var (
	cfgPath = flag.String("config", "", "YAML config file")
	fnName  = flag.String("f", "", "benchmark function (overrides config)")
	ndim    = flag.Int("dim", 0, "dimensions for scalable functions (overrides config)")
	seed    = flag.Int64("seed", 0, "random seed (overrides config; 0 keeps config/entropy)")
	trials  = flag.Int("trials", 0, "independent runs (overrides config)")
	workers = flag.Int("workers", 0, "parallel evaluation workers (overrides config)")
	dbPath  = flag.String("db", "", "sqlite file recording every iteration (overrides config)")
	trace   = flag.Bool("trace", false, "print every objective evaluation")
)

func main() {
	flag.Parse()
	log := logrus.New()

	cfg, err := config.NewManager(*cfgPath).Load()
	if err != nil {
		log.Fatal(err)
	}
	if *fnName != "" {
		cfg.Function = *fnName
	}
	if *ndim > 0 {
		cfg.Dimensions = *ndim
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *trials > 0 {
		cfg.Trials = *trials
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}

	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(lvl)

	fn, err := lookup(cfg.Function, cfg.Dimensions)
	if err != nil {
		log.Fatal(err)
	}

	var db *sql.DB
	if cfg.Database != "" {
		db, err = sql.Open("sqlite3", cfg.Database)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
	}

	src := rng.New()
	if cfg.Seed != 0 {
		src = rng.NewSeeded(cfg.Seed)
	}

	var obj pswarm.Objectiver = pswarm.ObjectiveFunc(fn.Eval)
	if *trace {
		obj = pswarm.NewObjectivePrinter(obj)
	}

	opts := []pswarm.Option{pswarm.Logger(log)}
	if cfg.Workers > 1 {
		opts = append(opts, pswarm.Evals(pswarm.ParallelEvaler{NWorkers: cfg.Workers}))
	}
	if db != nil {
		opts = append(opts, pswarm.DB(db))
	}
	if cfg.ArchiveSize > 0 {
		opts = append(opts, pswarm.Archive(cfg.ArchiveSize))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	low, up := fn.Bounds()
	params := cfg.Params(low, up)

	optimum := fn.Optima()[0].Val
	tol := math.Abs(optimum * .01)
	if tol < .001 {
		tol = .001
	}

	nsuccess := 0
	for n := 0; n < cfg.Trials; n++ {
		res, err := pswarm.Run(ctx, params, obj, src, opts...)
		if err != nil {
			log.Fatal(err)
		}

		if math.Abs(res.Best.Val-optimum) < tol {
			nsuccess++
			fmt.Printf("trial %v succeeded (%v iters, %v evals, reason %v):\n", n, res.Iters, res.Neval, res.Reason)
		} else {
			fmt.Printf("trial %v failed (%v iters, %v evals, reason %v):\n", n, res.Iters, res.Neval, res.Reason)
		}
		fmt.Printf("    optimum: %v at %v\n", optimum, fn.Optima()[0].Pos())
		fmt.Printf("    best: %v at %v\n", res.Best.Val, res.Best.Pos())
		for _, e := range res.Elites {
			fmt.Printf("    elite: %v at %v\n", e.Val, e.Pos())
		}

		if res.Reason == pswarm.ReasonCancelled {
			fmt.Println("interrupted")
			break
		}
	}
	fmt.Printf("%v%% of %v trials succeeded on %v\n", float64(nsuccess)/float64(cfg.Trials)*100, cfg.Trials, fn.Name())
}

// lookup finds the named benchmark function, sizing scalable ones to
// ndim dimensions.
func lookup(name string, ndim int) (bench.Func, error) {
	if ndim <= 0 {
		ndim = 2
	}
	funcs := []bench.Func{
		bench.Sphere{NDim: ndim},
		bench.Ackley{},
		bench.CrossTray{},
		bench.Eggholder{},
		bench.HolderTable{},
		bench.Schaffer2{},
		bench.Styblinski{NDim: ndim},
		bench.Rosenbrock{NDim: ndim},
	}
	for _, fn := range funcs {
		base, _, _ := strings.Cut(fn.Name(), "_")
		if strings.EqualFold(base, name) {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("unknown benchmark function %q", name)
}
