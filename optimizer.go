package pswarm

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Result reports the outcome of one optimization run.
type Result struct {
	// Best is the global best point found over the whole run.
	Best Point
	// Iters is the number of completed iterations, excluding the
	// initialization pass.
	Iters int
	// Neval is the total number of objective calls.
	Neval int
	// History holds the global best value after each iteration;
	// len(History) == Iters.
	History []float64
	// Converged is true when the run stopped on the threshold or
	// stagnation criterion, false for the iteration cap and
	// cancellation.
	Converged bool
	// Reason identifies the criterion that stopped the run.
	Reason Reason
	// RunID tags the run and its recorded rows.
	RunID string
	// Elites holds the best distinct points seen, ascending by value,
	// when the Archive option is enabled.
	Elites []Point
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// Evals sets the evaluation strategy. The default is SerialEvaler{}.
func Evals(ev Evaler) Option {
	return func(o *Optimizer) { o.ev = ev }
}

// DB records every iteration's particle state and global best into db
// (see TblParticles, TblParticlesBest, TblBest).
func DB(db *sql.DB) Option {
	return func(o *Optimizer) { o.db = db }
}

// Logger routes the optimizer's progress logging through log. The
// default logger only emits warnings and above.
func Logger(log *logrus.Logger) Option {
	return func(o *Optimizer) { o.log = log }
}

// LinInertia varies particle inertia for velocity updates linearly
// from the start (high) to end (low) values across the run's
// iterations, overriding Params.Inertia. Common values are start =
// 0.9 and end = 0.4 - for details see:
//
//	Eberhart, R.C.; Yuhui Shi, "Particle swarm optimization:
//	developments, applications and resources," Evolutionary
//	Computation, 2001. Proceedings of the 2001 Congress on, vol.1,
//	no., pp.81,86 vol. 1, 2001 doi: 10.1109/CEC.2001.934374
func LinInertia(start, end float64) Option {
	return func(o *Optimizer) {
		maxiter := o.params.MaxIter
		o.inertiaFn = func(iter int) float64 {
			return start - (start-end)*float64(iter)/float64(maxiter)
		}
	}
}

// Archive keeps the k best distinct points seen across the run and
// exposes them as Result.Elites.
func Archive(k int) Option {
	return func(o *Optimizer) { o.arch = newArchive(k) }
}

// Optimizer drives one particle swarm over an objective. It owns the
// swarm and random source exclusively for the run's duration.
type Optimizer struct {
	params Params
	obj    Objectiver
	rnd    Rand

	ev        Evaler
	db        *sql.DB
	log       *logrus.Logger
	inertiaFn func(iter int) float64
	arch      *archive

	runid string
	swarm Swarm
	best  Point
	neval int
	vmax  []float64
}

// New validates params and prepares a run. No random draw or
// objective call happens before Run.
func New(params Params, obj Objectiver, rnd Rand, opts ...Option) (*Optimizer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.Low = append([]float64(nil), params.Low...)
	params.Up = append([]float64(nil), params.Up...)

	o := &Optimizer{
		params:    params,
		obj:       obj,
		rnd:       rnd,
		ev:        SerialEvaler{},
		inertiaFn: func(int) float64 { return params.Inertia },
		vmax:      params.vmax(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logrus.New()
		o.log.SetLevel(logrus.WarnLevel)
	}
	return o, nil
}

// Run is shorthand for New followed by Optimizer.Run.
func Run(ctx context.Context, params Params, obj Objectiver, rnd Rand, opts ...Option) (*Result, error) {
	o, err := New(params, obj, rnd, opts...)
	if err != nil {
		return nil, err
	}
	return o.Run(ctx)
}

// Run executes the optimization until a stopping criterion fires or
// ctx is cancelled. Cancellation is observed between iterations,
// never mid-sweep, and yields a valid partial result with
// Reason == ReasonCancelled and a nil error. Objective and recording
// errors abort the run. Each call starts a fresh run with a fresh
// swarm, continuing the Rand stream.
func (o *Optimizer) Run(ctx context.Context) (*Result, error) {
	if err := o.init(); err != nil {
		return nil, err
	}

	o.log.WithFields(logrus.Fields{
		"run":     o.runid,
		"dims":    len(o.params.Low),
		"swarm":   o.params.SwarmSize,
		"maxiter": o.params.MaxIter,
		"best":    o.best.Val,
	}).Info("starting particle swarm run")

	res := &Result{RunID: o.runid, History: make([]float64, 0, o.params.MaxIter)}
	mon := newMonitor(o.params, o.best.Val)

	for iter := 1; iter <= o.params.MaxIter; iter++ {
		select {
		case <-ctx.Done():
			return o.finish(res, ReasonCancelled), nil
		default:
		}

		if err := o.iterate(iter); err != nil {
			return nil, err
		}
		res.Iters = iter
		res.History = append(res.History, o.best.Val)

		if reason, stop := mon.check(iter, o.best.Val); stop {
			return o.finish(res, reason), nil
		}
	}
	return o.finish(res, ReasonMaxIter), nil
}

// init draws a fresh swarm, runs the first evaluation pass, and seeds
// the global best and recording.
func (o *Optimizer) init() error {
	o.runid = uuid.New().String()
	o.neval = 0

	s, err := NewSwarm(o.params.SwarmSize, o.params.Low, o.params.Up, o.vmax, o.rnd)
	if err != nil {
		return err
	}

	results, n, err := o.ev.Eval(o.obj, s.Points()...)
	if err != nil {
		return fmt.Errorf("pswarm: initial evaluation: %w", err)
	}
	o.neval = n
	for i, r := range results {
		s[i].Point = r
		s[i].Best = r
	}
	o.swarm = s

	o.best = results[0]
	for _, r := range results[1:] {
		if better(r.Val, o.best.Val) {
			o.best = r
		}
	}
	if o.arch != nil {
		o.arch.add(o.best)
	}

	if err := o.initdb(); err != nil {
		return err
	}
	return o.recordIter(0)
}

// iterate runs one synchronous sweep: all particles move against the
// frozen global best, the moved positions are evaluated, and the
// global best is refreshed at a single merge point afterwards.
func (o *Optimizer) iterate(iter int) error {
	w := o.inertiaFn(iter)
	for _, p := range o.swarm {
		p.Move(o.best, o.rnd, o.vmax, o.params.Low, o.params.Up, w, o.params.Cognitive, o.params.Social)
	}

	results, n, err := o.ev.Eval(o.obj, o.swarm.Points()...)
	if err != nil {
		return fmt.Errorf("pswarm: iteration %v: %w", iter, err)
	}
	o.neval += n
	for i, r := range results {
		o.swarm[i].Update(r)
	}

	if pb := o.swarm.Best(); pb != nil && better(pb.Best.Val, o.best.Val) {
		o.best = pb.Best
		o.log.WithFields(logrus.Fields{
			"run":  o.runid,
			"iter": iter,
			"val":  o.best.Val,
		}).Info("new global best")
		if o.arch != nil {
			o.arch.add(o.best)
		}
	}

	if o.log.IsLevelEnabled(logrus.DebugLevel) {
		st := o.swarm.Stats(o.best)
		o.log.WithFields(logrus.Fields{
			"run":      o.runid,
			"iter":     iter,
			"mean":     st.MeanVal,
			"std":      st.StdVal,
			"meandist": st.MeanDist,
			"finite":   st.Finite,
		}).Debug("swarm state")
	}

	return o.recordIter(iter)
}

// finish assembles the result; it performs no further computation.
func (o *Optimizer) finish(res *Result, reason Reason) *Result {
	res.Best = o.best
	res.Neval = o.neval
	res.Reason = reason
	res.Converged = reason.Converged()
	if o.arch != nil {
		res.Elites = o.arch.points()
	}

	o.log.WithFields(logrus.Fields{
		"run":    o.runid,
		"iters":  res.Iters,
		"neval":  res.Neval,
		"best":   res.Best.Val,
		"reason": string(reason),
	}).Info("run finished")
	return res
}
