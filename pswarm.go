// Package pswarm implements particle swarm optimization of objective
// functions over box-bounded continuous domains.
//
// A run is driven by an Optimizer built from Params, an Objectiver,
// and a Rand source:
//
//	src := rng.NewSeeded(42)
//	res, err := pswarm.Run(ctx, pswarm.DefaultParams(low, up), obj, src)
//
// Objectives must be framed so that lower values are better.
package pswarm

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Point is an immutable position in the search space paired with its
// objective value.
type Point struct {
	pos []float64
	Val float64
}

func NewPoint(pos []float64, val float64) Point {
	cpos := make([]float64, len(pos))
	copy(cpos, pos)
	return Point{pos: cpos, Val: val}
}

func (p Point) At(i int) float64 { return p.pos[i] }

func (p Point) Len() int { return len(p.pos) }

func (p Point) Pos() []float64 {
	pos := make([]float64, len(p.pos))
	copy(pos, p.pos)
	return pos
}

func hashPoint(p Point) [sha1.Size]byte {
	data := make([]byte, p.Len()*8)
	for i := 0; i < p.Len(); i++ {
		binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(p.At(i)))
	}
	return sha1.Sum(data)
}

// better reports whether objective value a improves on b for
// minimization. NaN never improves on anything and is displaced by
// any non-NaN value, so a swarm whose early evaluations are all NaN
// can still acquire real bests later.
func better(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}

// Rand supplies the uniform draws used by swarm initialization and
// velocity updates. *rng.Source implements Rand. Implementations need
// not be safe for concurrent use; the optimizer draws from a single
// goroutine even under parallel evaluation.
type Rand interface {
	// Uniform returns a draw from [min, max], failing when min > max.
	Uniform(min, max float64) (float64, error)
	// Float64 returns a draw from [0, 1).
	Float64() float64
}

// Objectiver evaluates the variables in v and returns the objective
// function value. The objective function must be framed so that lower
// values are better. NaN and +Inf results are legal and compare as
// worse than any finite value. If the evaluation fails, positive
// infinity should be returned along with an error; a non-nil error
// aborts the run.
type Objectiver interface {
	Objective(v []float64) (float64, error)
}

// ObjectiveFunc adapts a plain function to the Objectiver interface.
type ObjectiveFunc func([]float64) float64

func (fn ObjectiveFunc) Objective(v []float64) (float64, error) { return fn(v), nil }

// ObjectivePrinter wraps an Objectiver and writes every evaluation to
// W along with a running call count.
type ObjectivePrinter struct {
	Objectiver
	Count int
	W     io.Writer
}

func NewObjectivePrinter(obj Objectiver) *ObjectivePrinter {
	return &ObjectivePrinter{Objectiver: obj, W: os.Stdout}
}

func (op *ObjectivePrinter) Objective(v []float64) (float64, error) {
	val, err := op.Objectiver.Objective(v)

	if op.W == nil {
		op.W = os.Stdout
	}
	op.Count++
	fmt.Fprint(op.W, op.Count, " ")
	for _, x := range v {
		fmt.Fprint(op.W, x, " ")
	}
	fmt.Fprintln(op.W, "    ", val)

	return val, err
}
