package pswarm

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Swarm is the population of particles evolved during one run.
type Swarm []*Particle

// NewSwarm creates n particles with positions drawn uniformly within
// [low, up] and velocity components within [-vmax[i], vmax[i]]. The
// particles carry +Inf values until the first evaluation sweep.
func NewSwarm(n int, low, up, vmax []float64, rnd Rand) (Swarm, error) {
	s := make(Swarm, n)
	for i := range s {
		pos := make([]float64, len(low))
		vel := make([]float64, len(low))
		for j := range pos {
			x, err := rnd.Uniform(low[j], up[j])
			if err != nil {
				return nil, err
			}
			v, err := rnd.Uniform(-vmax[j], vmax[j])
			if err != nil {
				return nil, err
			}
			pos[j], vel[j] = x, v
		}
		p := NewPoint(pos, math.Inf(1))
		s[i] = &Particle{Id: i, Point: p, Vel: vel, Best: p}
	}
	return s, nil
}

// Points returns the particles' current points in swarm order.
func (s Swarm) Points() []Point {
	points := make([]Point, 0, len(s))
	for _, p := range s {
		points = append(points, p.Point)
	}
	return points
}

// Best returns the particle whose personal best leads the swarm, or
// nil for an empty swarm. The comparison uses personal bests, not
// current values.
func (s Swarm) Best() *Particle {
	if len(s) == 0 {
		return nil
	}

	best := s[0]
	for _, p := range s[1:] {
		if better(p.Best.Val, best.Best.Val) {
			best = p
		}
	}
	return best
}

// Stats summarizes the swarm's state at one iteration.
type Stats struct {
	// MeanVal and StdVal are the mean and sample standard deviation
	// of the particles' current values, ignoring non-finite ones.
	MeanVal float64
	StdVal  float64
	// MeanDist is the mean euclidean distance of the particles from
	// pivot's position, a cheap dispersion measure.
	MeanDist float64
	// Finite counts particles whose current value is finite.
	Finite int
}

// Stats computes fitness and dispersion statistics for the swarm
// against a pivot point, usually the global best.
func (s Swarm) Stats(pivot Point) Stats {
	if len(s) == 0 {
		return Stats{}
	}

	vals := make([]float64, 0, len(s))
	dists := make([]float64, 0, len(s))
	ppos := pivot.Pos()
	for _, p := range s {
		if !math.IsNaN(p.Val) && !math.IsInf(p.Val, 0) {
			vals = append(vals, p.Val)
		}
		dists = append(dists, floats.Distance(p.Pos(), ppos, 2))
	}

	st := Stats{Finite: len(vals), MeanDist: stat.Mean(dists, nil)}
	if len(vals) > 0 {
		st.MeanVal = stat.Mean(vals, nil)
	}
	if len(vals) > 1 {
		st.StdVal = stat.StdDev(vals, nil)
	}
	return st
}
