package pswarm

import "math"

// Reason identifies the stopping criterion that ended a run.
type Reason string

const (
	// ReasonThreshold: the global best reached Params.Threshold.
	ReasonThreshold Reason = "threshold"
	// ReasonStagnation: no meaningful global-best improvement for
	// Params.StagnationIters consecutive iterations.
	ReasonStagnation Reason = "stagnation"
	// ReasonMaxIter: the iteration cap was exhausted.
	ReasonMaxIter Reason = "max_iterations"
	// ReasonCancelled: the run's context was cancelled.
	ReasonCancelled Reason = "cancelled"
)

// Converged reports whether the reason counts as convergence rather
// than exhaustion or interruption.
func (r Reason) Converged() bool {
	return r == ReasonThreshold || r == ReasonStagnation
}

// improveEps is the margin a new global best must clear to count as
// improvement for stagnation tracking; smaller deltas are floating
// noise.
const improveEps = 1e-12

// monitor tracks stopping criteria across iterations, checked in
// priority order: threshold, then stagnation, then the iteration cap.
type monitor struct {
	threshold  float64
	stagnation int
	maxIter    int

	bestSeen float64
	streak   int
}

func newMonitor(p Params, initialBest float64) *monitor {
	return &monitor{
		threshold:  p.Threshold,
		stagnation: p.StagnationIters,
		maxIter:    p.MaxIter,
		bestSeen:   initialBest,
	}
}

// check inspects the global best value after completed iteration iter
// (1-based) and reports whether and why the run should stop.
func (m *monitor) check(iter int, best float64) (Reason, bool) {
	if best <= m.threshold {
		return ReasonThreshold, true
	}

	if m.stagnation > 0 {
		improved := best < m.bestSeen-improveEps ||
			(math.IsNaN(m.bestSeen) && !math.IsNaN(best))
		if improved {
			m.bestSeen = best
			m.streak = 0
		} else {
			m.streak++
			if m.streak >= m.stagnation {
				return ReasonStagnation, true
			}
		}
	}

	if iter >= m.maxIter {
		return ReasonMaxIter, true
	}
	return "", false
}
