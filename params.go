package pswarm

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig reports malformed run parameters or bounds. It is
// detected before any random draw or objective evaluation occurs.
var ErrInvalidConfig = errors.New("pswarm: invalid configuration")

// Defaults for DefaultParams. The learn factors follow the classic
// 2.0/2.0 setting; see the Constriction constants for a provably
// stable alternative.
const (
	DefaultSwarmSize       = 30
	DefaultMaxIter         = 1000
	DefaultInertia         = 0.7298
	DefaultCognitive       = 2.0
	DefaultSocial          = 2.0
	DefaultVelClampFactor  = 0.2
	DefaultThreshold       = 1e-6
	DefaultStagnationIters = 100
)

// These constants are calculated using a constriction factor
// originally described in:
//
//	Clerc, M. "The swarm and the queen: towards a deterministic and
//	adaptive particle swarm optimization" Proc. 1999 Congress on
//	Evolutionary Computation, pp. 1951-1957
//
// ConstrictionCognitive and ConstrictionSocial correspond to c1 and
// c2 values of 2.05 that have been multiplied by their constriction
// coefficient - i.e. Constriction(2.05, 2.05)*2.05.
// ConstrictionInertia is the coefficient itself.
const (
	ConstrictionCognitive = 1.496179765663133
	ConstrictionSocial    = 1.496179765663133
	ConstrictionInertia   = 0.7298437881283576
)

// Constriction calculates the constriction coefficient for the given
// c1 and c2 of the particle velocity equation:
//
//	v_next = k(v_curr + c1*rand*(p_personal-x) + c2*rand*(p_glob-x))
//
//	or
//
//	v_next = w*v_curr + b1*rand*(p_personal-x) + b2*rand*(p_glob-x)
//
//	(with the constriction coefficient multiplied through)
//
// c1+c2 should usually be greater than (but close to) 4. 'w = k' is
// often referred to as the inertia in the traditional swarm equation.
func Constriction(c1, c2 float64) float64 {
	phi := c1 + c2
	return 2 / math.Abs(2-phi-math.Sqrt(phi*phi-4*phi))
}

// Params configures one optimization run. It is treated as immutable
// for the run's duration.
type Params struct {
	// Low and Up are the per-dimension search bounds; the problem
	// dimensionality is len(Low).
	Low []float64
	Up  []float64

	SwarmSize int
	MaxIter   int

	Inertia   float64
	Cognitive float64
	Social    float64

	// VelClampFactor is the fraction in (0, 1] of each dimension's
	// width used as that dimension's speed limit.
	VelClampFactor float64

	// Threshold is the objective value at or below which the run
	// counts as converged.
	Threshold float64

	// StagnationIters stops the run after this many consecutive
	// iterations without meaningful global-best improvement. Zero
	// disables the criterion.
	StagnationIters int
}

// DefaultParams returns Params holding the engine defaults and the
// given bounds.
func DefaultParams(low, up []float64) Params {
	return Params{
		Low:             low,
		Up:              up,
		SwarmSize:       DefaultSwarmSize,
		MaxIter:         DefaultMaxIter,
		Inertia:         DefaultInertia,
		Cognitive:       DefaultCognitive,
		Social:          DefaultSocial,
		VelClampFactor:  DefaultVelClampFactor,
		Threshold:       DefaultThreshold,
		StagnationIters: DefaultStagnationIters,
	}
}

// Validate checks p and returns ErrInvalidConfig wrapped with detail
// for the first problem found.
func (p Params) Validate() error {
	switch {
	case len(p.Low) == 0:
		return fmt.Errorf("%w: zero dimensions", ErrInvalidConfig)
	case len(p.Low) != len(p.Up):
		return fmt.Errorf("%w: %v lower bounds vs %v upper bounds", ErrInvalidConfig, len(p.Low), len(p.Up))
	case p.SwarmSize <= 0:
		return fmt.Errorf("%w: swarm size %v", ErrInvalidConfig, p.SwarmSize)
	case p.MaxIter <= 0:
		return fmt.Errorf("%w: max iterations %v", ErrInvalidConfig, p.MaxIter)
	case !(p.VelClampFactor > 0 && p.VelClampFactor <= 1):
		return fmt.Errorf("%w: velocity clamp factor %v outside (0, 1]", ErrInvalidConfig, p.VelClampFactor)
	case p.StagnationIters < 0:
		return fmt.Errorf("%w: stagnation iterations %v", ErrInvalidConfig, p.StagnationIters)
	}

	for i := range p.Low {
		if math.IsInf(p.Low[i], 0) || math.IsInf(p.Up[i], 0) || !(p.Low[i] < p.Up[i]) {
			return fmt.Errorf("%w: bounds [%v, %v] in dimension %v", ErrInvalidConfig, p.Low[i], p.Up[i], i)
		}
	}
	return nil
}

// vmax returns the per-dimension speed limit implied by the bounds
// and clamp factor.
func (p Params) vmax() []float64 {
	vmax := make([]float64, len(p.Low))
	for i := range vmax {
		vmax[i] = p.VelClampFactor * (p.Up[i] - p.Low[i])
	}
	return vmax
}
