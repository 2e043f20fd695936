package pswarm

import "math"

// Particle is one candidate solution: its current point, its
// velocity, and the best point it has ever occupied.
type Particle struct {
	Id int
	Point
	Vel  []float64
	Best Point
}

// Move advances the particle one velocity/position step pulled toward
// its personal best and gbest. Velocity components are clamped to
// vmax. A component escaping [low, up] is clamped to the violated
// bound and its velocity is zeroed, so particles do not accumulate
// outward momentum against a wall. The new point's value is +Inf
// until the next evaluation sweep.
func (p *Particle) Move(gbest Point, rnd Rand, vmax, low, up []float64, inertia, cognition, social float64) {
	pos := make([]float64, p.Len())
	for i := range pos {
		// random numbers r1 and r2 MUST go inside this loop and be
		// generated uniquely for each dimension of p's velocity.
		r1 := rnd.Float64()
		r2 := rnd.Float64()
		v := inertia*p.Vel[i] +
			cognition*r1*(p.Best.At(i)-p.At(i)) +
			social*r2*(gbest.At(i)-p.At(i))
		if math.Abs(v) > vmax[i] {
			v = math.Copysign(vmax[i], v)
		}

		x := p.At(i) + v
		if x < low[i] {
			x, v = low[i], 0
		} else if x > up[i] {
			x, v = up[i], 0
		}
		p.Vel[i] = v
		pos[i] = x
	}
	p.Point = NewPoint(pos, math.Inf(1))
}

// Update records the evaluated point newp as the particle's current
// state, keeping it as the personal best on strict improvement.
func (p *Particle) Update(newp Point) {
	p.Val = newp.Val
	if better(newp.Val, p.Best.Val) {
		p.Best = newp
	}
}
