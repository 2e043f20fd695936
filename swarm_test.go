package pswarm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerwibrew/pswarm/rng"
)

func TestNewSwarmWithinBounds(t *testing.T) {
	low := []float64{-3, 2}
	up := []float64{5, 9}
	vmax := []float64{1.6, 1.4}

	s, err := NewSwarm(50, low, up, vmax, rng.NewSeeded(3))
	require.NoError(t, err)
	require.Len(t, s, 50)

	for i, p := range s {
		assert.Equal(t, i, p.Id)
		assert.True(t, math.IsInf(p.Val, 1))
		assert.True(t, math.IsInf(p.Best.Val, 1))
		require.Equal(t, 2, p.Len())
		for j := 0; j < 2; j++ {
			assert.GreaterOrEqual(t, p.At(j), low[j])
			assert.LessOrEqual(t, p.At(j), up[j])
			assert.LessOrEqual(t, math.Abs(p.Vel[j]), vmax[j])
			assert.Equal(t, p.At(j), p.Best.At(j), "initial best is the starting point")
		}
	}
}

func TestNewSwarmDeterministic(t *testing.T) {
	low := []float64{-1, -1, -1}
	up := []float64{1, 1, 1}
	vmax := []float64{0.4, 0.4, 0.4}

	a, err := NewSwarm(10, low, up, vmax, rng.NewSeeded(99))
	require.NoError(t, err)
	b, err := NewSwarm(10, low, up, vmax, rng.NewSeeded(99))
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].Pos(), b[i].Pos())
		assert.Equal(t, a[i].Vel, b[i].Vel)
	}
}

func TestSwarmBestUsesPersonalBest(t *testing.T) {
	a := &Particle{Point: NewPoint([]float64{0}, 0.1), Best: NewPoint([]float64{0}, 5)}
	b := &Particle{Point: NewPoint([]float64{1}, 9), Best: NewPoint([]float64{1}, 1)}

	best := Swarm{a, b}.Best()
	require.NotNil(t, best)
	assert.Same(t, b, best, "a's current value leads but b's personal best wins")

	assert.Nil(t, Swarm{}.Best())
}

func TestSwarmBestIgnoresNaN(t *testing.T) {
	a := &Particle{Point: NewPoint([]float64{0}, math.NaN()), Best: NewPoint([]float64{0}, math.NaN())}
	b := &Particle{Point: NewPoint([]float64{1}, 3), Best: NewPoint([]float64{1}, 3)}

	assert.Same(t, b, Swarm{a, b}.Best())
	assert.Same(t, b, Swarm{b, a}.Best())
}

func TestSwarmPoints(t *testing.T) {
	s, err := NewSwarm(4, []float64{0}, []float64{1}, []float64{0.2}, rng.NewSeeded(5))
	require.NoError(t, err)

	points := s.Points()
	require.Len(t, points, 4)
	for i := range points {
		assert.Equal(t, s[i].Pos(), points[i].Pos())
	}
}

func TestSwarmStats(t *testing.T) {
	s := Swarm{
		{Point: NewPoint([]float64{0}, 2)},
		{Point: NewPoint([]float64{2}, 4)},
		{Point: NewPoint([]float64{1}, math.NaN())},
	}
	st := s.Stats(NewPoint([]float64{0}, 0))

	assert.Equal(t, 2, st.Finite)
	assert.InDelta(t, 3.0, st.MeanVal, 1e-12)
	assert.InDelta(t, math.Sqrt2, st.StdVal, 1e-12)
	assert.InDelta(t, 1.0, st.MeanDist, 1e-12)

	assert.Equal(t, Stats{}, Swarm{}.Stats(NewPoint([]float64{0}, 0)))
}
