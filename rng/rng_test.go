package rng

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draws(t *testing.T, s *Source, n int, min, max float64) []float64 {
	t.Helper()
	vs := make([]float64, n)
	for i := range vs {
		v, err := s.Uniform(min, max)
		require.NoError(t, err)
		vs[i] = v
	}
	return vs
}

func TestSameSeedProducesIdenticalSequences(t *testing.T) {
	a := NewSeeded(12345)
	b := NewSeeded(12345)

	va := draws(t, a, 100, -3, 7)
	vb := draws(t, b, 100, -3, 7)
	require.Equal(t, va, vb)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := NewSeeded(1)
	b := NewSeeded(2)

	va := draws(t, a, 20, 0, 1)
	vb := draws(t, b, 20, 0, 1)
	assert.NotEqual(t, va, vb)
}

func TestUniformRespectsBounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
	}{
		{"positive", 2, 9},
		{"negative", -9, -2},
		{"crossing", -5, 10},
		{"tiny", 1e-10, 2e-10},
		{"huge", -1e9, 1e9},
		{"degenerate", 3.5, 3.5},
	}

	s := NewSeeded(99)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				v, err := s.Uniform(tt.min, tt.max)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, v, tt.min)
				assert.LessOrEqual(t, v, tt.max)
			}
		})
	}
}

func TestUniformInvalidRange(t *testing.T) {
	s := NewSeeded(5)
	_, err := s.Uniform(2, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestSetSeedResetsStream(t *testing.T) {
	s := NewSeeded(7)
	first := draws(t, s, 50, 0, 1)
	s.SetSeed(7)
	second := draws(t, s, 50, 0, 1)
	require.Equal(t, first, second)

	s.SetSeed(8)
	third := draws(t, s, 50, 0, 1)
	assert.NotEqual(t, first, third)
}

func TestUnseededSourcesDiverge(t *testing.T) {
	a := New()
	b := New()

	va := draws(t, a, 8, 0, 1)
	vb := draws(t, b, 8, 0, 1)
	assert.NotEqual(t, va, vb)
}

func TestFloat64UnitInterval(t *testing.T) {
	s := NewSeeded(314)
	for i := 0; i < 10000; i++ {
		v := s.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestUniformSpread(t *testing.T) {
	s := NewSeeded(42)
	below := 0
	const n = 10000
	for _, v := range draws(t, s, n, 0, 1) {
		if v < 0.5 {
			below++
		}
	}
	frac := float64(below) / n
	assert.Greater(t, frac, 0.4)
	assert.Less(t, frac, 0.6)
}
