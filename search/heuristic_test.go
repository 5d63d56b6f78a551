package search

import (
	"testing"

	"github.com/hupe1980/waypoint/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicEstimate(t *testing.T) {
	a := geom.Int3{X: 0, Z: 0}
	b := geom.Int3{X: 3000, Z: 4000}

	tests := []struct {
		h     Heuristic
		scale float64
		want  uint32
	}{
		{Euclidean, 1, 5000},
		{Euclidean, 2, 10000},
		{Manhattan, 1, 7000},
		{DiagonalManhattan, 1, 5242},
		{None, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.h.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.h.Estimate(a, b, tt.scale))
			assert.Equal(t, tt.want, tt.h.Estimate(b, a, tt.scale))
		})
	}
}

func TestHeuristicRoundsDown(t *testing.T) {
	d := geom.Int3{X: 1000, Z: 1000}
	assert.Equal(t, uint32(1414), Euclidean.Estimate(geom.Int3{}, d, 1))
}

func TestParseHeuristic(t *testing.T) {
	for _, h := range []Heuristic{Euclidean, Manhattan, DiagonalManhattan, None} {
		got, err := ParseHeuristic(h.String())
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}
	_, err := ParseHeuristic("chebyshev")
	assert.Error(t, err)
}

func TestOptionsDefaults(t *testing.T) {
	o := defaultOptions()
	assert.Equal(t, DefaultTimeCheckInterval, o.timeCheckInterval)
	assert.Equal(t, DefaultMaxSearchedNodes, o.maxSearchedNodes)
	assert.True(t, o.partitionCheck)
	assert.False(t, o.partial)

	for _, opt := range []Option{WithTimeCheckInterval(0), WithMaxSearchedNodes(-1), WithHeuristicScale(0)} {
		opt(&o)
	}
	assert.Equal(t, 1, o.timeCheckInterval)
	assert.Equal(t, DefaultMaxSearchedNodes, o.maxSearchedNodes)
	assert.Equal(t, 1.0, o.heuristicScale)
}
