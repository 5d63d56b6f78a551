package search

import (
	"testing"

	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
	"github.com/hupe1980/waypoint/graph/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolClaimRelease(t *testing.T) {
	g, err := grid.New(grid.Options{Width: 5, Depth: 5})
	require.NoError(t, err)

	pool := NewPool()
	req := pool.Get(g, center(g, 0, 0), center(g, 4, 4), WithPartial(true))
	assert.True(t, req.AllowsPartial())
	assert.Equal(t, Created, req.PipelineState())

	a, b := new(int), new(int)
	require.NoError(t, req.Claim(a))
	assert.ErrorIs(t, req.Claim(a), ErrAlreadyClaimed)
	assert.ErrorIs(t, req.Release(b), ErrNotClaimed)

	// Not recycled before it was returned.
	require.NoError(t, req.Release(a))
	assert.Equal(t, Created, req.PipelineState())
	assert.Equal(t, g, req.Graph())

	require.NoError(t, req.Claim(a))
	require.NoError(t, req.Claim(b))
	require.NoError(t, req.Run(NewRecordStore(0)))
	require.Equal(t, Complete, req.CompleteState())

	require.NoError(t, req.Release(a))
	assert.Equal(t, 1, req.Claims())
	assert.NotEmpty(t, req.Nodes())

	require.NoError(t, req.Release(b))
	assert.Equal(t, Created, req.PipelineState())
	assert.Empty(t, req.Nodes())
	assert.Nil(t, req.Graph())
}

func TestReset(t *testing.T) {
	g, err := grid.New(grid.Options{Width: 5, Depth: 5})
	require.NoError(t, err)

	req := NewRequest(g, center(g, 0, 0), center(g, 4, 4), WithPartial(true))
	require.NoError(t, req.Run(NewRecordStore(0)))
	require.Equal(t, Complete, req.CompleteState())

	req.Reset()
	assert.Equal(t, NotCalculated, req.CompleteState())
	assert.Equal(t, Created, req.PipelineState())
	assert.Empty(t, req.Nodes())
	assert.Empty(t, req.Points())
	assert.Zero(t, req.Cost())
	assert.Zero(t, req.SearchedNodes())
	assert.Equal(t, graph.NoNode, req.StartNode())
	assert.False(t, req.AllowsPartial())
	assert.NoError(t, req.Err())
}

func TestFakePath(t *testing.T) {
	points := []geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(1, 0, 2)}
	nodes := []graph.NodeID{4, 5, 9}

	req := FakePath(points, nodes)
	points[0] = geom.V3(7, 7, 7)

	assert.Equal(t, Complete, req.CompleteState())
	assert.Equal(t, Returned, req.PipelineState())
	assert.Equal(t, nodes, req.Nodes())
	assert.Equal(t, geom.V3(0, 0, 0), req.Points()[0])
	assert.Equal(t, geom.V3(0, 0, 0), req.StartPoint())
	assert.Equal(t, geom.V3(1, 0, 2), req.EndPoint())
	assert.Equal(t, graph.NodeID(4), req.StartNode())
	assert.Equal(t, graph.NodeID(9), req.EndNode())
	assert.InDelta(t, 3.0, req.Length(), 1e-9)
}
