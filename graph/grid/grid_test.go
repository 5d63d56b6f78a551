package grid

import (
	"strings"
	"testing"

	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type relaxed struct {
	to   graph.NodeID
	cost uint32
}

type recordingTraversal struct {
	deny  map[graph.NodeID]bool
	edges []relaxed
}

func (r *recordingTraversal) CanTraverse(n graph.NodeID) bool { return !r.deny[n] }

func (r *recordingTraversal) Relax(_, to graph.NodeID, cost uint32) {
	r.edges = append(r.edges, relaxed{to: to, cost: cost})
}

func mustParse(t *testing.T, m string, opts Options) (*Graph, Markers) {
	t.Helper()
	g, mk, err := ParseASCII(strings.NewReader(m), opts)
	require.NoError(t, err)
	return g, mk
}

func TestNew(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		g, err := New(Options{Width: 3, Depth: 2})
		require.NoError(t, err)
		assert.Equal(t, 6, g.NodeCount())
		assert.Equal(t, Eight, g.Topology())
		assert.Equal(t, 1.0, g.NodeSize())
		assert.Equal(t, geom.Int3{X: 1500, Z: 1500}, g.Position(g.NodeAt(1, 1)))
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := New(Options{Width: 0, Depth: 2})
		assert.ErrorIs(t, err, ErrInvalidOptions)
		_, err = New(Options{Width: 2, Depth: 2, NodeSize: -1})
		assert.ErrorIs(t, err, ErrInvalidOptions)
		_, err = New(Options{Width: 2, Depth: 2, Topology: 5})
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		g, err := New(Options{Width: 2, Depth: 2})
		require.NoError(t, err)
		assert.False(t, g.NodeAt(2, 0).Valid())
		assert.False(t, g.NodeAt(0, -1).Valid())
		x, z := g.Coordinates(3)
		assert.Equal(t, 1, x)
		assert.Equal(t, 1, z)
	})
}

func TestNeighbors(t *testing.T) {
	tests := []struct {
		name     string
		topology Topology
		want     int
	}{
		{"Four", Four, 4},
		{"Six", Six, 6},
		{"Eight", Eight, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(Options{Width: 3, Depth: 3, Topology: tt.topology})
			require.NoError(t, err)
			assert.Len(t, g.Neighbors(g.NodeAt(1, 1)), tt.want)
		})
	}
}

func TestCornerCutting(t *testing.T) {
	m := `
...
.#.
...
`
	g, _ := mustParse(t, m, Options{})
	assert.Len(t, g.Neighbors(g.NodeAt(1, 0)), 2)

	g, _ = mustParse(t, m, Options{CutCorners: true})
	assert.Len(t, g.Neighbors(g.NodeAt(1, 0)), 4)
}

func TestOpen(t *testing.T) {
	g, err := New(Options{Width: 3, Depth: 3})
	require.NoError(t, err)

	tr := &recordingTraversal{deny: map[graph.NodeID]bool{g.NodeAt(0, 0): true}}
	g.Open(g.NodeAt(1, 1), tr)

	require.Len(t, tr.edges, 7)
	costs := map[uint32]int{}
	for _, e := range tr.edges {
		costs[e.cost]++
		assert.NotEqual(t, g.NodeAt(0, 0), e.to)
	}
	assert.Equal(t, 4, costs[1000])
	assert.Equal(t, 3, costs[1415])
}

func TestAreas(t *testing.T) {
	g, _ := mustParse(t, `
..#..
..#..
..#..
`, Options{})

	assert.Equal(t, uint32(2), g.AreaCount())
	assert.Equal(t, uint32(0), g.Area(g.NodeAt(2, 0)))
	assert.NotEqual(t, g.Area(g.NodeAt(0, 0)), g.Area(g.NodeAt(4, 0)))
	assert.Equal(t, uint64(6), g.AreaNodes(g.Area(g.NodeAt(4, 2))).GetCardinality())
	assert.True(t, g.AreaNodes(0).IsEmpty())

	area, nodes := g.LargestArea()
	assert.Equal(t, uint32(1), area)
	assert.True(t, nodes.Contains(uint32(g.NodeAt(0, 0))))

	// Opening the wall merges both sides.
	g.SetWalkable(2, 1, true)
	assert.Equal(t, uint32(1), g.AreaCount())
	assert.Equal(t, g.Area(g.NodeAt(0, 0)), g.Area(g.NodeAt(4, 2)))
}

func TestNearest(t *testing.T) {
	g, err := New(Options{Width: 5, Depth: 5})
	require.NoError(t, err)

	p := geom.V3(2.2, 0, 3.7)

	info := g.Nearest(p, nil)
	require.True(t, info.Found())
	assert.Equal(t, g.NodeAt(2, 3), info.Node)
	assert.InDelta(t, 2.2, info.Position.X, 1e-9)
	assert.InDelta(t, 3.7, info.Position.Z, 1e-9)

	excluded := g.NodeAt(2, 3)
	info = g.Nearest(p, func(n graph.NodeID) bool { return n != excluded })
	require.True(t, info.Found())
	assert.Equal(t, g.NodeAt(1, 3), info.Node)
	assert.InDelta(t, 2.0, info.Position.X, 1e-9)
	assert.InDelta(t, 3.7, info.Position.Z, 1e-9)

	info = g.Nearest(p, func(graph.NodeID) bool { return false })
	assert.False(t, info.Found())

	// Points outside the grid snap to the border.
	info = g.Nearest(geom.V3(-3, 0, 100), nil)
	assert.Equal(t, g.NodeAt(0, 4), info.Node)
}

func TestNearestHex(t *testing.T) {
	g, err := New(Options{Width: 4, Depth: 4, Topology: Six})
	require.NoError(t, err)

	for z := 0; z < 4; z++ {
		for x := 0; x < 4; x++ {
			n := g.NodeAt(x, z)
			info := g.Nearest(g.Position(n).Vec3(), nil)
			assert.Equal(t, n, info.Node, "cell %d,%d", x, z)
		}
	}
}

func TestResolveApproximateTarget(t *testing.T) {
	for _, tt := range []struct {
		topology Topology
		want     int
	}{{Eight, 8}, {Four, 4}} {
		t.Run(tt.topology.String(), func(t *testing.T) {
			g, err := New(Options{Width: 5, Depth: 5, Topology: tt.topology})
			require.NoError(t, err)
			g.SetWalkable(2, 2, false)

			raw := geom.V3(2.5, 0, 2.5)
			end := g.Nearest(raw, g.Walkable).Node
			require.Equal(t, g.NodeAt(2, 1), end)

			target, ok := g.ResolveApproximateTarget(end, raw)
			require.True(t, ok)
			assert.Equal(t, g.NodeAt(2, 2), target.Node)
			assert.Equal(t, g.Position(g.NodeAt(2, 2)), target.Position)
			assert.Len(t, target.Surrounding, tt.want)
			assert.Contains(t, target.Surrounding, end)

			_, ok = g.ResolveApproximateTarget(g.NodeAt(0, 0), raw)
			assert.False(t, ok)

			_, ok = g.ResolveApproximateTarget(g.NodeAt(2, 2), raw)
			assert.False(t, ok)
		})
	}
}

func TestParseASCII(t *testing.T) {
	m := `
S.~#
.3..
..#E
`
	g, mk := mustParse(t, m, Options{})
	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 3, g.Depth())

	require.True(t, mk.HasStart)
	require.True(t, mk.HasEnd)
	assert.Equal(t, g.NodeAt(0, 0), mk.Start)
	assert.Equal(t, g.NodeAt(3, 2), mk.End)
	assert.Equal(t, geom.V3(3.5, 0, 2.5), mk.EndPos)

	assert.False(t, g.Walkable(g.NodeAt(3, 0)))
	assert.Equal(t, uint32(RoughPenalty), g.Penalty(g.NodeAt(2, 0)))
	assert.Equal(t, uint32(3), g.Tag(g.NodeAt(1, 1)))

	want := strings.ReplaceAll(strings.ReplaceAll(strings.TrimPrefix(m, "\n"), "S", "."), "E", ".")
	assert.Equal(t, want, g.Render(nil))

	path := []graph.NodeID{g.NodeAt(0, 0), g.NodeAt(0, 1), g.NodeAt(1, 2)}
	assert.Equal(t, "S.~#\n*3..\n.E#.\n", g.Render(path))

	_, _, err := ParseASCII(strings.NewReader("..?\n"), Options{})
	assert.Error(t, err)
}

func TestParseASCIIPadsShortRows(t *testing.T) {
	g, _ := mustParse(t, "...\n.\n", Options{})
	assert.Equal(t, 3, g.Width())
	assert.False(t, g.Walkable(g.NodeAt(2, 1)))
}

func TestTopologyParse(t *testing.T) {
	for _, topo := range []Topology{Four, Six, Eight} {
		got, err := ParseTopology(topo.String())
		require.NoError(t, err)
		assert.Equal(t, topo, got)
	}
	_, err := ParseTopology("7")
	assert.Error(t, err)
}
