package testutil

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/waypoint/graph"
	"github.com/hupe1980/waypoint/graph/grid"
	"github.com/hupe1980/waypoint/internal/queue"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed^0x9e3779b97f4a7c15))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Uint32N returns a pseudo-random number in [0,n).
func (r *RNG) Uint32N(n uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint32N(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Scatter blocks a share of the cells of g and gives another share a random
// penalty in [0, maxPenalty). blocked and penalized are probabilities.
func (r *RNG) Scatter(g *grid.Graph, blocked, penalized float64, maxPenalty uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for z := 0; z < g.Depth(); z++ {
		for x := 0; x < g.Width(); x++ {
			switch v := r.rand.Float64(); {
			case v < blocked:
				g.SetWalkable(x, z, false)
			case v < blocked+penalized && maxPenalty > 0:
				g.SetPenalty(x, z, r.rand.Uint32N(maxPenalty))
			}
		}
	}
}

// Pairs returns n random node pairs drawn from nodes. It returns nil for an
// empty set.
func (r *RNG) Pairs(nodes *roaring.Bitmap, n int) [][2]graph.NodeID {
	card := nodes.GetCardinality()
	if card == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pairs := make([][2]graph.NodeID, n)
	for i := range pairs {
		a, _ := nodes.Select(uint32(r.rand.Uint64N(card)))
		b, _ := nodes.Select(uint32(r.rand.Uint64N(card)))
		pairs[i] = [2]graph.NodeID{graph.NodeID(a), graph.NodeID(b)}
	}
	return pairs
}

// ShortestCost returns the exact cheapest cost from start to end, using the
// cost model of a search without boundary adjustments: the traversal cost
// of the start node, plus edge cost and traversal cost of every entered node.
func ShortestCost(g graph.Graph, start, end graph.NodeID, tagPenalties [32]uint32) (uint32, bool) {
	dist := make([]uint64, g.NodeCount())
	for i := range dist {
		dist[i] = math.MaxUint64
	}
	done := make([]bool, g.NodeCount())

	enter := func(n graph.NodeID) uint64 {
		return uint64(tagPenalties[g.Tag(n)&31]) + uint64(g.Penalty(n))
	}

	dist[start] = enter(start)
	pq := queue.NewMin(64, nil)
	pq.Push(queue.Item{Node: uint32(start), F: clamp(dist[start])})

	for {
		it, ok := pq.Pop()
		if !ok {
			return 0, false
		}
		u := graph.NodeID(it.Node)
		if done[u] {
			continue
		}
		done[u] = true
		if u == end {
			return clamp(dist[u]), true
		}

		var e edges
		g.Open(u, &e)
		for i, v := range e.to {
			nd := dist[u] + uint64(e.cost[i]) + enter(v)
			if nd < dist[v] {
				dist[v] = nd
				pq.Push(queue.Item{Node: uint32(v), F: clamp(nd)})
			}
		}
	}
}

func clamp(v uint64) uint32 {
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// edges gathers the connections a graph offers from one node.
type edges struct {
	to   []graph.NodeID
	cost []uint32
}

func (e *edges) CanTraverse(graph.NodeID) bool { return true }

func (e *edges) Relax(_, to graph.NodeID, cost uint32) {
	e.to = append(e.to, to)
	e.cost = append(e.cost, cost)
}
