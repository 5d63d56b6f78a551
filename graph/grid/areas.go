package grid

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/waypoint/graph"
)

// RecalculateAreas recomputes the connectivity partitions by flood fill.
// Walkable nodes that can reach each other share an area id >= 1.
func (g *Graph) RecalculateAreas() {
	for i := range g.areas {
		g.areas[i] = 0
	}

	var (
		area  uint32
		stack []graph.NodeID
	)
	for i := 0; i < g.NodeCount(); i++ {
		n := graph.NodeID(i)
		if g.areas[n] != 0 || !g.walkable.Test(uint(n)) {
			continue
		}
		area++
		g.areas[n] = area
		stack = append(stack[:0], n)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, z := g.Coordinates(cur)
			for _, o := range g.topology.offsets() {
				m, _, ok := g.step(x, z, o)
				if !ok || g.areas[m] != 0 {
					continue
				}
				g.areas[m] = area
				stack = append(stack, m)
			}
		}
	}

	g.areaCount = area
	g.areasDirty = false
}

// AreaCount returns the number of walkable partitions.
func (g *Graph) AreaCount() uint32 {
	if g.areasDirty {
		g.RecalculateAreas()
	}
	return g.areaCount
}

// AreaNodes returns the nodes of the given area.
func (g *Graph) AreaNodes(area uint32) *roaring.Bitmap {
	if g.areasDirty {
		g.RecalculateAreas()
	}
	bm := roaring.New()
	if area == 0 {
		return bm
	}
	for i, a := range g.areas {
		if a == area {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// LargestArea returns the area with the most nodes and its node set.
func (g *Graph) LargestArea() (uint32, *roaring.Bitmap) {
	if g.areasDirty {
		g.RecalculateAreas()
	}
	counts := make([]uint64, g.areaCount+1)
	for _, a := range g.areas {
		counts[a]++
	}
	var best uint32
	for a := uint32(1); a <= g.areaCount; a++ {
		if counts[a] > counts[best] || best == 0 {
			best = a
		}
	}
	return best, g.AreaNodes(best)
}
