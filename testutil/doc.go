// Package testutil provides testing utilities for waypoint.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random maps, picking random node
// pairs, and computing exact shortest path costs.
//
// # Random Maps
//
//	rng := testutil.NewRNG(seed)
//	g, _ := grid.New(grid.Options{Width: 64, Depth: 64})
//	rng.Scatter(g, 0.2, 0.1, 3000) // 20% blocked, 10% penalized
//
// # Random Pairs
//
//	_, area := g.LargestArea()
//	pairs := rng.Pairs(area, 100)
//
// # Exact Search (Ground Truth)
//
//	cost, ok := testutil.ShortestCost(g, start, end, [32]uint32{})
package testutil
