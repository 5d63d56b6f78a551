// Package grid implements a rectangular grid graph for the search engine.
//
// Nodes are laid out on the XZ plane. Square grids connect each node to its 4 or 8
// neighbours; hexagonal grids use axial coordinates and connect 6 neighbours.
// Walkability is stored in a bitset, tags and penalties per node, and connectivity
// partitions (areas) are computed by flood fill.
//
// The grid implements graph.ApproximateTargetResolver: when the raw end point lies
// on an unwalkable node next to the closest walkable node, the search is redirected
// to end on any node surrounding the unwalkable one.
//
// Graphs can be built in code, parsed from ASCII maps, and persisted as compressed
// snapshots in any blobstore.Store.
package grid
