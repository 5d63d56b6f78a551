// Package graph defines the contract between walkable graphs and the search engine.
//
// A graph exposes its nodes by dense NodeID and knows how to open a node: it
// enumerates the node's connections and hands each traversable neighbour to the
// search's relaxation step. The engine never inspects the concrete graph kind;
// topology specific behaviour is provided through optional capability interfaces
// such as ApproximateTargetResolver.
package graph

import (
	"github.com/hupe1980/waypoint/geom"
)

// NodeID identifies a node within a graph. IDs are dense in [0, NodeCount()).
type NodeID uint32

// NoNode is the sentinel for "no node".
const NoNode NodeID = ^NodeID(0)

// Valid reports whether id refers to a node.
func (id NodeID) Valid() bool { return id != NoNode }

// Traversal is the search side of an Open call.
type Traversal interface {
	// CanTraverse reports whether the search may step onto node n.
	CanTraverse(n NodeID) bool

	// Relax offers the connection from -> to with the graph defined cost.
	Relax(from, to NodeID, cost uint32)
}

// Constraint filters nodes during nearest-node lookups. A nil Constraint accepts every node.
type Constraint func(n NodeID) bool

// Accepts reports whether the constraint accepts n.
func (c Constraint) Accepts(n NodeID) bool {
	return c == nil || c(n)
}

// NearestInfo is the result of a nearest-node lookup.
type NearestInfo struct {
	// Node is the closest accepted node, or NoNode.
	Node NodeID

	// Position is the point on Node closest to the query point.
	Position geom.Vec3
}

// Found reports whether a node was found.
func (n NearestInfo) Found() bool { return n.Node.Valid() }

// Graph is a walkable graph the search engine can traverse.
//
// Implementations must not be mutated while a search over them is active.
type Graph interface {
	// NodeCount returns the number of node ids in use.
	NodeCount() int

	// GraphIndex returns the index of this graph, matched against a search's graph mask.
	GraphIndex() uint32

	// Position returns the integer position of node n.
	Position(n NodeID) geom.Int3

	// Walkable reports whether node n can be walked on at all.
	Walkable(n NodeID) bool

	// Tag returns the tag of node n in [0, 32).
	Tag(n NodeID) uint32

	// Penalty returns the additional cost of entering node n.
	Penalty(n NodeID) uint32

	// Area returns the connectivity partition of node n. Nodes in different areas
	// cannot reach each other.
	Area(n NodeID) uint32

	// Open enumerates the connections of node n and calls t.Relax for every
	// neighbour t.CanTraverse accepts.
	Open(n NodeID, t Traversal)

	// Nearest returns the node closest to p accepted by c.
	Nearest(p geom.Vec3, c Constraint) NearestInfo
}

// ApproximateTarget describes a redirected search target.
type ApproximateTarget struct {
	// Node is the new end node, usually the unwalkable node closest to the raw end point.
	Node NodeID

	// Position is the heuristic target position.
	Position geom.Int3

	// Surrounding are the nodes adjacent to Node that count as reaching the target.
	Surrounding []NodeID
}

// ApproximateTargetResolver is implemented by graphs that can redirect an end
// point lying on an unwalkable node to the set of nodes surrounding it.
type ApproximateTargetResolver interface {
	// ResolveApproximateTarget is called with the closest walkable end node. It
	// returns false when no redirection applies.
	ResolveApproximateTarget(walkableEnd NodeID, rawEnd geom.Vec3) (ApproximateTarget, bool)

	// ClosestPointOnNode returns the point on node n closest to p.
	ClosestPointOnNode(n NodeID, p geom.Vec3) geom.Vec3
}
