package search

import (
	"math"
	"sync/atomic"

	"github.com/hupe1980/waypoint/graph"
	"github.com/hupe1980/waypoint/internal/queue"
)

// Infinity is the G value of a node the current search has not reached.
const Infinity = math.MaxUint32

// Flags are per-record status bits.
type Flags uint8

const (
	// FlagTarget marks a node whose expansion completes the search.
	FlagTarget Flags = 1 << iota
	// FlagEndpoint marks the start and end nodes. Connections touching them
	// are rescaled by the boundary cost adjustment.
	FlagEndpoint
)

var searchIDs atomic.Uint64

// NewSearchID returns the next process-wide search id. Ids start at 1 and
// increase monotonically; a 64 bit counter does not wrap in practice.
func NewSearchID() uint64 {
	return searchIDs.Add(1)
}

// Record is the per-node state of a search.
type Record struct {
	Node   graph.NodeID
	Parent graph.NodeID
	G      uint32
	H      uint32
	Flags  Flags

	stamp     uint64
	heapIndex int32
	closed    bool
}

// F returns G + H, saturating at Infinity.
func (r Record) F() uint32 {
	f := uint64(r.G) + uint64(r.H)
	if f > Infinity {
		return Infinity
	}
	return uint32(f)
}

// Reached reports whether the search has assigned a cost to the node.
func (r Record) Reached() bool { return r.G != Infinity }

// Open reports whether the record is in the open list.
func (r Record) Open() bool { return r.heapIndex >= 0 }

// Closed reports whether the node has been expanded.
func (r Record) Closed() bool { return r.closed }

func (r *Record) reset(n graph.NodeID, stamp uint64) {
	*r = Record{
		Node:      n,
		Parent:    graph.NoNode,
		G:         Infinity,
		stamp:     stamp,
		heapIndex: -1,
	}
}

// RecordStore holds one Record per node plus the open list of the executing search.
//
// Records are valid only while their stamp equals the store's current search
// id. Beginning a new search therefore invalidates every record at once.
// A RecordStore is not safe for concurrent use.
type RecordStore struct {
	records []Record
	current uint64
	open    *queue.PriorityQueue
}

// NewRecordStore creates a store with room for capacity nodes. It grows on demand.
func NewRecordStore(capacity int) *RecordStore {
	s := &RecordStore{
		records: make([]Record, capacity),
	}
	s.open = queue.NewMin(64, func(node uint32, i int) {
		s.records[node].heapIndex = int32(i)
	})
	return s
}

// Begin makes id the current search and empties the open list.
func (s *RecordStore) Begin(id uint64, nodeCount int) {
	s.current = id
	s.open.Reset()
	s.EnsureCapacity(nodeCount)
}

// EnsureCapacity grows the store to hold at least n records.
func (s *RecordStore) EnsureCapacity(n int) {
	if n <= len(s.records) {
		return
	}
	newCap := max(len(s.records)*2, n)
	grown := make([]Record, newCap)
	copy(grown, s.records)
	s.records = grown
}

// SearchID returns the id of the current search.
func (s *RecordStore) SearchID() uint64 { return s.current }

// Len returns the number of records the store holds.
func (s *RecordStore) Len() int { return len(s.records) }

// Valid reports whether the record of n was written by the current search.
func (s *RecordStore) Valid(n graph.NodeID) bool {
	return s.current != 0 && s.records[n].stamp == s.current
}

// Lookup returns a copy of the record of n. Stale records read as unreached:
// G is Infinity, H is 0, there is no parent and no flag is set. The boolean
// reports whether the record is valid.
func (s *RecordStore) Lookup(n graph.NodeID) (Record, bool) {
	if int(n) >= len(s.records) || !s.Valid(n) {
		var r Record
		r.reset(n, 0)
		return r, false
	}
	return s.records[n], true
}

// Touch returns the record of n, resetting it first if it is stale.
func (s *RecordStore) Touch(n graph.NodeID) *Record {
	r := &s.records[n]
	if r.stamp != s.current {
		r.reset(n, s.current)
	}
	return r
}

// Flags returns the flags of n under the current search.
func (s *RecordStore) Flags(n graph.NodeID) Flags {
	if !s.Valid(n) {
		return 0
	}
	return s.records[n].Flags
}

// SetFlags sets f on the record of n.
func (s *RecordStore) SetFlags(n graph.NodeID, f Flags) {
	s.Touch(n).Flags |= f
}

// ClearFlags clears f on the record of n, whether or not the record is stale.
func (s *RecordStore) ClearFlags(n graph.NodeID, f Flags) {
	if int(n) >= len(s.records) {
		return
	}
	s.records[n].Flags &^= f
}

// push inserts n into the open list or restores the heap after its G decreased.
func (s *RecordStore) push(r *Record) {
	if r.heapIndex >= 0 {
		s.open.Update(int(r.heapIndex), r.F(), r.H)
		return
	}
	s.open.Push(queue.Item{Node: uint32(r.Node), F: r.F(), H: r.H})
}

// pop removes the open node with the lowest F, ties broken by lower H, and
// marks it closed.
func (s *RecordStore) pop() (*Record, bool) {
	it, ok := s.open.Pop()
	if !ok {
		return nil, false
	}
	r := &s.records[it.Node]
	r.closed = true
	return r, true
}

// OpenLen returns the number of nodes in the open list.
func (s *RecordStore) OpenLen() int { return s.open.Len() }
