package search

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
)

// CompleteState is the outcome of a request.
type CompleteState uint8

const (
	// NotCalculated means the search has not finished yet.
	NotCalculated CompleteState = iota
	// Complete means a path to the target was found.
	Complete
	// Partial means the target was unreachable and the result ends at the
	// reached node closest to it.
	Partial
	// Error means the request failed; see Request.Err.
	Error
)

func (s CompleteState) String() string {
	switch s {
	case NotCalculated:
		return "not-calculated"
	case Complete:
		return "complete"
	case Partial:
		return "partial"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("CompleteState(%d)", uint8(s))
	}
}

// PipelineState tracks where a request is in its lifecycle.
type PipelineState uint8

const (
	// Created requests have not been prepared.
	Created PipelineState = iota
	// Processing requests have been prepared and not cleaned up.
	Processing
	// Returned requests have been cleaned up; their results are final.
	Returned
)

func (s PipelineState) String() string {
	switch s {
	case Created:
		return "created"
	case Processing:
		return "processing"
	case Returned:
		return "returned"
	default:
		return fmt.Sprintf("PipelineState(%d)", uint8(s))
	}
}

// StepResult is returned by ComputeSlice.
type StepResult uint8

const (
	// Suspended means the deadline passed; call ComputeSlice again to resume.
	Suspended StepResult = iota
	// Done means the request reached a terminal state.
	Done
)

func (s StepResult) String() string {
	if s == Suspended {
		return "suspended"
	}
	return "done"
}

var errNotInitialized = errors.New("search: ComputeSlice called before Initialize")

// Request is a single point-to-point search.
//
// A Request is driven by one goroutine at a time. Cancel may be called from
// any goroutine.
type Request struct {
	g     graph.Graph
	opts  options
	store *RecordStore

	rawStart, rawEnd     geom.Vec3
	startPoint, endPoint geom.Vec3
	startInt, hTarget    geom.Int3
	startNode, endNode   graph.NodeID
	approximate          bool

	// flagged holds every node this request set a flag on.
	flagged *roaring.Bitmap

	searchID    uint64
	state       CompleteState
	pipeline    PipelineState
	prepared    bool
	current     graph.NodeID
	partialBest graph.NodeID
	counter     int
	searched    int
	duration    time.Duration

	err     error
	message string

	nodes  []graph.NodeID
	points []geom.Vec3
	cost   uint32

	canceled atomic.Pointer[string]

	claimMu sync.Mutex
	claims  []any
	pool    *Pool
}

// NewRequest creates a request from start to end on g.
func NewRequest(g graph.Graph, start, end geom.Vec3, opts ...Option) *Request {
	r := &Request{flagged: roaring.New()}
	r.Init(g, start, end, opts...)
	return r
}

// Init resets the request and configures it for a new search.
func (r *Request) Init(g graph.Graph, start, end geom.Vec3, opts ...Option) {
	r.Reset()
	r.g = g
	r.rawStart, r.rawEnd = start, end
	r.startPoint, r.endPoint = start, end
	for _, opt := range opts {
		opt(&r.opts)
	}
}

// Reset returns every field to its default. Result slices keep their capacity.
func (r *Request) Reset() {
	if r.flagged == nil {
		r.flagged = roaring.New()
	}
	r.flagged.Clear()

	r.g = nil
	r.opts = defaultOptions()
	r.store = nil
	r.rawStart, r.rawEnd = geom.Vec3{}, geom.Vec3{}
	r.startPoint, r.endPoint = geom.Vec3{}, geom.Vec3{}
	r.startInt, r.hTarget = geom.Int3{}, geom.Int3{}
	r.startNode, r.endNode = graph.NoNode, graph.NoNode
	r.approximate = false
	r.searchID = 0
	r.state = NotCalculated
	r.pipeline = Created
	r.prepared = false
	r.current = graph.NoNode
	r.partialBest = graph.NoNode
	r.counter = 0
	r.searched = 0
	r.duration = 0
	r.err = nil
	r.message = ""
	r.nodes = r.nodes[:0]
	r.points = r.points[:0]
	r.cost = 0
	r.canceled.Store(nil)

	r.claimMu.Lock()
	r.claims = r.claims[:0]
	r.claimMu.Unlock()
}

// Prepare binds the request to store and resolves the start and end nodes.
// Failures are reported through the request state.
func (r *Request) Prepare(store *RecordStore) {
	r.pipeline = Processing
	r.store = store
	r.searchID = NewSearchID()
	store.Begin(r.searchID, r.g.NodeCount())
	r.prepared = true

	if r.checkCanceled() {
		return
	}

	start := r.g.Nearest(r.rawStart, r.CanTraverse)
	if !start.Found() {
		r.fail(ErrNoStartNode)
		return
	}
	r.startNode = start.Node
	r.startPoint = start.Position
	r.startInt = start.Position.Int3()
	if !r.CanTraverse(r.startNode) {
		r.fail(fmt.Errorf("%w: start node %d", ErrUntraversable, r.startNode))
		return
	}

	end := r.g.Nearest(r.rawEnd, r.CanTraverse)
	if !end.Found() {
		r.fail(ErrNoEndNode)
		return
	}
	r.endNode = end.Node
	r.endPoint = end.Position
	if !r.CanTraverse(r.endNode) {
		r.fail(fmt.Errorf("%w: end node %d", ErrUntraversable, r.endNode))
		return
	}

	if r.opts.partitionCheck && r.g.Area(r.startNode) != r.g.Area(r.endNode) {
		r.fail(ErrDifferentPartitions)
		return
	}

	if res, ok := r.g.(graph.ApproximateTargetResolver); ok {
		if t, ok := res.ResolveApproximateTarget(r.endNode, r.rawEnd); ok {
			r.approximate = true
			r.endNode = t.Node
			r.endPoint = t.Position.Vec3()
			r.hTarget = t.Position
			for _, n := range t.Surrounding {
				r.mark(n, FlagTarget)
			}
			return
		}
	}

	r.hTarget = r.endPoint.Int3()
	r.mark(r.endNode, FlagTarget)
}

// Initialize opens the start node. A start node that already is a target
// completes the request with a single node path.
func (r *Request) Initialize() {
	if r.state != NotCalculated || r.checkCanceled() {
		return
	}
	began := time.Now()
	defer func() { r.duration += time.Since(began) }()

	r.mark(r.startNode, FlagEndpoint)
	r.mark(r.endNode, FlagEndpoint)

	rec := r.store.Touch(r.startNode)
	rec.Parent = graph.NoNode
	rec.G = r.traversalCost(r.startNode)
	rec.H = r.heuristic(r.startNode)

	if rec.Flags&FlagTarget != 0 {
		r.completeWith(r.startNode)
		r.trace(r.startNode)
		return
	}

	rec.closed = true
	r.g.Open(r.startNode, (*relaxer)(r))
	r.searched++
	r.partialBest = r.startNode

	next, ok := r.store.pop()
	if !ok {
		if r.opts.partial {
			r.state = Partial
			r.message = ErrNoReachableNodes.Error() + "; returning partial path"
			r.trace(r.startNode)
		} else {
			r.fail(ErrNoReachableNodes)
		}
		return
	}
	r.current = next.Node
}

// ComputeSlice advances the search until it finishes or deadline passes. A
// zero deadline never expires. The deadline is only checked every
// TimeCheckInterval iterations.
//
// The returned error is non-nil only for ErrSearchRunaway. Every other
// failure is reported through the request state.
func (r *Request) ComputeSlice(deadline time.Time) (StepResult, error) {
	if r.state != NotCalculated || r.checkCanceled() {
		return Done, nil
	}
	if !r.current.Valid() {
		r.fail(errNotInitialized)
		return Done, nil
	}
	began := time.Now()
	defer func() { r.duration += time.Since(began) }()

	for r.state == NotCalculated {
		r.searched++
		if r.searched > r.opts.maxSearchedNodes {
			err := fmt.Errorf("%w: over %d nodes searched", ErrSearchRunaway, r.opts.maxSearchedNodes)
			r.fail(err)
			return Done, err
		}

		cur := &r.store.records[r.current]
		if cur.Flags&FlagTarget != 0 {
			r.completeWith(r.current)
			r.trace(r.current)
			return Done, nil
		}

		if cur.H < r.store.records[r.partialBest].H {
			r.partialBest = r.current
		}

		r.g.Open(r.current, (*relaxer)(r))

		next, ok := r.store.pop()
		if !ok {
			if r.opts.partial {
				r.state = Partial
				r.message = ErrTargetUnreachable.Error() + "; returning partial path"
				r.trace(r.partialBest)
			} else {
				r.fail(ErrTargetUnreachable)
			}
			return Done, nil
		}
		r.current = next.Node

		r.counter++
		if r.counter >= r.opts.timeCheckInterval {
			r.counter = 0
			if !deadline.IsZero() && !time.Now().Before(deadline) {
				return Suspended, nil
			}
		}
	}

	return Done, nil
}

// Cleanup clears every flag the request set and marks it Returned. It must
// run once Prepare has been called, whatever the outcome. A request still
// running is failed with ErrCanceled.
func (r *Request) Cleanup() {
	if r.state == NotCalculated && r.pipeline == Processing {
		r.fail(fmt.Errorf("%w: cleaned up before completion", ErrCanceled))
	}
	if r.prepared && r.store != nil {
		it := r.flagged.Iterator()
		for it.HasNext() {
			r.store.ClearFlags(graph.NodeID(it.Next()), FlagTarget|FlagEndpoint)
		}
		r.flagged.Clear()
		r.prepared = false
	}
	r.pipeline = Returned
}

// Run drives the whole lifecycle on store without a deadline. The returned
// error is non-nil only for ErrSearchRunaway.
func (r *Request) Run(store *RecordStore) error {
	defer r.Cleanup()

	r.Prepare(store)
	r.Initialize()
	for {
		step, err := r.ComputeSlice(time.Time{})
		if err != nil {
			return err
		}
		if step == Done {
			return nil
		}
	}
}

// Cancel fails the request with ErrCanceled. The cancellation is observed
// the next time the request is advanced; Cleanup still has to run.
func (r *Request) Cancel(reason string) {
	r.canceled.Store(&reason)
}

func (r *Request) checkCanceled() bool {
	reason := r.canceled.Load()
	if reason == nil || r.state != NotCalculated {
		return false
	}
	r.fail(fmt.Errorf("%w: %s", ErrCanceled, *reason))
	return true
}

func (r *Request) fail(err error) {
	r.state = Error
	r.err = err
}

func (r *Request) mark(n graph.NodeID, f Flags) {
	r.store.SetFlags(n, f)
	r.flagged.Add(uint32(n))
}

// completeWith finishes the search at n. When n is not the end node the
// target was redirected, and the end point moves onto n.
func (r *Request) completeWith(n graph.NodeID) {
	if n != r.endNode {
		if res, ok := r.g.(graph.ApproximateTargetResolver); ok {
			r.endPoint = res.ClosestPointOnNode(n, r.rawEnd)
		} else {
			r.endPoint = r.g.Position(n).Vec3()
		}
		r.endNode = n
	}
	r.state = Complete
}

// trace builds the result by walking parent links from n back to the start.
func (r *Request) trace(n graph.NodeID) {
	r.cost = r.store.records[n].G

	r.nodes = r.nodes[:0]
	for c := n; c.Valid(); c = r.store.records[c].Parent {
		r.nodes = append(r.nodes, c)
	}
	for i, j := 0, len(r.nodes)-1; i < j; i, j = i+1, j-1 {
		r.nodes[i], r.nodes[j] = r.nodes[j], r.nodes[i]
	}

	r.points = r.points[:0]
	for _, c := range r.nodes {
		r.points = append(r.points, r.g.Position(c).Vec3())
	}
}

// CanTraverse reports whether the search may use node n.
func (r *Request) CanTraverse(n graph.NodeID) bool {
	if !r.g.Walkable(n) {
		return false
	}
	if r.opts.traversableTags&(1<<(r.g.Tag(n)&31)) == 0 {
		return false
	}
	return r.opts.graphMask&(1<<(r.g.GraphIndex()&31)) != 0
}

func (r *Request) traversalCost(n graph.NodeID) uint32 {
	return r.opts.tagPenalties[r.g.Tag(n)&31] + r.g.Penalty(n)
}

func (r *Request) heuristic(n graph.NodeID) uint32 {
	return r.opts.heuristic.Estimate(r.g.Position(n), r.hTarget, r.opts.heuristicScale)
}

// boundaryCost rescales the cost of a connection touching the start or end
// node by the distance from the snapped start point or heuristic target.
func (r *Request) boundaryCost(a, b graph.NodeID, cost uint32) uint32 {
	pa, pb := r.g.Position(a), r.g.Position(b)
	d := pa.Sub(pb).CostMagnitude()
	if d == 0 {
		return cost
	}
	var dist uint32
	switch {
	case a == r.startNode:
		if b == r.endNode {
			pb = r.hTarget
		}
		dist = r.startInt.Sub(pb).CostMagnitude()
	case b == r.startNode:
		if a == r.endNode {
			pa = r.hTarget
		}
		dist = r.startInt.Sub(pa).CostMagnitude()
	case a == r.endNode:
		dist = r.hTarget.Sub(pb).CostMagnitude()
	case b == r.endNode:
		dist = r.hTarget.Sub(pa).CostMagnitude()
	default:
		return cost
	}
	if v := uint64(dist) * uint64(cost) / uint64(d); v < Infinity {
		return uint32(v)
	}
	return Infinity - 1
}

// relaxer is the graph.Traversal view of a Request.
type relaxer Request

func (x *relaxer) CanTraverse(n graph.NodeID) bool {
	return (*Request)(x).CanTraverse(n)
}

func (x *relaxer) Relax(from, to graph.NodeID, cost uint32) {
	r := (*Request)(x)
	s := r.store

	if (s.Flags(from)|s.Flags(to))&FlagEndpoint != 0 {
		cost = r.boundaryCost(from, to, cost)
	}

	g := addCost(addCost(s.records[from].G, cost), r.traversalCost(to))

	rec := s.Touch(to)
	if rec.closed {
		return
	}
	if !rec.Reached() {
		rec.H = r.heuristic(to)
	} else if g >= rec.G {
		return
	}
	rec.G = g
	rec.Parent = from
	s.push(rec)
}

func addCost(a, b uint32) uint32 {
	if s := uint64(a) + uint64(b); s < Infinity {
		return uint32(s)
	}
	return Infinity - 1
}

// Graph returns the graph the request searches.
func (r *Request) Graph() graph.Graph { return r.g }

// CompleteState returns the outcome of the request.
func (r *Request) CompleteState() CompleteState { return r.state }

// PipelineState returns the lifecycle position of the request.
func (r *Request) PipelineState() PipelineState { return r.pipeline }

// Err returns the error of a failed request.
func (r *Request) Err() error {
	if r.state != Error {
		return nil
	}
	return r.err
}

// ErrorMessage returns the error text of a failed request, or the reason a
// result is partial. It is empty otherwise.
func (r *Request) ErrorMessage() string {
	if r.err != nil && r.state == Error {
		return r.err.Error()
	}
	return r.message
}

// Nodes returns the path nodes from start to end. The slice is owned by the
// request and stays valid until the request is recycled.
func (r *Request) Nodes() []graph.NodeID { return r.nodes }

// Points returns the positions of the path nodes.
func (r *Request) Points() []geom.Vec3 { return r.points }

// SetPoints replaces the point path, for post-processing. The request keeps
// its own copy.
func (r *Request) SetPoints(points []geom.Vec3) {
	r.points = append(r.points[:0], points...)
}

// Cost returns the G of the last path node.
func (r *Request) Cost() uint32 { return r.cost }

// Length returns the world length of the point sequence.
func (r *Request) Length() float64 {
	var l float64
	for i := 1; i < len(r.points); i++ {
		l += r.points[i].Sub(r.points[i-1]).Magnitude()
	}
	return l
}

// StartNode returns the resolved start node.
func (r *Request) StartNode() graph.NodeID { return r.startNode }

// EndNode returns the node the path ends at, or the resolved end node while
// the search runs.
func (r *Request) EndNode() graph.NodeID { return r.endNode }

// RawStart returns the requested start point.
func (r *Request) RawStart() geom.Vec3 { return r.rawStart }

// RawEnd returns the requested end point.
func (r *Request) RawEnd() geom.Vec3 { return r.rawEnd }

// StartPoint returns the start point snapped onto the start node.
func (r *Request) StartPoint() geom.Vec3 { return r.startPoint }

// EndPoint returns the end point snapped onto the end node.
func (r *Request) EndPoint() geom.Vec3 { return r.endPoint }

// HeuristicTarget returns the position H is measured against.
func (r *Request) HeuristicTarget() geom.Int3 { return r.hTarget }

// Approximate reports whether the target was redirected to the nodes
// surrounding the node closest to the raw end point.
func (r *Request) Approximate() bool { return r.approximate }

// SearchedNodes returns the number of nodes expanded so far.
func (r *Request) SearchedNodes() int { return r.searched }

// Duration returns the time spent in Initialize and ComputeSlice.
func (r *Request) Duration() time.Duration { return r.duration }

// SearchID returns the id stamped on the records of this request.
func (r *Request) SearchID() uint64 { return r.searchID }

// AllowsPartial reports whether the request accepts partial results.
func (r *Request) AllowsPartial() bool { return r.opts.partial }

// Record returns the search record of n as seen by this request. Records not
// written by this request read as unreached with H = heuristic(n).
func (r *Request) Record(n graph.NodeID) Record {
	if r.store != nil && r.store.current == r.searchID {
		if rec, ok := r.store.Lookup(n); ok {
			return rec
		}
	}
	var rec Record
	rec.reset(n, 0)
	if r.g != nil {
		rec.H = r.heuristic(n)
	}
	return rec
}

// DebugString summarizes the request for logs.
func (r *Request) DebugString() string {
	var sb strings.Builder

	if r.state == Error {
		sb.WriteString("Path Failed : ")
	} else {
		sb.WriteString("Path Completed : ")
	}
	fmt.Fprintf(&sb, "Computation Time %.2f ms Searched Nodes %d", float64(r.duration.Microseconds())/1000, r.searched)

	if r.state == Error {
		fmt.Fprintf(&sb, "\nError: %s", r.ErrorMessage())
		return sb.String()
	}

	fmt.Fprintf(&sb, " Path Length %d", len(r.nodes))
	if r.message != "" {
		fmt.Fprintf(&sb, "\n%s", r.message)
	}

	if r.endNode.Valid() {
		rec := r.Record(r.endNode)
		fmt.Fprintf(&sb, "\nEnd Node\n\tG: %d\n\tH: %d\n\tF: %d\n\tPoint: %s", rec.G, rec.H, rec.F(), r.endPoint)
	}
	sb.WriteString("\nStart Node\n\tPoint: ")
	sb.WriteString(r.startPoint.String())
	if r.startNode.Valid() {
		fmt.Fprintf(&sb, "\n\tNode: %d", r.startNode)
	} else {
		sb.WriteString("\n\tNode: < none >")
	}
	return sb.String()
}
