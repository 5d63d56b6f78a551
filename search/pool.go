package search

import (
	"errors"
	"slices"
	"sync"

	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
)

var (
	// ErrAlreadyClaimed is returned when an owner claims a request twice.
	ErrAlreadyClaimed = errors.New("search: request already claimed by this owner")
	// ErrNotClaimed is returned when an owner releases a request it has not claimed.
	ErrNotClaimed = errors.New("search: request not claimed by this owner")
)

// Pool recycles requests. A pooled request goes back to the pool once it has
// been Returned and its last claim is released.
type Pool struct {
	p sync.Pool
}

// NewPool creates an empty request pool.
func NewPool() *Pool {
	return &Pool{
		p: sync.Pool{
			New: func() any { return &Request{} },
		},
	}
}

// Get returns a request configured for a search from start to end on g.
func (p *Pool) Get(g graph.Graph, start, end geom.Vec3, opts ...Option) *Request {
	r := p.p.Get().(*Request)
	r.Init(g, start, end, opts...)
	r.pool = p
	return r
}

func (p *Pool) put(r *Request) {
	r.Reset()
	r.pool = nil
	p.p.Put(r)
}

// Claim registers owner as a user of the request's result. Owners must be
// comparable, usually pointers. A claimed request is not recycled.
func (r *Request) Claim(owner any) error {
	r.claimMu.Lock()
	defer r.claimMu.Unlock()

	if slices.Contains(r.claims, owner) {
		return ErrAlreadyClaimed
	}
	r.claims = append(r.claims, owner)
	return nil
}

// Release drops the claim of owner. When no claims remain and the request
// has been Returned, a pooled request is recycled and must not be used again.
func (r *Request) Release(owner any) error {
	r.claimMu.Lock()
	i := slices.Index(r.claims, owner)
	if i < 0 {
		r.claimMu.Unlock()
		return ErrNotClaimed
	}
	r.claims = slices.Delete(r.claims, i, i+1)
	recycle := len(r.claims) == 0 && r.pipeline == Returned && r.pool != nil
	r.claimMu.Unlock()

	if recycle {
		r.pool.put(r)
	}
	return nil
}

// Claims returns the number of current claims.
func (r *Request) Claims() int {
	r.claimMu.Lock()
	defer r.claimMu.Unlock()
	return len(r.claims)
}

// FakePath builds a completed, returned request from an existing path. The
// slices are copied; either may be empty.
func FakePath(points []geom.Vec3, nodes []graph.NodeID) *Request {
	r := &Request{}
	r.Reset()
	r.state = Complete
	r.pipeline = Returned
	r.nodes = append(r.nodes, nodes...)
	r.points = append(r.points, points...)
	if len(points) > 0 {
		r.rawStart, r.startPoint = points[0], points[0]
		r.rawEnd, r.endPoint = points[len(points)-1], points[len(points)-1]
	}
	if len(nodes) > 0 {
		r.startNode, r.endNode = nodes[0], nodes[len(nodes)-1]
	}
	return r
}
