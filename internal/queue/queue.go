// Package queue provides the binary min-heap backing the search open list.
package queue

// Item is an entry of the priority queue.
type Item struct {
	Node uint32 // Node is the value of the item.
	F    uint32 // F is the primary priority (lower first).
	H    uint32 // H breaks ties between equal F (lower first).
}

// MoveFunc is called whenever an item changes its position in the heap.
// index is -1 when the item left the heap.
type MoveFunc func(node uint32, index int)

// PriorityQueue is a min-heap of Items ordered by F, then H.
// Value-based storage; the optional MoveFunc lets callers track heap positions
// for decrease-key without storing pointers in the heap.
type PriorityQueue struct {
	items  []Item
	onMove MoveFunc
}

// NewMin initializes a new min priority queue.
func NewMin(capacity int, onMove MoveFunc) *PriorityQueue {
	return &PriorityQueue{
		items:  make([]Item, 0, capacity),
		onMove: onMove,
	}
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue) Len() int { return len(pq.items) }

// Top returns the smallest element without removing it.
func (pq *PriorityQueue) Top() (Item, bool) {
	if len(pq.items) == 0 {
		return Item{}, false
	}
	return pq.items[0], true
}

// At returns the element at heap index i.
func (pq *PriorityQueue) At(i int) Item { return pq.items[i] }

// Push inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue) Push(item Item) {
	pq.items = append(pq.items, item)
	i := len(pq.items) - 1
	pq.moved(i)
	pq.siftUp(i)
}

// Pop removes and returns the smallest element.
func (pq *PriorityQueue) Pop() (Item, bool) {
	n := len(pq.items)
	if n == 0 {
		return Item{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items[n-1] = Item{}
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.moved(0)
		pq.siftDown(0)
	}
	if pq.onMove != nil {
		pq.onMove(root.Node, -1)
	}
	return root, true
}

// Update changes the priorities of the item at heap index i and restores the
// heap invariant.
func (pq *PriorityQueue) Update(i int, f, h uint32) {
	pq.items[i].F = f
	pq.items[i].H = h
	if !pq.siftUp(i) {
		pq.siftDown(i)
	}
}

// Reset clears the priority queue for reuse.
// Items are not reported to MoveFunc.
func (pq *PriorityQueue) Reset() {
	clear(pq.items)
	pq.items = pq.items[:0]
}

func (pq *PriorityQueue) less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.F != b.F {
		return a.F < b.F
	}
	return a.H < b.H
}

func (pq *PriorityQueue) swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.moved(i)
	pq.moved(j)
}

func (pq *PriorityQueue) moved(i int) {
	if pq.onMove != nil {
		pq.onMove(pq.items[i].Node, i)
	}
}

// siftUp reports whether the item moved.
func (pq *PriorityQueue) siftUp(i int) bool {
	start := i
	for i > 0 {
		p := (i - 1) / 2
		if !pq.less(i, p) {
			break
		}
		pq.swap(i, p)
		i = p
	}
	return i != start
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && pq.less(r, l) {
			best = r
		}
		if !pq.less(best, i) {
			return
		}
		pq.swap(i, best)
		i = best
	}
}
