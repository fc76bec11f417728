package search

import (
	"container/heap"

	"github.com/talgya/hexpath/internal/world"
)

// entry is one frontier record. A node may have several live entries after
// its cost improves; stale ones are skipped when popped.
type entry struct {
	coord    world.HexCoord
	priority float64
	seq      uint64 // Insertion order, breaks priority ties FIFO
}

// entryHeap implements heap.Interface ordered by priority, then seq.
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)   { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// frontier is a min-priority queue of hex coordinates.
type frontier struct {
	items  entryHeap
	next   uint64
	pushes int
	peak   int
}

func newFrontier() *frontier {
	f := &frontier{}
	heap.Init(&f.items)
	return f
}

func (f *frontier) push(c world.HexCoord, priority float64) {
	heap.Push(&f.items, entry{coord: c, priority: priority, seq: f.next})
	f.next++
	f.pushes++
	if len(f.items) > f.peak {
		f.peak = len(f.items)
	}
}

func (f *frontier) pop() (world.HexCoord, bool) {
	if len(f.items) == 0 {
		return world.HexCoord{}, false
	}
	e := heap.Pop(&f.items).(entry)
	return e.coord, true
}
