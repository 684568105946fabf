package txn

import (
	"container/heap"
	"sync"
)

type TsHeap []uint64

func (h *TsHeap) Len() int           { return len(*h) }
func (h *TsHeap) Less(i, j int) bool { return (*h)[i] < (*h)[j] }
func (h *TsHeap) Swap(i, j int)      { (*h)[i], (*h)[j] = (*h)[j], (*h)[i] }
func (h *TsHeap) Push(x any)         { *h = append(*h, x.(uint64)) }
func (h *TsHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// txnTracker follows the begin timestamps of in-flight transactions so the
// oracle can report the oldest active snapshot, the retention cutoff for
// version reclamation.
type txnTracker struct {
	mu               sync.Mutex
	tsHeap           TsHeap
	pendingTxnCounts map[uint64]int // ts -> active txn count
}

func newTxnTracker() *txnTracker {
	var tsHeap TsHeap
	heap.Init(&tsHeap)

	return &txnTracker{
		tsHeap:           tsHeap,
		pendingTxnCounts: make(map[uint64]int),
	}
}

func (t *txnTracker) begin(ts uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.pendingTxnCounts[ts]; !ok {
		heap.Push(&t.tsHeap, ts)
	}
	t.pendingTxnCounts[ts] += 1
}

func (t *txnTracker) done(ts uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pendingTxnCounts[ts] += -1
}

// oldestActive returns the smallest begin timestamp with a pending
// transaction. Fully drained timestamps are popped lazily here.
func (t *txnTracker) oldestActive() (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for len(t.tsHeap) > 0 {
		ts := t.tsHeap[0]
		if t.pendingTxnCounts[ts] > 0 {
			return ts, true
		}
		heap.Pop(&t.tsHeap)
		delete(t.pendingTxnCounts, ts)
	}
	return 0, false
}
