package txn

import (
	"sync"
	"sync/atomic"
)

// Oracle is the single source of global ordering: it hands out transaction
// ids and timestamps, and its mutex is the serialization point every commit
// passes through. Begin and commit timestamps come from one shared
// strictly-increasing sequence, so a snapshot taken at ts S observes
// exactly the commits with timestamp <= S.
type Oracle struct {
	sync.Mutex
	nextTs uint64

	nextTxnID atomic.Uint64

	store      *Store
	activeTxns *txnTracker
}

func NewOracle(store *Store) *Oracle {
	return &Oracle{
		nextTs:     1,
		store:      store,
		activeTxns: newTxnTracker(),
	}
}

// NextTxnID returns a fresh transaction id, strictly greater than any id
// returned before.
func (o *Oracle) NextTxnID() uint64 {
	return o.nextTxnID.Add(1)
}

// NewBeginTs draws a snapshot timestamp and registers it as active. Taking
// the commit lock here keeps a begin from landing between a concurrent
// commit's timestamp assignment and its version application, which would
// let the new snapshot miss a commit it is supposed to see.
func (o *Oracle) NewBeginTs() uint64 {
	o.Lock()
	defer o.Unlock()

	ts := o.nextTs
	o.nextTs = o.nextTs + 1
	o.activeTxns.begin(ts)
	return ts
}

// NewCommitTs runs the whole commit critical section for t: conflict check,
// timestamp assignment and version application. On conflict nothing is
// applied and TxnConflictErr is returned.
func (o *Oracle) NewCommitTs(t *Txn) (uint64, error) {
	o.Lock()
	defer o.Unlock()

	if o.hasConflictFor(t) {
		return 0, TxnConflictErr
	}

	commitTs := o.nextTs
	o.nextTs = o.nextTs + 1

	o.store.apply(commitTs, t.writes, t.sink)
	return commitTs, nil
}

// hasConflictFor reports a write-write conflict: some key in t's buffer was
// committed by another transaction after t took its snapshot. First
// committer wins.
func (o *Oracle) hasConflictFor(t *Txn) bool {
	for _, w := range t.writes {
		if newest, ok := o.store.newestCommitTs(w.key); ok && newest > t.startTs {
			return true
		}
	}
	return false
}

// DoneRead releases ts from the active set. Called exactly once per
// transaction, when it reaches a terminal state.
func (o *Oracle) DoneRead(ts uint64) {
	o.activeTxns.done(ts)
}

// RetentionCutoff is the highest timestamp safe to compact below: one less
// than the oldest active snapshot, or the last issued timestamp when no
// transaction is in flight.
func (o *Oracle) RetentionCutoff() uint64 {
	if ts, ok := o.activeTxns.oldestActive(); ok {
		return ts - 1
	}

	o.Lock()
	defer o.Unlock()
	return o.nextTs - 1
}
