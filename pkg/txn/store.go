package txn

import (
	"sync"

	"github.com/tidwall/btree"
)

// node pairs a key with its version chain. Nodes live for the process
// lifetime; deletion only ever appends a tombstone version.
type node struct {
	name string

	mu    sync.Mutex // guards chain for the duration of a scan or append
	chain versionChain
}

// Store maps key names to their version chains. The store-wide lock is held
// only while inserting a node, so operations on distinct keys do not
// contend with each other.
type Store struct {
	lock  sync.RWMutex
	index *btree.BTreeG[*node]
}

func NewStore() *Store {
	return &Store{
		index: btree.NewBTreeG[*node](func(a, b *node) bool {
			return a.name < b.name
		}),
	}
}

// lookup returns the node for name if it exists.
func (s *Store) lookup(name string) (*node, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.index.Get(&node{name: name})
}

// getOrCreate returns the existing node or inserts an empty one. At most
// one node ever exists per name, even under concurrent first writers.
func (s *Store) getOrCreate(name string) *node {
	s.lock.Lock()
	defer s.lock.Unlock()

	if n, ok := s.index.Get(&node{name: name}); ok {
		return n
	}
	n := &node{name: name}
	s.index.Set(n)
	return n
}

// ReadAsOf returns the newest value of name committed at or before ts.
func (s *Store) ReadAsOf(name string, ts uint64) ([]byte, bool) {
	n, ok := s.lookup(name)
	if !ok {
		return nil, false
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	return n.chain.visibleAsOf(ts)
}

// newestCommitTs returns the latest committed timestamp for name, used by
// the commit-time conflict check.
func (s *Store) newestCommitTs(name string) (uint64, bool) {
	n, ok := s.lookup(name)
	if !ok {
		return 0, false
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	return n.chain.newestCommitTs()
}

// apply appends one version per op, all stamped with commitTs. The caller
// holds the commit serialization point, so no other commit interleaves;
// node locks are still taken so in-flight readers never observe a chain
// mid-update.
func (s *Store) apply(commitTs uint64, ops []op, sink EventSink) {
	for _, o := range ops {
		n := s.getOrCreate(o.key)

		n.mu.Lock()
		n.chain.append(&Version{
			CommitTs:  commitTs,
			Value:     o.value,
			Tombstone: o.kind == opDelete,
		})
		n.mu.Unlock()

		sink.VersionApplied(o.key, commitTs, o.kind == opDelete)
	}
}

// Preload seeds a key with a version at timestamp 0, visible to every
// snapshot. It refuses keys that already have history.
func (s *Store) Preload(name string, value []byte) error {
	n := s.getOrCreate(name)

	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.chain.empty() {
		return KeyInitializedErr
	}
	n.chain.append(&Version{CommitTs: 0, Value: value})
	return nil
}

// Compact reclaims versions older than cutoff on every chain, keeping the
// newest version at or below the cutoff. Returns the number removed.
func (s *Store) Compact(cutoff uint64) int {
	s.lock.RLock()
	nodes := make([]*node, 0, s.index.Len())
	s.index.Scan(func(n *node) bool {
		nodes = append(nodes, n)
		return true
	})
	s.lock.RUnlock()

	removed := 0
	for _, n := range nodes {
		n.mu.Lock()
		removed += n.chain.compact(cutoff)
		n.mu.Unlock()
	}
	return removed
}
