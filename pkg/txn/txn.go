package txn

// State of a transaction. Both terminal states are final; a transaction
// never returns to StateActive.
type State int

const (
	StateActive State = iota
	StateCommitted
	StateAborted
)

type opKind int

const (
	opSet opKind = iota
	opDelete
)

// op is a buffered write intent, owned exclusively by its transaction
// until commit.
type op struct {
	kind  opKind
	key   string
	value []byte
}

// Txn is a snapshot-isolated transaction. Reads observe exactly the state
// committed at or before startTs; writes accumulate in an ordered local
// buffer and become visible to others only when Commit applies them all
// under one commit timestamp. Buffered writes are not visible to the
// transaction's own reads either; Get always answers from the snapshot.
//
// A Txn is owned by the caller that began it and is not safe for
// concurrent use.
type Txn struct {
	id       uint64
	startTs  uint64
	commitTs uint64
	state    State
	update   bool

	writes    []op
	maxWrites int // 0 = unbounded

	oracle *Oracle
	store  *Store
	sink   EventSink
}

func NewTxn(update bool, id, startTs uint64, maxWrites int, oracle *Oracle, store *Store, sink EventSink) *Txn {
	return &Txn{
		id:      id,
		startTs: startTs,
		state:   StateActive,
		update:  update,

		maxWrites: maxWrites,

		oracle: oracle,
		store:  store,
		sink:   sink,
	}
}

func (t *Txn) ID() uint64 {
	return t.id
}

func (t *Txn) StartTs() uint64 {
	return t.startTs
}

func (t *Txn) State() State {
	return t.state
}

// CommitTs returns the timestamp stamped on this transaction's versions,
// zero until Commit succeeds (and zero forever for an empty commit).
func (t *Txn) CommitTs() uint64 {
	return t.commitTs
}

// Get returns the snapshot value of key. A miss is an ordinary (nil, false)
// result; the error is reserved for misuse.
func (t *Txn) Get(key string) ([]byte, bool, error) {
	if t.state != StateActive {
		return nil, false, TxnFinishedErr
	}
	if len(key) == 0 {
		return nil, false, KeyIsEmptyErr
	}

	val, ok := t.store.ReadAsOf(key, t.startTs)
	return val, ok, nil
}

// Set buffers a write of key=value.
func (t *Txn) Set(key string, value []byte) error {
	return t.addOp(op{kind: opSet, key: key, value: value})
}

// Delete buffers a deletion of key; commit will append a tombstone.
func (t *Txn) Delete(key string) error {
	return t.addOp(op{kind: opDelete, key: key})
}

func (t *Txn) addOp(o op) error {
	switch {
	case t.state != StateActive:
		return TxnFinishedErr
	case !t.update:
		return ReadOnlyTxnErr
	case len(o.key) == 0:
		return KeyIsEmptyErr
	case t.maxWrites > 0 && len(t.writes) >= t.maxWrites:
		return WriteBufferFullErr
	}
	t.writes = append(t.writes, o)
	return nil
}

// Commit applies the write buffer as one atomic unit. On conflict the
// transaction is aborted and nothing is applied; the caller may retry as a
// fresh transaction. Committing an empty buffer succeeds without drawing a
// commit timestamp.
func (t *Txn) Commit() error {
	if t.state != StateActive {
		return TxnFinishedErr
	}

	if len(t.writes) == 0 {
		t.state = StateCommitted
		t.oracle.DoneRead(t.startTs)
		t.sink.TxnCommitted(t.id, t.commitTs)
		return nil
	}

	commitTs, err := t.oracle.NewCommitTs(t)
	if err != nil {
		t.state = StateAborted
		t.writes = nil
		t.oracle.DoneRead(t.startTs)
		t.sink.TxnConflicted(t.id, t.startTs)
		return err
	}

	t.commitTs = commitTs
	t.state = StateCommitted
	t.oracle.DoneRead(t.startTs)
	t.sink.TxnCommitted(t.id, commitTs)
	return nil
}

// Rollback discards the write buffer and aborts. Rolling back an already
// aborted transaction is a no-op; rolling back a committed one is a
// programming error.
func (t *Txn) Rollback() error {
	switch t.state {
	case StateAborted:
		return nil
	case StateCommitted:
		return TxnFinishedErr
	}

	t.state = StateAborted
	t.writes = nil
	t.oracle.DoneRead(t.startTs)
	t.sink.TxnAborted(t.id)
	return nil
}
