package db

import (
	"sync/atomic"

	"mvkv/pkg/config"
	"mvkv/pkg/txn"
)

// Db is the handle to one in-memory MVCC store. All state lives for the
// lifetime of the handle; Stop makes every subsequent operation fail with
// DbStoppedErr.
type Db struct {
	stopped atomic.Bool

	oracle *txn.Oracle
	store  *txn.Store
	sink   txn.EventSink

	maxWriteBuffer int
}

func New(conf *config.Config, sink txn.EventSink) *Db {
	if conf == nil {
		conf = config.NewDefaultConfig()
	}
	if sink == nil {
		sink = txn.NopSink{}
	}

	store := txn.NewStore()
	return &Db{
		oracle:         txn.NewOracle(store),
		store:          store,
		sink:           sink,
		maxWriteBuffer: conf.MaxWriteBuffer,
	}
}

// Begin starts an update transaction.
func (db *Db) Begin() (*txn.Txn, error) {
	return db.begin(true)
}

func (db *Db) begin(update bool) (*txn.Txn, error) {
	if db.stopped.Load() {
		return nil, txn.DbStoppedErr
	}

	id := db.oracle.NextTxnID()
	startTs := db.oracle.NewBeginTs()
	db.sink.TxnBegan(id, startTs)

	return txn.NewTxn(update, id, startTs, db.maxWriteBuffer, db.oracle, db.store, db.sink), nil
}

// View runs fn inside a read-only transaction.
func (db *Db) View(fn func(t *txn.Txn) error) error {
	t, err := db.begin(false)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()

	return fn(t)
}

// Update runs fn inside an update transaction and commits it. If fn
// returns an error the transaction is rolled back and nothing is applied.
func (db *Db) Update(fn func(t *txn.Txn) error) error {
	t, err := db.begin(true)
	if err != nil {
		return err
	}

	if err := fn(t); err != nil {
		_ = t.Rollback()
		return err
	}
	return t.Commit()
}

// ReadAsOf is a historical point read at ts, bypassing any transaction.
func (db *Db) ReadAsOf(key string, ts uint64) ([]byte, bool, error) {
	if db.stopped.Load() {
		return nil, false, txn.DbStoppedErr
	}
	if len(key) == 0 {
		return nil, false, txn.KeyIsEmptyErr
	}

	val, ok := db.store.ReadAsOf(key, ts)
	return val, ok, nil
}

// Preload seeds keys with versions at timestamp 0, visible to every
// snapshot. Keys that already have history are rejected.
func (db *Db) Preload(pairs map[string][]byte) error {
	if db.stopped.Load() {
		return txn.DbStoppedErr
	}

	for k, v := range pairs {
		if len(k) == 0 {
			return txn.KeyIsEmptyErr
		}
		if err := db.store.Preload(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Compact reclaims versions no active transaction can observe: everything
// older than the oldest active snapshot, except the newest such version on
// each chain. Returns the number of versions removed.
func (db *Db) Compact() (int, error) {
	if db.stopped.Load() {
		return 0, txn.DbStoppedErr
	}

	cutoff := db.oracle.RetentionCutoff()
	removed := db.store.Compact(cutoff)
	db.sink.Compacted(removed, cutoff)
	return removed, nil
}

func (db *Db) Stop() {
	db.stopped.CompareAndSwap(false, true)
}
