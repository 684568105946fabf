package txn

import "errors"

var DbStoppedErr = errors.New("db is stopped, can not perform the operation")
var ReadOnlyTxnErr = errors.New("txn is read-only, can not perform the operation")
var TxnFinishedErr = errors.New("txn is already committed or aborted")
var TxnConflictErr = errors.New("txn has conflict, can not commit")
var WriteBufferFullErr = errors.New("txn write buffer is at capacity")
var KeyIsEmptyErr = errors.New("key is empty")
var KeyInitializedErr = errors.New("key already has versions, can not preload")
