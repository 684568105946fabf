package txn

import "go.uber.org/zap"

// EventSink receives every transaction state transition and every applied
// version. The engine itself never produces output; callers inject whatever
// tracing they need.
type EventSink interface {
	TxnBegan(id, startTs uint64)
	TxnCommitted(id, commitTs uint64)
	TxnAborted(id uint64)
	TxnConflicted(id, startTs uint64)
	VersionApplied(key string, commitTs uint64, tombstone bool)
	Compacted(removed int, cutoff uint64)
}

// NopSink discards all events.
type NopSink struct{}

var _ EventSink = NopSink{}

func (NopSink) TxnBegan(id, startTs uint64)                           {}
func (NopSink) TxnCommitted(id, commitTs uint64)                      {}
func (NopSink) TxnAborted(id uint64)                                  {}
func (NopSink) TxnConflicted(id, startTs uint64)                      {}
func (NopSink) VersionApplied(key string, commitTs uint64, tomb bool) {}
func (NopSink) Compacted(removed int, cutoff uint64)                  {}

// ZapSink logs events through a zap logger.
type ZapSink struct {
	logger *zap.Logger
}

var _ EventSink = (*ZapSink)(nil)

func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

func (s *ZapSink) TxnBegan(id, startTs uint64) {
	s.logger.Info("txn begin",
		zap.Uint64("id", id),
		zap.Uint64("startTs", startTs))
}

func (s *ZapSink) TxnCommitted(id, commitTs uint64) {
	s.logger.Info("txn commit",
		zap.Uint64("id", id),
		zap.Uint64("commitTs", commitTs))
}

func (s *ZapSink) TxnAborted(id uint64) {
	s.logger.Info("txn abort", zap.Uint64("id", id))
}

func (s *ZapSink) TxnConflicted(id, startTs uint64) {
	s.logger.Warn("txn conflict",
		zap.Uint64("id", id),
		zap.Uint64("startTs", startTs))
}

func (s *ZapSink) VersionApplied(key string, commitTs uint64, tombstone bool) {
	s.logger.Info("version applied",
		zap.String("key", key),
		zap.Uint64("commitTs", commitTs),
		zap.Bool("tombstone", tombstone))
}

func (s *ZapSink) Compacted(removed int, cutoff uint64) {
	s.logger.Info("compacted",
		zap.Int("removed", removed),
		zap.Uint64("cutoff", cutoff))
}
