package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/nerrad567/gray-logic-core/internal/value"
)

// SQLiteSink is the local value-history table, wired in alongside any
// enabled time-series sink so history survives even when none is
// configured (SPEC_FULL.md §2 "Local persistence"). Writes are
// best-effort: RecordChange discards a failed insert itself, so it is
// never surfaced to the tick.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink wraps an open database connection. The caller is
// responsible for having run the value_history migration first.
func NewSQLiteSink(db *sql.DB) *SQLiteSink {
	return &SQLiteSink{db: db}
}

// RecordChange inserts one row into value_history. It uses a short,
// fixed timeout rather than a caller-supplied context, since the
// dispatch loop's tick phase has no context of its own to thread
// through (spec.md §5 — the loop is not a per-request operation).
func (s *SQLiteSink) RecordChange(deviceID, uid string, v value.Value) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _ = s.db.ExecContext(ctx,
		`INSERT INTO value_history (device_id, uid, value, recorded_at) VALUES (?, ?, ?, ?)`,
		deviceID, uid, v.String(), time.Now().UTC().Format(time.RFC3339Nano),
	)
}
