// Package audit persists job outcomes to ClickHouse for operator analytics.
// The sink is optional: when ClickHouse is not configured the worker runs
// without it and outcomes are only visible through logs and metrics.
package audit

import (
	"context"

	"profileupdater/lib/database/clickhouse"
	"profileupdater/lib/services/profile"
	"profileupdater/lib/utils/logging"
)

const createTable = `
CREATE TABLE IF NOT EXISTS profile_update_log (
	ts          DateTime DEFAULT now(),
	twitter_id  String,
	atcoder_id  String,
	rating      Int32,
	tier        String,
	status      String,
	error       String,
	duration_ms Int64
) ENGINE = MergeTree()
ORDER BY ts`

type Log struct {
	logger logging.Logger
}

// NewLog returns a ClickHouse-backed audit sink, or nil when ClickHouse is
// not configured. A nil sink is valid: the Updater skips recording.
func NewLog() *Log {
	if !clickhouse.Enabled() {
		return nil
	}

	clickhouse.Wait()
	logger := logging.NewLogger("AUDIT")

	if err := clickhouse.DB.Exec(context.Background(), createTable); err != nil {
		logger.Fatal("AUDIT_TABLE_CREATE_FAILED", err, nil)
	}

	return &Log{logger: logger}
}

var _ profile.AuditSink = (*Log)(nil)

// Record inserts one outcome row. Best-effort: failures are logged, never
// propagated into the job result.
func (l *Log) Record(ctx context.Context, outcome profile.Outcome) {
	err := clickhouse.DB.AsyncInsert(ctx, `
		INSERT INTO profile_update_log (twitter_id, atcoder_id, rating, tier, status, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, false,
		outcome.TwitterID,
		outcome.AtCoderID,
		int32(outcome.Rating),
		outcome.Tier,
		outcome.Status,
		outcome.Error,
		outcome.Duration.Milliseconds(),
	)
	if err != nil {
		l.logger.Warn("AUDIT_INSERT_FAILED", err, map[string]any{
			logging.TWITTER_ID: outcome.TwitterID,
		})
	}
}
