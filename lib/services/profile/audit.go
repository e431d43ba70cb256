package profile

import (
	"context"
	"time"
)

// Outcome is one job's result, recorded for operator analytics
type Outcome struct {
	TwitterID string
	AtCoderID string
	Rating    int
	Tier      string
	Status    string // "success" or "failed"
	Error     string
	Duration  time.Duration
}

// AuditSink receives job outcomes. Implementations must be best-effort:
// recording an outcome never fails a job.
type AuditSink interface {
	Record(ctx context.Context, outcome Outcome)
}
