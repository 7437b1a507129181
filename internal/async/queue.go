package async

import (
	"context"
	"time"
)

// Job is one staged document to process. Index preserves submission order so
// output rows stay deterministic even when workers run in parallel.
type Job struct {
	Index       int
	Path        string
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
