package task

import (
	"context"
	"errors"
	"time"
)

// Common errors returned by the Writer
var (
	ErrWriterClosed = errors.New("writer is closed")
	ErrJobPanicked  = errors.New("writer job panicked")
)

// Job names used for logging and metrics.
const (
	JobCommitReview     = "commit_review"
	JobResetCard        = "reset_card"
	JobCreateCard       = "create_card"
	JobDeleteCard       = "delete_card"
	JobCreateCollection = "create_collection"
	JobDeleteCollection = "delete_collection"
	JobCacheWrite       = "cache_write"
)

// Job is a unit of mutation executed on the writer goroutine.
//
// The context passed to a Job carries the caller's values but is never
// cancelled; once a job starts it runs to completion. A Job must not call
// Writer.Do itself.
type Job func(ctx context.Context) error

// JobObserver receives the outcome of every executed job.
type JobObserver interface {
	ObserveJob(name string, duration time.Duration, err error)
}

// Executor runs jobs one at a time.
type Executor interface {
	Do(ctx context.Context, name string, job Job) error
}

type request struct {
	name string
	job  Job
	ctx  context.Context
	done chan error
}
