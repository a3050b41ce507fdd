package domain

import (
	"crypto/rand"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ReviewMode selects whether a review commit touches the real schedule.
type ReviewMode string

const (
	// ReviewModeScheduled updates the memory model and appends a log entry.
	ReviewModeScheduled ReviewMode = "scheduled"
	// ReviewModeCram appends a log entry and leaves the memory model untouched.
	ReviewModeCram ReviewMode = "cram"
)

// IsValid reports whether m is a known mode.
func (m ReviewMode) IsValid() bool {
	return m == ReviewModeScheduled || m == ReviewModeCram
}

// ErrEmptyLogCardID is returned when a review-log entry has no card.
var ErrEmptyLogCardID = errors.New("review log card ID cannot be empty")

// ReviewLogEntry is an immutable record of one review.
//
// Rating is stored exactly as submitted, including out-of-range values.
// Stage is the lifecycle stage after the review. IDs are ULIDs minted from
// the wall clock with monotonic entropy, so ordering by ID reproduces
// insertion order even when ReviewedAt values collide.
type ReviewLogEntry struct {
	ID            ulid.ULID  `json:"id"`
	CardID        uuid.UUID  `json:"card_id"`
	Rating        Rating     `json:"rating"`
	Mode          ReviewMode `json:"mode"`
	ReviewedAt    time.Time  `json:"reviewed_at"`
	ScheduledDays float64    `json:"scheduled_days"`
	ElapsedDays   float64    `json:"elapsed_days"`
	Stage         Stage      `json:"stage"`
}

// Validate checks the entry before it is appended.
func (e *ReviewLogEntry) Validate() error {
	if e.CardID == uuid.Nil {
		return ErrEmptyLogCardID
	}
	if !e.Mode.IsValid() {
		return ErrInvalidReviewMode
	}
	if !e.Stage.IsValid() {
		return ErrInvalidStage
	}
	if e.ScheduledDays < 0 || e.ElapsedDays < 0 {
		return NewValidationError("days", "cannot be negative", ErrValidation)
	}
	return nil
}

var (
	entropyMu sync.Mutex
	entropy   io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// NewReviewLogID mints an insertion-ordered identifier for a review-log entry.
func NewReviewLogID() ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}
