package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Memory model bounds.
const (
	// MinDifficulty and MaxDifficulty bound Difficulty once a card has been reviewed.
	MinDifficulty = 1.0
	MaxDifficulty = 10.0
)

// Validation errors for MemoryState
var (
	ErrEmptyStateCardID     = errors.New("memory state card ID cannot be empty")
	ErrNegativeStability    = errors.New("stability must be greater than or equal to 0")
	ErrDifficultyOutOfRange = errors.New("difficulty out of range")
	ErrInvalidCounters      = errors.New("review counters cannot be negative")
)

// MemoryState is the forgetting-curve record of one card.
//
// Stability is the interval in days after which recall probability decays to
// the reference retention. Difficulty lies in [MinDifficulty, MaxDifficulty]
// except for records reset to StageNew, which carry the default difficulty.
// Retrievability is the recall probability estimated at the last review.
//
// TotalReviews and TotalLapses are maintained incrementally and never derived
// from the review log.
type MemoryState struct {
	CardID         uuid.UUID `json:"card_id"`
	Stability      float64   `json:"stability"`
	Difficulty     float64   `json:"difficulty"`
	Retrievability float64   `json:"retrievability"`
	DueAt          time.Time `json:"due_at"`
	LastReviewedAt time.Time `json:"last_reviewed_at"` // zero before the first review
	Stage          Stage     `json:"stage"`
	TotalReviews   int       `json:"total_reviews"`
	TotalLapses    int       `json:"total_lapses"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate checks the record invariants.
func (m *MemoryState) Validate() error {
	if m.CardID == uuid.Nil {
		return ErrEmptyStateCardID
	}
	if m.Stability < 0 {
		return ErrNegativeStability
	}
	if m.Stage != StageNew && (m.Difficulty < MinDifficulty || m.Difficulty > MaxDifficulty) {
		return ErrDifficultyOutOfRange
	}
	if !m.Stage.IsValid() {
		return ErrInvalidStage
	}
	if m.TotalReviews < 0 || m.TotalLapses < 0 {
		return ErrInvalidCounters
	}
	return nil
}

// IsDue reports whether the record is eligible for a scheduled review at now.
// New and Learning cards are never due by date.
func (m *MemoryState) IsDue(now time.Time) bool {
	return m.Stage.IsScheduled() && !m.DueAt.After(now)
}

// HasBeenReviewed reports whether LastReviewedAt is set.
func (m *MemoryState) HasBeenReviewed() bool {
	return !m.LastReviewedAt.IsZero()
}

// CardState is either Unreviewed (no MemoryState yet) or Tracked.
// The interface is sealed; use a type switch to handle both cases.
type CardState interface {
	isCardState()
}

// Unreviewed is the state of a card that has no MemoryState. It is
// implicitly New and has no meaningful due date.
type Unreviewed struct{}

// Tracked wraps an existing MemoryState.
type Tracked struct {
	Record MemoryState
}

func (Unreviewed) isCardState() {}
func (Tracked) isCardState()    {}

// StateOf wraps an optional record in a CardState.
func StateOf(record *MemoryState) CardState {
	if record == nil {
		return Unreviewed{}
	}
	return Tracked{Record: *record}
}

// StageOf returns the lifecycle stage implied by a CardState.
func StageOf(state CardState) Stage {
	switch s := state.(type) {
	case Tracked:
		return s.Record.Stage
	default:
		return StageNew
	}
}

// StabilityOf returns the stability implied by a CardState; New cards count as 0.
func StabilityOf(state CardState) float64 {
	switch s := state.(type) {
	case Tracked:
		if s.Record.Stage == StageNew {
			return 0
		}
		return s.Record.Stability
	default:
		return 0
	}
}
