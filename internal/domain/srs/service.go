package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
)

const day = 24 * time.Hour

// Engine defines the forgetting-curve operations. Implementations are pure:
// they never mutate their input and hold no scratch state between calls.
type Engine interface {
	// NextState computes the record that results from rating the card at now,
	// together with the scheduled interval in days. For Unreviewed input the
	// returned record has no CardID; the caller assigns it.
	NextState(current domain.CardState, rating domain.Rating, now time.Time) (domain.MemoryState, float64)

	// PreviewAll returns the due date each valid rating would produce.
	PreviewAll(current domain.CardState, now time.Time) map[domain.Rating]time.Time

	// Retrievability estimates the recall probability of record at now.
	Retrievability(record domain.MemoryState, now time.Time) float64

	// ResetState returns record moved back to New, due at now, with its
	// stability and difficulty discarded. Counters are kept.
	ResetState(record domain.MemoryState, now time.Time) domain.MemoryState
}

// defaultEngine is the standard implementation of the Engine interface
type defaultEngine struct {
	params *Params
	curve  curve
}

var _ Engine = (*defaultEngine)(nil)

// NewDefaultEngine creates an engine with default parameters
func NewDefaultEngine() Engine {
	params := NewDefaultParams()
	return &defaultEngine{params: params, curve: newCurve(params)}
}

// NewEngine creates an engine with custom parameters
func NewEngine(params *Params) (Engine, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultEngine{params: params, curve: newCurve(params)}, nil
}

// NextState implements Engine.
func (e *defaultEngine) NextState(
	current domain.CardState,
	rating domain.Rating,
	now time.Time,
) (domain.MemoryState, float64) {
	switch s := current.(type) {
	case domain.Tracked:
		if s.Record.Stage == domain.StageNew {
			return e.firstExposure(s.Record, rating, now)
		}
		return e.review(s.Record, rating, now)
	default:
		return e.firstExposure(domain.MemoryState{CreatedAt: now}, rating, now)
	}
}

// firstExposure seeds stability and difficulty from the rating.
func (e *defaultEngine) firstExposure(
	next domain.MemoryState,
	rating domain.Rating,
	now time.Time,
) (domain.MemoryState, float64) {
	g := grade(rating)
	next.Stability = e.curve.initStability(g)
	next.Difficulty = clampDifficulty(e.curve.initDifficulty(g))
	next.Retrievability = 1
	next.Stage = Transition(domain.StageNew, rating)
	return e.schedule(next, now)
}

func (e *defaultEngine) review(
	next domain.MemoryState,
	rating domain.Rating,
	now time.Time,
) (domain.MemoryState, float64) {
	g := grade(rating)
	s := clampStability(next.Stability)
	d := clampDifficulty(next.Difficulty)
	t := elapsedDays(next, now)
	r := e.curve.retrievability(t, s)

	// A first exposure is never a lapse, including one after a reset.
	if rating.Normalize() == domain.RatingAgain {
		next.TotalLapses++
	}
	if t < 1 {
		next.Stability = e.curve.shortTermStability(s, g)
	} else {
		next.Stability = e.curve.nextStability(d, s, r, g)
	}
	next.Difficulty = e.curve.nextDifficulty(d, g)
	next.Retrievability = r
	next.Stage = Transition(next.Stage, rating)
	return e.schedule(next, now)
}

// schedule stamps the review and computes the due date.
func (e *defaultEngine) schedule(next domain.MemoryState, now time.Time) (domain.MemoryState, float64) {
	days := e.curve.interval(next.Stability)
	next.TotalReviews++
	next.LastReviewedAt = now
	next.DueAt = now.Add(daysToDuration(days))
	next.UpdatedAt = now
	return next, days
}

// PreviewAll implements Engine.
func (e *defaultEngine) PreviewAll(current domain.CardState, now time.Time) map[domain.Rating]time.Time {
	preview := make(map[domain.Rating]time.Time, len(domain.AllRatings))
	for _, rating := range domain.AllRatings {
		next, _ := e.NextState(current, rating, now)
		preview[rating] = next.DueAt
	}
	return preview
}

// Retrievability implements Engine.
func (e *defaultEngine) Retrievability(record domain.MemoryState, now time.Time) float64 {
	if record.Stage == domain.StageNew || record.Stability <= 0 {
		return 0
	}
	return e.curve.retrievability(elapsedDays(record, now), record.Stability)
}

// ResetState implements Engine.
func (e *defaultEngine) ResetState(record domain.MemoryState, now time.Time) domain.MemoryState {
	record.Stage = domain.StageNew
	record.DueAt = now
	record.Stability = 0
	record.Difficulty = clampDifficulty(e.curve.initDifficulty(grade(domain.RatingGood)))
	record.Retrievability = 0
	record.UpdatedAt = now
	return record
}

// elapsedDays is the time since the last review, falling back to the due
// date for records that were never stamped. Never negative.
func elapsedDays(record domain.MemoryState, now time.Time) float64 {
	ref := record.LastReviewedAt
	if ref.IsZero() {
		ref = record.DueAt
	}
	if ref.IsZero() {
		return 0
	}
	return math.Max(now.Sub(ref).Hours()/24, 0)
}

func daysToDuration(days float64) time.Duration {
	return time.Duration(days * float64(day))
}
