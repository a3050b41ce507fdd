// Package history derives state-change labels from a card's review log.
// It works only on persisted entries and never consults the scheduler.
package history

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
)

// Change is a human-meaningful transition label.
type Change string

// Change labels. ChangeNone renders as an empty string.
const (
	ChangeNone        Change = ""
	ChangeFirstReview Change = "first_review"
	ChangeGraduated   Change = "graduated"
	ChangeRelearning  Change = "relearning"
)

// Classified pairs a review-log entry with its derived label.
type Classified struct {
	Entry  domain.ReviewLogEntry
	Change Change
}

// Classify orders entries chronologically and labels each one.
//
// Entries with equal ReviewedAt keep insertion order (ID order, then input
// order). The first entry is always ChangeFirstReview, whatever its rating.
// The input slice is not modified.
func Classify(entries []domain.ReviewLogEntry) []Classified {
	ordered := make([]domain.ReviewLogEntry, len(entries))
	copy(ordered, entries)
	Sort(ordered)

	out := make([]Classified, len(ordered))
	for i, entry := range ordered {
		out[i] = Classified{Entry: entry}
		if i == 0 {
			out[i].Change = ChangeFirstReview
			continue
		}
		out[i].Change = label(ordered[i-1].Stage, entry)
	}
	return out
}

// Sort orders entries by ReviewedAt, breaking ties by ID. The sort is stable
// so entries without IDs keep their relative order.
func Sort(entries []domain.ReviewLogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.ReviewedAt.Equal(b.ReviewedAt) {
			return a.ReviewedAt.Before(b.ReviewedAt)
		}
		return a.ID.Compare(b.ID) < 0
	})
}

func label(prev domain.Stage, entry domain.ReviewLogEntry) Change {
	switch {
	case prev == domain.StageLearning && entry.Stage == domain.StageReview:
		return ChangeGraduated
	case entry.Rating.Normalize() == domain.RatingAgain && entry.Stage == domain.StageRelearning:
		return ChangeRelearning
	default:
		return ChangeNone
	}
}

// Row is one flat export record.
type Row struct {
	CardID        uuid.UUID
	Rating        int
	RatingLabel   string
	ReviewedAt    time.Time
	ScheduledDays float64
	ElapsedDays   float64
	Stage         string
	Mode          string
	Change        Change
}

// Rows classifies entries and flattens them for export. Entries from several
// cards are classified per card; rows are grouped by card in order of first
// appearance, then ordered by time.
func Rows(entries []domain.ReviewLogEntry) []Row {
	byCard := make(map[uuid.UUID][]domain.ReviewLogEntry)
	var cards []uuid.UUID
	for _, e := range entries {
		if _, seen := byCard[e.CardID]; !seen {
			cards = append(cards, e.CardID)
		}
		byCard[e.CardID] = append(byCard[e.CardID], e)
	}

	rows := make([]Row, 0, len(entries))
	for _, cardID := range cards {
		for _, c := range Classify(byCard[cardID]) {
			rows = append(rows, Row{
				CardID:        c.Entry.CardID,
				Rating:        int(c.Entry.Rating),
				RatingLabel:   c.Entry.Rating.Label(),
				ReviewedAt:    c.Entry.ReviewedAt,
				ScheduledDays: c.Entry.ScheduledDays,
				ElapsedDays:   c.Entry.ElapsedDays,
				Stage:         c.Entry.Stage.String(),
				Mode:          string(c.Entry.Mode),
				Change:        c.Change,
			})
		}
	}
	return rows
}
