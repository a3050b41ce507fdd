package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/history"
	"github.com/phrazzld/scry-srs/internal/render"
	"github.com/phrazzld/scry-srs/internal/service/scheduler"
)

// CreateCollectionRequest is the payload of POST /api/collections.
type CreateCollectionRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CollectionResponse represents a collection.
type CollectionResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeleteCollectionResponse reports how many cards a delete touched.
type DeleteCollectionResponse struct {
	CardsTouched int `json:"cards_touched"`
}

// CreateCardRequest is the payload of POST /api/cards. Front and Back are
// Markdown.
type CreateCardRequest struct {
	CollectionID *uuid.UUID `json:"collection_id"`
	Front        string     `json:"front" validate:"required,max=10000"`
	Back         string     `json:"back" validate:"max=10000"`
}

// CardResponse represents a card with its Markdown rendered to HTML.
type CardResponse struct {
	ID           uuid.UUID  `json:"id"`
	CollectionID *uuid.UUID `json:"collection_id"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	FrontHTML    string     `json:"front_html"`
	BackHTML     string     `json:"back_html"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MemoryStateResponse is the scheduling state of a reviewed card.
type MemoryStateResponse struct {
	Stage          string    `json:"stage"`
	Stability      float64   `json:"stability"`
	Difficulty     float64   `json:"difficulty"`
	Retrievability float64   `json:"retrievability"`
	DueAt          time.Time `json:"due_at"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	TotalReviews   int       `json:"total_reviews"`
	TotalLapses    int       `json:"total_lapses"`
}

// CardDetailResponse is a card with its scheduling state. State is null for
// a card that was never reviewed.
type CardDetailResponse struct {
	CardResponse
	Stage                 string               `json:"stage"`
	State                 *MemoryStateResponse `json:"state"`
	CurrentRetrievability float64              `json:"current_retrievability"`
}

// ReviewRequest is the payload of POST /api/cards/{id}/reviews. Mode
// defaults to scheduled.
type ReviewRequest struct {
	Rating *int   `json:"rating" validate:"required,min=0,max=3"`
	Mode   string `json:"mode" validate:"omitempty,oneof=scheduled cram"`
}

// ReviewResponse is the committed review-log entry.
type ReviewResponse struct {
	ID            string    `json:"id"`
	CardID        uuid.UUID `json:"card_id"`
	Rating        int       `json:"rating"`
	RatingLabel   string    `json:"rating_label"`
	Mode          string    `json:"mode"`
	Stage         string    `json:"stage"`
	ReviewedAt    time.Time `json:"reviewed_at"`
	ScheduledDays float64   `json:"scheduled_days"`
	ElapsedDays   float64   `json:"elapsed_days"`
}

// PreviewResponse maps rating labels to the due date each would produce.
type PreviewResponse struct {
	CardID uuid.UUID            `json:"card_id"`
	Due    map[string]time.Time `json:"due"`
}

// CardListResponse is a page of cards from the due or cram queue.
type CardListResponse struct {
	Cards []CardResponse `json:"cards"`
	Count int            `json:"count"`
}

// StatsResponse carries deck statistics for one scope.
type StatsResponse struct {
	CollectionID *uuid.UUID `json:"collection_id"`
	Due          int        `json:"due"`
	New          int        `json:"new"`
	Total        int        `json:"total"`
}

// HistoryRowResponse is one classified review-log entry.
type HistoryRowResponse struct {
	Rating        int       `json:"rating"`
	RatingLabel   string    `json:"rating_label"`
	ReviewedAt    time.Time `json:"reviewed_at"`
	ScheduledDays float64   `json:"scheduled_days"`
	ElapsedDays   float64   `json:"elapsed_days"`
	Stage         string    `json:"stage"`
	Mode          string    `json:"mode"`
	Change        string    `json:"change,omitempty"`
}

func collectionToResponse(c *domain.Collection) CollectionResponse {
	return CollectionResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func cardToResponse(md *render.Markdown, c *domain.Card) CardResponse {
	return CardResponse{
		ID:           c.ID,
		CollectionID: c.Collection(),
		Front:        c.Front,
		Back:         c.Back,
		FrontHTML:    md.HTML(c.Front),
		BackHTML:     md.HTML(c.Back),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func cardsToResponse(md *render.Markdown, cards []*domain.Card) CardListResponse {
	out := CardListResponse{Cards: make([]CardResponse, len(cards)), Count: len(cards)}
	for i, c := range cards {
		out.Cards[i] = cardToResponse(md, c)
	}
	return out
}

func detailToResponse(md *render.Markdown, d *scheduler.CardDetail) CardDetailResponse {
	resp := CardDetailResponse{
		CardResponse:          cardToResponse(md, d.Card),
		Stage:                 domain.StageOf(d.State).String(),
		CurrentRetrievability: d.Retrievability,
	}
	if tracked, ok := d.State.(domain.Tracked); ok {
		rec := tracked.Record
		resp.State = &MemoryStateResponse{
			Stage:          rec.Stage.String(),
			Stability:      rec.Stability,
			Difficulty:     rec.Difficulty,
			Retrievability: rec.Retrievability,
			DueAt:          rec.DueAt,
			LastReviewedAt: rec.LastReviewedAt,
			TotalReviews:   rec.TotalReviews,
			TotalLapses:    rec.TotalLapses,
		}
	}
	return resp
}

func entryToResponse(e *domain.ReviewLogEntry) ReviewResponse {
	return ReviewResponse{
		ID:            e.ID.String(),
		CardID:        e.CardID,
		Rating:        int(e.Rating),
		RatingLabel:   e.Rating.Label(),
		Mode:          string(e.Mode),
		Stage:         e.Stage.String(),
		ReviewedAt:    e.ReviewedAt,
		ScheduledDays: e.ScheduledDays,
		ElapsedDays:   e.ElapsedDays,
	}
}

func historyToResponse(rows []history.Row) []HistoryRowResponse {
	out := make([]HistoryRowResponse, len(rows))
	for i, r := range rows {
		out[i] = HistoryRowResponse{
			Rating:        r.Rating,
			RatingLabel:   r.RatingLabel,
			ReviewedAt:    r.ReviewedAt,
			ScheduledDays: r.ScheduledDays,
			ElapsedDays:   r.ElapsedDays,
			Stage:         r.Stage,
			Mode:          r.Mode,
			Change:        string(r.Change),
		}
	}
	return out
}

func statsToResponse(collectionID *uuid.UUID, s domain.DeckStats) StatsResponse {
	return StatsResponse{CollectionID: collectionID, Due: s.Due, New: s.New, Total: s.Total}
}
