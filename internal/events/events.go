package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted after a mutation has been committed.
const (
	TypeReviewCommitted   = "review.committed"
	TypeCardCreated       = "card.created"
	TypeCardReset         = "card.reset"
	TypeCardDeleted       = "card.deleted"
	TypeCollectionCreated = "collection.created"
	TypeCollectionDeleted = "collection.deleted"
)

// Event is a notification that something was committed to the store.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ReviewCommitted is the payload of TypeReviewCommitted.
type ReviewCommitted struct {
	CardID        uuid.UUID  `json:"card_id"`
	CollectionID  *uuid.UUID `json:"collection_id,omitempty"`
	Rating        int        `json:"rating"`
	RatingLabel   string     `json:"rating_label"`
	Mode          string     `json:"mode"`
	Stage         string     `json:"stage"`
	ScheduledDays float64    `json:"scheduled_days"`
}

// CardChanged is the payload of the card.* events.
type CardChanged struct {
	CardID       uuid.UUID  `json:"card_id"`
	CollectionID *uuid.UUID `json:"collection_id,omitempty"`
}

// CollectionChanged is the payload of the collection.* events.
type CollectionChanged struct {
	CollectionID uuid.UUID `json:"collection_id"`
	Policy       string    `json:"policy,omitempty"`
	CardsTouched int       `json:"cards_touched,omitempty"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
