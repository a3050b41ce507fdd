package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card has no front content.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")
)

// Card is a single learnable item. Front and Back hold Markdown text.
// A card belongs to at most one collection; CollectionID.Valid is false
// for cards outside any collection.
type Card struct {
	ID           uuid.UUID     `json:"id"`
	CollectionID uuid.NullUUID `json:"collection_id"`
	Front        string        `json:"front"`
	Back         string        `json:"back"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewCard creates a new Card with a generated ID. Pass nil for a card
// outside any collection.
func NewCard(collectionID *uuid.UUID, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		Front:     front,
		Back:      back,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if collectionID != nil {
		card.CollectionID = uuid.NullUUID{UUID: *collectionID, Valid: true}
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if strings.TrimSpace(c.Front) == "" {
		return ErrCardFrontEmpty
	}

	if c.CollectionID.Valid && c.CollectionID.UUID == uuid.Nil {
		return NewValidationError("collection_id", "must not be the nil UUID", ErrInvalidID)
	}

	return nil
}

// Collection returns the owning collection ID, or nil.
func (c *Card) Collection() *uuid.UUID {
	if !c.CollectionID.Valid {
		return nil
	}
	id := c.CollectionID.UUID
	return &id
}
