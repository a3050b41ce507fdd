package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrCollectionNameEmpty is returned when a collection has a blank name.
var ErrCollectionNameEmpty = errors.New("collection name cannot be empty")

// Collection is a named grouping of cards (a deck).
type Collection struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCollection creates a collection with a generated ID.
func NewCollection(name string) (*Collection, error) {
	now := time.Now().UTC()
	c := &Collection{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Collection has valid data.
func (c *Collection) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.Name == "" {
		return ErrCollectionNameEmpty
	}
	return nil
}

// DeletePolicy decides what happens to a collection's cards when the
// collection is deleted.
type DeletePolicy string

const (
	// DeletePolicyDetach keeps the cards and clears their collection.
	DeletePolicyDetach DeletePolicy = "detach"
	// DeletePolicyCascade deletes the cards with their history.
	DeletePolicyCascade DeletePolicy = "cascade"
)

// IsValid reports whether p is a known policy.
func (p DeletePolicy) IsValid() bool {
	return p == DeletePolicyDetach || p == DeletePolicyCascade
}
