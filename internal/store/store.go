package store

import (
	"context"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, memory).
type Store interface {
	Itineraries() Itineraries
}

// Itineraries owns itinerary persistence and the status state machine.
// Every operation is scoped by owner: a record that exists but belongs to
// someone else yields model.ErrForbidden, a missing record model.ErrNotFound.
// Callers are responsible for collapsing the two at the API boundary.
type Itineraries interface {
	// Create persists a new itinerary and returns it with id and creation
	// time filled in. The owner and status on the input are authoritative.
	Create(ctx context.Context, it *model.Itinerary) (*model.Itinerary, error)

	// GetByID returns the itinerary regardless of status.
	GetByID(ctx context.Context, ownerID, itineraryID string) (*model.Itinerary, error)

	// List returns the owner's itineraries, optionally filtered by status,
	// newest first.
	List(ctx context.Context, ownerID string, status *model.Status) ([]*model.Itinerary, error)

	// GetMain returns the owner's single MAIN itinerary, if any.
	GetMain(ctx context.Context, ownerID string) (*model.Itinerary, error)

	// UpdateStatus applies one state-machine transition. Setting MAIN demotes
	// the owner's previous MAIN to CONFIRMED atomically in the same write, so
	// the one-MAIN-per-owner invariant is never observable as violated.
	// A same-status update is an idempotent no-op (the optional title is
	// still applied). Illegal edges yield model.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, ownerID, itineraryID string, to model.Status, title *string) (*model.Itinerary, error)

	// Delete removes a DRAFT itinerary. Non-draft records yield
	// model.ErrInvalidTransition; they are transitioned, never destroyed.
	Delete(ctx context.Context, ownerID, itineraryID string) error
}
