// Package memory provides an in-memory store.Store. It backs unit tests and
// keeps the same error semantics and transition atomicity as the Postgres
// driver: the one-MAIN-per-owner swap happens under one lock acquisition.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store"
)

// New returns an empty in-memory store.
func New() store.Store { return &memStore{recs: map[string]*model.Itinerary{}} }

type memStore struct {
	mu   sync.Mutex
	recs map[string]*model.Itinerary // by itinerary id
	seq  int
}

func (s *memStore) Itineraries() store.Itineraries { return (*itineraries)(s) }

type itineraries memStore

func (r *itineraries) Create(ctx context.Context, it *model.Itinerary) (*model.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := *it
	if out.ItineraryID == "" {
		out.ItineraryID = uuid.New().String()
	}
	if _, exists := r.recs[out.ItineraryID]; exists {
		return nil, fmt.Errorf("duplicate itinerary id %s", out.ItineraryID)
	}
	// A sequence keeps list ordering stable even when timestamps collide.
	r.seq++
	out.CreationTime = time.Now().UTC().Add(time.Duration(r.seq) * time.Microsecond)
	cp := out
	r.recs[out.ItineraryID] = &cp
	return &out, nil
}

func (r *itineraries) GetByID(ctx context.Context, ownerID, itineraryID string) (*model.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked(ownerID, itineraryID)
}

func (r *itineraries) List(ctx context.Context, ownerID string, status *model.Status) ([]*model.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Itinerary
	for _, it := range r.recs {
		if it.OwnerID != ownerID {
			continue
		}
		if status != nil && it.Status != *status {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationTime.After(out[j].CreationTime) })
	return out, nil
}

func (r *itineraries) GetMain(ctx context.Context, ownerID string) (*model.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range r.recs {
		if it.OwnerID == ownerID && it.Status == model.StatusMain {
			cp := *it
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *itineraries) UpdateStatus(ctx context.Context, ownerID, itineraryID string, to model.Status, title *string) (*model.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.locked(ownerID, itineraryID); err != nil {
		return nil, err
	}
	cur := r.recs[itineraryID]
	if !model.CanTransition(cur.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, cur.Status, to)
	}

	now := time.Now().UTC()
	if to == model.StatusMain && cur.Status != model.StatusMain {
		for _, other := range r.recs {
			if other.OwnerID == ownerID && other.Status == model.StatusMain && other.ItineraryID != itineraryID {
				other.Status = model.StatusConfirmed
				t := now
				other.UpdateTime = &t
			}
		}
	}

	cur.Status = to
	if title != nil {
		cur.Title = title
	}
	t := now
	cur.UpdateTime = &t

	cp := *cur
	return &cp, nil
}

func (r *itineraries) Delete(ctx context.Context, ownerID, itineraryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.locked(ownerID, itineraryID); err != nil {
		return err
	}
	cur := r.recs[itineraryID]
	if !model.CanDelete(cur.Status) {
		return fmt.Errorf("%w: cannot delete %s itinerary", model.ErrInvalidTransition, cur.Status)
	}
	delete(r.recs, itineraryID)
	return nil
}

// locked resolves a record under the held lock, mapping missing and
// not-owned records to their distinct internal errors.
func (r *itineraries) locked(ownerID, itineraryID string) (*model.Itinerary, error) {
	it, ok := r.recs[itineraryID]
	if !ok {
		return nil, model.ErrNotFound
	}
	if it.OwnerID != ownerID {
		return nil, model.ErrForbidden
	}
	cp := *it
	return &cp, nil
}
