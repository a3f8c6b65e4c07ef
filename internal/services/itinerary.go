package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/planner"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store"
)

// ItineraryService exposes owner-scoped reads and lifecycle transitions
// over stored itineraries. Forbidden accesses are logged here with the
// real cause; transport layers present them as not-found.
type ItineraryService struct {
	store store.Store
	log   zerolog.Logger
}

func NewItineraryService(s store.Store, log zerolog.Logger) *ItineraryService {
	return &ItineraryService{store: s, log: log}
}

func (s *ItineraryService) Get(ctx context.Context, ownerID, itineraryID string) (*model.Itinerary, error) {
	it, err := s.store.Itineraries().GetByID(ctx, ownerID, itineraryID)
	if err != nil {
		return nil, s.audit(err, ownerID, itineraryID, "get")
	}
	return it, nil
}

func (s *ItineraryService) List(ctx context.Context, ownerID string, status *model.Status) ([]*model.Itinerary, error) {
	return s.store.Itineraries().List(ctx, ownerID, status)
}

// UpdateStatus applies one lifecycle transition. A non-nil title is
// updated in the same write.
func (s *ItineraryService) UpdateStatus(ctx context.Context, ownerID, itineraryID string, to model.Status, title *string) (*model.Itinerary, error) {
	it, err := s.store.Itineraries().UpdateStatus(ctx, ownerID, itineraryID, to, title)
	if err != nil {
		return nil, s.audit(err, ownerID, itineraryID, "update-status")
	}
	s.log.Info().Str("itineraryId", itineraryID).Str("status", string(to)).Msg("itinerary transitioned")
	return it, nil
}

func (s *ItineraryService) Delete(ctx context.Context, ownerID, itineraryID string) error {
	if err := s.store.Itineraries().Delete(ctx, ownerID, itineraryID); err != nil {
		return s.audit(err, ownerID, itineraryID, "delete")
	}
	return nil
}

// MainCalendar projects the owner's MAIN itinerary onto a date window.
func (s *ItineraryService) MainCalendar(ctx context.Context, ownerID string, from, to time.Time) (*model.CalendarGrid, error) {
	it, err := s.store.Itineraries().GetMain(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	plan, err := planner.Normalize(it.PlanData)
	if err != nil {
		s.log.Error().Err(err).Str("itineraryId", it.ItineraryID).Msg("stored plan failed normalization")
		return nil, err
	}
	return planner.Project(plan, from, to)
}

// audit records cross-owner accesses before the error leaves the service.
func (s *ItineraryService) audit(err error, ownerID, itineraryID, op string) error {
	if errors.Is(err, model.ErrForbidden) {
		s.log.Warn().Str("op", op).Str("ownerId", ownerID).Str("itineraryId", itineraryID).
			Msg("cross-owner itinerary access denied")
	}
	return err
}
