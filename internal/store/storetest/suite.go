// Package storetest exercises a compliance suite against any store.Store
// implementation. Drivers call Run from their own tests with a clean,
// isolated store.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store"
)

func planData(t *testing.T, days int) json.RawMessage {
	t.Helper()
	plan := model.Plan{Destination: "Hanoi", DurationDays: days}
	for d := 1; d <= days; d++ {
		plan.Days = append(plan.Days, model.DayPlan{Day: d, Activities: []model.Activity{{Name: "Stop", PlaceID: "p"}}})
	}
	b, err := json.Marshal(&plan)
	if err != nil {
		t.Fatalf("marshal plan: %v", err)
	}
	return b
}

func draft(t *testing.T, s store.Store, owner string) *model.Itinerary {
	t.Helper()
	it, err := s.Itineraries().Create(context.Background(), &model.Itinerary{
		OwnerID:  owner,
		Status:   model.StatusDraft,
		PlanData: planData(t, 2),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return it
}

// Run exercises the compliance suite. makeStore must return a clean store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	owner := "u-" + uuid.New().String()

	// Create assigns an id and creation time.
	it := draft(t, s, owner)
	if it.ItineraryID == "" || it.CreationTime.IsZero() {
		t.Fatalf("Create: missing id or creation time: %+v", it)
	}
	if it.Status != model.StatusDraft {
		t.Fatalf("Create: status = %s, want DRAFT", it.Status)
	}

	// GetByID round-trips, and scopes by owner.
	got, err := s.Itineraries().GetByID(ctx, owner, it.ItineraryID)
	if err != nil || got.ItineraryID != it.ItineraryID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if _, err := s.Itineraries().GetByID(ctx, "intruder", it.ItineraryID); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("GetByID non-owner: err=%v, want ErrForbidden", err)
	}
	if _, err := s.Itineraries().GetByID(ctx, owner, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID missing: err=%v, want ErrNotFound", err)
	}

	// Transitions: DRAFT -> CONFIRMED -> MAIN.
	if _, err := s.Itineraries().UpdateStatus(ctx, owner, it.ItineraryID, model.StatusConfirmed, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	title := "summer trip"
	promoted, err := s.Itineraries().UpdateStatus(ctx, owner, it.ItineraryID, model.StatusMain, &title)
	if err != nil {
		t.Fatalf("set main: %v", err)
	}
	if promoted.Status != model.StatusMain || promoted.Title == nil || *promoted.Title != title {
		t.Fatalf("set main: got %+v", promoted)
	}

	// Promoting a second itinerary demotes the first.
	second := draft(t, s, owner)
	if _, err := s.Itineraries().UpdateStatus(ctx, owner, second.ItineraryID, model.StatusConfirmed, nil); err != nil {
		t.Fatalf("confirm second: %v", err)
	}
	if _, err := s.Itineraries().UpdateStatus(ctx, owner, second.ItineraryID, model.StatusMain, nil); err != nil {
		t.Fatalf("promote second: %v", err)
	}
	main, err := s.Itineraries().GetMain(ctx, owner)
	if err != nil {
		t.Fatalf("GetMain: %v", err)
	}
	if main.ItineraryID != second.ItineraryID {
		t.Fatalf("GetMain: got %s, want %s", main.ItineraryID, second.ItineraryID)
	}
	first, err := s.Itineraries().GetByID(ctx, owner, it.ItineraryID)
	if err != nil || first.Status != model.StatusConfirmed {
		t.Fatalf("demotion: got %+v err=%v", first, err)
	}

	// One MAIN per owner even under concurrent promotions.
	race := make([]*model.Itinerary, 4)
	for i := range race {
		race[i] = draft(t, s, owner)
		if _, err := s.Itineraries().UpdateStatus(ctx, owner, race[i].ItineraryID, model.StatusConfirmed, nil); err != nil {
			t.Fatalf("confirm race[%d]: %v", i, err)
		}
	}
	var wg sync.WaitGroup
	for _, r := range race {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			// Losing a race to the unique index is acceptable; two MAINs are not.
			_, _ = s.Itineraries().UpdateStatus(ctx, owner, id, model.StatusMain, nil)
		}(r.ItineraryID)
	}
	wg.Wait()
	st := model.StatusMain
	mains, err := s.Itineraries().List(ctx, owner, &st)
	if err != nil {
		t.Fatalf("List MAIN: %v", err)
	}
	if len(mains) != 1 {
		t.Fatalf("one-MAIN-per-owner violated: %d records in MAIN", len(mains))
	}

	// Idempotent same-state update.
	if _, err := s.Itineraries().UpdateStatus(ctx, owner, mains[0].ItineraryID, model.StatusMain, nil); err != nil {
		t.Fatalf("idempotent no-op: %v", err)
	}

	// Illegal edges.
	archived, err := s.Itineraries().UpdateStatus(ctx, owner, first.ItineraryID, model.StatusArchived, nil)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := s.Itineraries().UpdateStatus(ctx, owner, archived.ItineraryID, model.StatusConfirmed, nil); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("ARCHIVED->CONFIRMED: err=%v, want ErrInvalidTransition", err)
	}
	fresh := draft(t, s, owner)
	if _, err := s.Itineraries().UpdateStatus(ctx, owner, fresh.ItineraryID, model.StatusMain, nil); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("DRAFT->MAIN: err=%v, want ErrInvalidTransition", err)
	}

	// Ownership on writes.
	if _, err := s.Itineraries().UpdateStatus(ctx, "intruder", fresh.ItineraryID, model.StatusConfirmed, nil); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("UpdateStatus non-owner: err=%v, want ErrForbidden", err)
	}

	// Delete: drafts only.
	if err := s.Itineraries().Delete(ctx, owner, fresh.ItineraryID); err != nil {
		t.Fatalf("delete draft: %v", err)
	}
	if _, err := s.Itineraries().GetByID(ctx, owner, fresh.ItineraryID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("deleted record still readable: err=%v", err)
	}
	if err := s.Itineraries().Delete(ctx, owner, archived.ItineraryID); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("delete archived: err=%v, want ErrInvalidTransition", err)
	}
	if err := s.Itineraries().Delete(ctx, "intruder", archived.ItineraryID); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("delete non-owner: err=%v, want ErrForbidden", err)
	}

	// Listing is owner-scoped and filterable.
	all, err := s.Itineraries().List(ctx, owner, nil)
	if err != nil || len(all) == 0 {
		t.Fatalf("List: n=%d err=%v", len(all), err)
	}
	none, err := s.Itineraries().List(ctx, "someone-else", nil)
	if err != nil || len(none) != 0 {
		t.Fatalf("List other owner: n=%d err=%v", len(none), err)
	}
}
