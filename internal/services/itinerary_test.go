package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/planner"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store/memory"
)

func seedItinerary(t *testing.T, svc *ItineraryService, owner string, start time.Time, days int) *model.Itinerary {
	t.Helper()
	plan := &model.Plan{
		Destination:   "Hanoi",
		DurationDays:  days,
		StartDateTime: &start,
		Days:          make([]model.DayPlan, days),
	}
	for d := range plan.Days {
		plan.Days[d] = model.DayPlan{Day: d + 1, Activities: []model.Activity{
			{Name: "Stop", PlaceID: "p1"},
		}}
	}
	raw, err := planner.Encode(plan)
	require.NoError(t, err)

	it, err := svc.store.Itineraries().Create(context.Background(), &model.Itinerary{
		OwnerID:  owner,
		Status:   model.StatusDraft,
		PlanData: raw,
	})
	require.NoError(t, err)
	return it
}

func TestItineraryLifecycle(t *testing.T) {
	svc := NewItineraryService(memory.New(), zerolog.Nop())
	ctx := context.Background()
	start := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)

	it := seedItinerary(t, svc, "u1", start, 2)

	t.Run("confirm then promote", func(t *testing.T) {
		confirmed, err := svc.UpdateStatus(ctx, "u1", it.ItineraryID, model.StatusConfirmed, nil)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, confirmed.Status)

		title := "Winter in Hanoi"
		main, err := svc.UpdateStatus(ctx, "u1", it.ItineraryID, model.StatusMain, &title)
		require.NoError(t, err)
		assert.Equal(t, model.StatusMain, main.Status)
		require.NotNil(t, main.Title)
		assert.Equal(t, "Winter in Hanoi", *main.Title)
	})

	t.Run("calendar over the main itinerary", func(t *testing.T) {
		from := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC)
		grid, err := svc.MainCalendar(ctx, "u1", from, to)
		require.NoError(t, err)
		require.Len(t, grid.Days, 4)
		assert.False(t, grid.Days[0].InTrip)
		assert.True(t, grid.Days[1].InTrip)
		assert.Equal(t, 1, grid.Days[1].TripDayNumber)
		assert.Equal(t, 2, grid.Days[2].TripDayNumber)
		assert.False(t, grid.Days[3].InTrip)
	})

	t.Run("calendar without a main itinerary", func(t *testing.T) {
		_, err := svc.MainCalendar(ctx, "u2",
			time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("cross-owner reads stay forbidden at this layer", func(t *testing.T) {
		_, err := svc.Get(ctx, "intruder", it.ItineraryID)
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("invalid transition", func(t *testing.T) {
		draft := seedItinerary(t, svc, "u1", start, 2)
		_, err := svc.UpdateStatus(ctx, "u1", draft.ItineraryID, model.StatusMain, nil)
		assert.ErrorIs(t, err, model.ErrInvalidTransition)
	})

	t.Run("list filters by status", func(t *testing.T) {
		mainStatus := model.StatusMain
		mains, err := svc.List(ctx, "u1", &mainStatus)
		require.NoError(t, err)
		require.Len(t, mains, 1)
		assert.Equal(t, it.ItineraryID, mains[0].ItineraryID)
	})

	t.Run("delete draft only", func(t *testing.T) {
		draft := seedItinerary(t, svc, "u1", start, 2)
		require.NoError(t, svc.Delete(ctx, "u1", draft.ItineraryID))
		err := svc.Delete(ctx, "u1", it.ItineraryID) // it is MAIN by now
		assert.ErrorIs(t, err, model.ErrInvalidTransition)
	})
}
