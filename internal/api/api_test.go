package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/optimizer"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/pois"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/services"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store/memory"
)

// --- Fakes ---

type stubFilter struct {
	candidates []model.POI
}

func (f *stubFilter) FindCandidates(context.Context, pois.Query) ([]model.POI, error) {
	return f.candidates, nil
}

type stubOptimizer struct{ err error }

func (o *stubOptimizer) OptimizeRoute(_ context.Context, req optimizer.Request) (*model.Plan, error) {
	if o.err != nil {
		return nil, o.err
	}
	plan := &model.Plan{
		Destination:   req.Destination,
		DurationDays:  req.DurationDays,
		StartDateTime: req.StartDateTime,
		Days:          make([]model.DayPlan, req.DurationDays),
	}
	for d := range plan.Days {
		plan.Days[d].Day = d + 1
	}
	for i, cand := range req.Candidates {
		d := i % req.DurationDays
		plan.Days[d].Activities = append(plan.Days[d].Activities, model.Activity{
			Name: cand.Name, PlaceID: cand.PlaceID,
		})
	}
	return plan, nil
}

type stubEnricher struct{}

func (stubEnricher) RouteLeg(context.Context, model.LatLng, model.LatLng, string) (*model.RouteLeg, error) {
	return &model.RouteLeg{DurationMinutes: 10, EncodedPolyline: "abc"}, nil
}

func candidates(n int) []model.POI {
	out := make([]model.POI, n)
	for i := range out {
		out[i] = model.POI{
			PlaceID:  fmt.Sprintf("p%d", i+1),
			Name:     fmt.Sprintf("Stop %d", i+1),
			City:     "Hanoi",
			Location: model.LatLng{Lat: 21.0 + float64(i)*0.01, Lng: 105.8},
		}
	}
	return out
}

type testEnv struct {
	router http.Handler
}

func newTestEnv(opt services.RouteOptimizer, filter pois.Filter) *testEnv {
	st := memory.New()
	log := zerolog.Nop()
	gen := services.NewGenerationService(st, filter, opt, stubEnricher{},
		services.Defaults{POIPerDay: 3, TravelMode: "driving"}, log)
	its := services.NewItineraryService(st, log)
	return &testEnv{router: NewRouter(gen, its)}
}

func (e *testEnv) do(t *testing.T, method, path, owner string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if owner != "" {
		req.Header.Set("X-User-Id", owner)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func generationBody() map[string]interface{} {
	return map[string]interface{}{
		"destination":   "Hanoi",
		"durationDays":  2,
		"startLocation": map[string]float64{"lat": 21.0285, "lng": 105.8542},
		"startDateTime": "2025-12-01T08:00:00Z",
		"moodTags":      []string{"food", "history"},
	}
}

func (e *testEnv) generate(t *testing.T, owner string) model.Itinerary {
	t.Helper()
	rr := e.do(t, "POST", "/api/routes/generate", owner, generationBody())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var it model.Itinerary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &it))
	return it
}

func (e *testEnv) transition(t *testing.T, owner, id, status string, title *string) *httptest.ResponseRecorder {
	t.Helper()
	body := map[string]interface{}{"status": status}
	if title != nil {
		body["title"] = *title
	}
	return e.do(t, "PATCH", "/api/routes/"+id+"/status", owner, body)
}

// --- Tests ---

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(&stubOptimizer{}, &stubFilter{candidates: candidates(6)})

	rr := env.do(t, "GET", "/api/routes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, "POST", "/api/routes/generate", "", generationBody())
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Health stays open.
	rr = env.do(t, "GET", "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGenerateEndpoint(t *testing.T) {
	t.Run("creates a draft", func(t *testing.T) {
		env := newTestEnv(&stubOptimizer{}, &stubFilter{candidates: candidates(6)})
		it := env.generate(t, "u1")
		assert.Equal(t, model.StatusDraft, it.Status)
		assert.Equal(t, "u1", it.OwnerID)
		assert.False(t, it.EnrichmentDegraded)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		env := newTestEnv(&stubOptimizer{}, &stubFilter{candidates: candidates(6)})
		req := httptest.NewRequest("POST", "/api/routes/generate", bytes.NewReader([]byte("{nope")))
		req.Header.Set("X-User-Id", "u1")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid constraints", func(t *testing.T) {
		env := newTestEnv(&stubOptimizer{}, &stubFilter{candidates: candidates(6)})
		body := generationBody()
		body["durationDays"] = 0
		rr := env.do(t, "POST", "/api/routes/generate", "u1", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("no candidates", func(t *testing.T) {
		env := newTestEnv(&stubOptimizer{}, &stubFilter{})
		rr := env.do(t, "POST", "/api/routes/generate", "u1", generationBody())
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("optimizer unavailable", func(t *testing.T) {
		env := newTestEnv(&stubOptimizer{err: fmt.Errorf("%w: connection refused", model.ErrOptimizer)},
			&stubFilter{candidates: candidates(6)})
		rr := env.do(t, "POST", "/api/routes/generate", "u1", generationBody())
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestRouteLifecycleEndpoints(t *testing.T) {
	env := newTestEnv(&stubOptimizer{}, &stubFilter{candidates: candidates(6)})
	it := env.generate(t, "u1")

	t.Run("get own route", func(t *testing.T) {
		rr := env.do(t, "GET", "/api/routes/"+it.ItineraryID, "u1", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("foreign route reads as not found", func(t *testing.T) {
		rr := env.do(t, "GET", "/api/routes/"+it.ItineraryID, "intruder", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("confirm and promote with title", func(t *testing.T) {
		rr := env.transition(t, "u1", it.ItineraryID, "CONFIRMED", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		title := "Winter in Hanoi"
		rr = env.transition(t, "u1", it.ItineraryID, "MAIN", &title)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var updated model.Itinerary
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, model.StatusMain, updated.Status)
		require.NotNil(t, updated.Title)
		assert.Equal(t, "Winter in Hanoi", *updated.Title)
	})

	t.Run("invalid transition conflicts", func(t *testing.T) {
		draft := env.generate(t, "u1")
		rr := env.transition(t, "u1", draft.ItineraryID, "MAIN", nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown status value", func(t *testing.T) {
		rr := env.transition(t, "u1", it.ItineraryID, "FAVOURITE", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list with status filter", func(t *testing.T) {
		rr := env.do(t, "GET", "/api/routes?status=MAIN", "u1", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var out struct {
			Routes []model.Itinerary `json:"routes"`
			Total  int               `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Equal(t, 1, out.Total)
		assert.Equal(t, it.ItineraryID, out.Routes[0].ItineraryID)
	})

	t.Run("foreign status patch reads as not found", func(t *testing.T) {
		rr := env.transition(t, "intruder", it.ItineraryID, "ARCHIVED", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		// Record untouched: still visible as MAIN to its owner.
		get := env.do(t, "GET", "/api/routes/"+it.ItineraryID, "u1", nil)
		require.Equal(t, http.StatusOK, get.Code)
		var unchanged model.Itinerary
		require.NoError(t, json.Unmarshal(get.Body.Bytes(), &unchanged))
		assert.Equal(t, model.StatusMain, unchanged.Status)
	})

	t.Run("delete draft", func(t *testing.T) {
		draft := env.generate(t, "u1")
		rr := env.do(t, "DELETE", "/api/routes/"+draft.ItineraryID, "u1", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("delete non-draft reads as not found", func(t *testing.T) {
		rr := env.do(t, "DELETE", "/api/routes/"+it.ItineraryID, "u1", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("foreign delete reads as not found", func(t *testing.T) {
		draft := env.generate(t, "u1")
		rr := env.do(t, "DELETE", "/api/routes/"+draft.ItineraryID, "intruder", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestMainCalendarEndpoint(t *testing.T) {
	env := newTestEnv(&stubOptimizer{}, &stubFilter{candidates: candidates(6)})

	t.Run("no main itinerary", func(t *testing.T) {
		rr := env.do(t, "GET", "/api/routes/main/calendar?from=2025-12-01&to=2025-12-02", "u1", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	it := env.generate(t, "u1")
	require.Equal(t, http.StatusOK, env.transition(t, "u1", it.ItineraryID, "CONFIRMED", nil).Code)
	require.Equal(t, http.StatusOK, env.transition(t, "u1", it.ItineraryID, "MAIN", nil).Code)

	t.Run("projects the window", func(t *testing.T) {
		rr := env.do(t, "GET", "/api/routes/main/calendar?from=2025-11-30&to=2025-12-03", "u1", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var grid model.CalendarGrid
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &grid))
		require.Len(t, grid.Days, 4)
		assert.Equal(t, "2025-11-30", grid.Days[0].Date)
		assert.False(t, grid.Days[0].InTrip)
		assert.True(t, grid.Days[1].InTrip)
		assert.Equal(t, 1, grid.Days[1].TripDayNumber)
		assert.Equal(t, 2, grid.Days[2].TripDayNumber)
		assert.False(t, grid.Days[3].InTrip)
	})

	t.Run("missing window params", func(t *testing.T) {
		rr := env.do(t, "GET", "/api/routes/main/calendar?from=2025-12-01", "u1", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("inverted window", func(t *testing.T) {
		rr := env.do(t, "GET", "/api/routes/main/calendar?from=2025-12-03&to=2025-12-01", "u1", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

// Ensure timestamps produced by generation survive the JSON surface.
func TestGeneratedPlanRoundTrip(t *testing.T) {
	env := newTestEnv(&stubOptimizer{}, &stubFilter{candidates: candidates(6)})
	it := env.generate(t, "u1")

	var plan model.Plan
	require.NoError(t, json.Unmarshal(it.PlanData, &plan))
	require.NotNil(t, plan.StartDateTime)
	assert.Equal(t, time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC), plan.StartDateTime.UTC())
	require.Len(t, plan.Days, 2)
}
