// Package planner holds the pure plan logic: reconciling stored plan JSON
// into the canonical shape and projecting plans onto calendar windows.
// Nothing in this package performs I/O.
package planner

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
)

// Stored itineraries carry plan JSON in one of two historical shapes:
//
//	(a) legacy: a "days" array whose elements carry "places" with legacy
//	    field names, and
//	(b) canonical: an "optimized_route" array whose elements carry
//	    "activities" in canonical field names.
//
// Normalize resolves both into model.Plan, preferring the canonical shape
// when both are present. For every field an explicit canonical name beats a
// synonym, and among synonyms the first present wins.

type rawPlan struct {
	Destination     string       `json:"destination"`
	DurationDays    *int         `json:"durationDays"`
	Summary         *rawSummary  `json:"summary"`
	OptimizedRoute  []rawDay     `json:"optimized_route"`
	Days            []rawDay     `json:"days"`
	StartDateTime   *string      `json:"startDateTime"`
	StartDateSnake  *string      `json:"start_date"`
	StartDateLegacy *string      `json:"startDate"`
}

type rawSummary struct {
	TotalDays *int `json:"total_days"`
}

type rawDay struct {
	Day        *int          `json:"day"`
	DayNumber  *int          `json:"dayNumber"`
	Activities []rawActivity `json:"activities"`
	Places     []rawActivity `json:"places"`
}

type rawActivity struct {
	Name         *string      `json:"name"`
	Title        *string      `json:"title"`
	PlaceID      *string      `json:"placeId"`
	PlaceIDSnake *string      `json:"place_id"`
	Location     *rawLocation `json:"location"`

	EstimatedArrival        *string `json:"estimatedArrival"`
	EstimatedArrivalSnake   *string `json:"estimated_arrival"`
	EstimatedDeparture      *string `json:"estimatedDeparture"`
	EstimatedDepartureSnake *string `json:"estimated_departure"`

	TravelDurationMinutes      *int    `json:"travelDurationMinutes"`
	TravelDurationMinutesSnake *int    `json:"travel_duration_minutes"`
	EncodedPolyline            *string `json:"encodedPolyline"`
	EncodedPolylineSnake       *string `json:"encoded_polyline"`
}

type rawLocation struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Normalize reconciles stored plan JSON into the canonical Plan. It is pure
// and deterministic; ambiguous or invariant-violating shapes are rejected
// with model.ErrNormalization, never silently coerced.
func Normalize(raw json.RawMessage) (*model.Plan, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty plan data", model.ErrNormalization)
	}
	var rp rawPlan
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrNormalization, err)
	}

	// Canonical day list wins over the legacy one when both are present.
	rawDays := rp.OptimizedRoute
	if rawDays == nil {
		rawDays = rp.Days
	}

	duration := deriveDuration(&rp)
	if duration < 1 {
		return nil, fmt.Errorf("%w: cannot derive a positive duration", model.ErrNormalization)
	}
	if len(rawDays) != duration {
		return nil, fmt.Errorf("%w: plan has %d days, expected %d", model.ErrNormalization, len(rawDays), duration)
	}

	start, err := deriveStart(&rp)
	if err != nil {
		return nil, err
	}

	plan := &model.Plan{
		Destination:   rp.Destination,
		DurationDays:  duration,
		StartDateTime: start,
		Days:          make([]model.DayPlan, 0, len(rawDays)),
	}

	seen := make(map[int]bool, len(rawDays))
	for i, rd := range rawDays {
		day := i + 1
		if rd.Day != nil {
			day = *rd.Day
		} else if rd.DayNumber != nil {
			day = *rd.DayNumber
		}
		if day != i+1 || seen[day] {
			return nil, fmt.Errorf("%w: day numbers must be contiguous from 1, got %d at position %d", model.ErrNormalization, day, i)
		}
		seen[day] = true

		rawActs := rd.Activities
		if rawActs == nil {
			rawActs = rd.Places
		}
		acts := make([]model.Activity, 0, len(rawActs))
		for _, ra := range rawActs {
			act, err := normalizeActivity(ra)
			if err != nil {
				return nil, err
			}
			acts = append(acts, act)
		}
		plan.Days = append(plan.Days, model.DayPlan{Day: day, Activities: acts})
	}
	return plan, nil
}

// Encode marshals a canonical Plan back to stored JSON. Round-tripping a
// canonical plan through Normalize(Encode(p)) is a no-op.
func Encode(p *model.Plan) (json.RawMessage, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrNormalization, err)
	}
	return b, nil
}

func deriveDuration(rp *rawPlan) int {
	switch {
	case rp.DurationDays != nil:
		return *rp.DurationDays
	case rp.Summary != nil && rp.Summary.TotalDays != nil:
		return *rp.Summary.TotalDays
	case rp.OptimizedRoute != nil:
		return len(rp.OptimizedRoute)
	case rp.Days != nil:
		return len(rp.Days)
	}
	return 0
}

func deriveStart(rp *rawPlan) (*time.Time, error) {
	for _, cand := range []*string{rp.StartDateTime, rp.StartDateSnake, rp.StartDateLegacy} {
		if cand == nil {
			continue
		}
		ts, err := parseTimestamp(*cand)
		if err != nil {
			return nil, err
		}
		return ts, nil
	}
	// Absence is valid: the plan is simply unscheduled.
	return nil, nil
}

func normalizeActivity(ra rawActivity) (model.Activity, error) {
	var act model.Activity

	switch {
	case ra.Name != nil:
		act.Name = *ra.Name
	case ra.Title != nil:
		act.Name = *ra.Title
	}
	if act.Name == "" {
		return act, fmt.Errorf("%w: activity without a name", model.ErrNormalization)
	}

	switch {
	case ra.PlaceID != nil:
		act.PlaceID = *ra.PlaceID
	case ra.PlaceIDSnake != nil:
		act.PlaceID = *ra.PlaceIDSnake
	}
	if act.PlaceID == "" {
		return act, fmt.Errorf("%w: activity %q without a placeId", model.ErrNormalization, act.Name)
	}

	if ra.Location != nil {
		loc, err := normalizeLocation(*ra.Location)
		if err != nil {
			return act, fmt.Errorf("activity %q: %w", act.Name, err)
		}
		act.Location = loc
	}

	var err error
	if act.EstimatedArrival, err = firstTimestamp(ra.EstimatedArrival, ra.EstimatedArrivalSnake); err != nil {
		return act, err
	}
	if act.EstimatedDeparture, err = firstTimestamp(ra.EstimatedDeparture, ra.EstimatedDepartureSnake); err != nil {
		return act, err
	}

	if ra.TravelDurationMinutes != nil {
		act.TravelDurationMinutes = ra.TravelDurationMinutes
	} else if ra.TravelDurationMinutesSnake != nil {
		act.TravelDurationMinutes = ra.TravelDurationMinutesSnake
	}
	if ra.EncodedPolyline != nil {
		act.EncodedPolyline = ra.EncodedPolyline
	} else if ra.EncodedPolylineSnake != nil {
		act.EncodedPolyline = ra.EncodedPolylineSnake
	}
	return act, nil
}

func normalizeLocation(rl rawLocation) (*model.LatLng, error) {
	lat, lng := rl.Lat, rl.Lng
	if lat == nil {
		lat = rl.Latitude
	}
	if lng == nil {
		lng = rl.Longitude
	}
	if lat == nil || lng == nil {
		return nil, fmt.Errorf("%w: location missing lat or lng", model.ErrNormalization)
	}
	return &model.LatLng{Lat: *lat, Lng: *lng}, nil
}

func firstTimestamp(candidates ...*string) (*time.Time, error) {
	for _, c := range candidates {
		if c != nil {
			return parseTimestamp(*c)
		}
	}
	return nil, nil
}

func parseTimestamp(s string) (*time.Time, error) {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp %q", model.ErrNormalization, s)
	}
	return &ts, nil
}
