package model

import (
	"encoding/json"
	"time"
)

// Itinerary is a persisted multi-day travel plan owned by a single user.
type Itinerary struct {
	ItineraryID        string          `json:"itineraryId"`
	OwnerID            string          `json:"ownerId"`
	Status             Status          `json:"status"`
	Title              *string         `json:"title,omitempty"`
	PlanData           json.RawMessage `json:"planData"`
	EnrichmentDegraded bool            `json:"enrichmentDegraded"`
	CreationTime       time.Time       `json:"creationTime"`
	UpdateTime         *time.Time      `json:"updateTime,omitempty"`
}

// Plan is the canonical post-normalization shape of an itinerary's plan data.
// Stored plan JSON is always normalized to this shape on write; historical
// shapes are reconciled on read by the planner package.
type Plan struct {
	Destination   string     `json:"destination"`
	DurationDays  int        `json:"durationDays"`
	StartDateTime *time.Time `json:"startDateTime,omitempty"`
	Days          []DayPlan  `json:"optimized_route"`
}

// DayPlan holds the ordered activities for one trip day (1-indexed).
type DayPlan struct {
	Day        int        `json:"day"`
	Activities []Activity `json:"activities"`
}

// Activity is a single stop in a day plan. Travel fields describe the leg
// arriving at this activity and are filled by enrichment.
type Activity struct {
	Name                  string     `json:"name"`
	PlaceID               string     `json:"placeId"`
	Location              *LatLng    `json:"location,omitempty"`
	EstimatedArrival      *time.Time `json:"estimatedArrival,omitempty"`
	EstimatedDeparture    *time.Time `json:"estimatedDeparture,omitempty"`
	TravelDurationMinutes *int       `json:"travelDurationMinutes,omitempty"`
	EncodedPolyline       *string    `json:"encodedPolyline,omitempty"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// POI is a place candidate returned by the catalog.
type POI struct {
	PlaceID    string   `json:"placeId"`
	Name       string   `json:"name"`
	City       string   `json:"city"`
	Location   LatLng   `json:"location"`
	BudgetTier string   `json:"budgetTier"`
	MoodTags   []string `json:"moodTags,omitempty"`
	Rating     float64  `json:"rating,omitempty"`
}

// GenerationConstraints are the validated inputs to one generation run.
// The owner is always taken from the authenticated caller, never the body.
type GenerationConstraints struct {
	Destination   string     `json:"destination"`
	BudgetTier    string     `json:"budgetTier"`
	MoodTags      []string   `json:"moodTags"`
	DurationDays  int        `json:"durationDays"`
	StartLocation LatLng     `json:"startLocation"`
	StartDateTime *time.Time `json:"startDateTime,omitempty"`
	POIPerDay     int        `json:"poiPerDay,omitempty"`
	TravelMode    string     `json:"travelMode,omitempty"`
}

// RouteLeg is the travel segment between two consecutive activities.
type RouteLeg struct {
	DurationMinutes int    `json:"durationMinutes"`
	EncodedPolyline string `json:"encodedPolyline"`
}

// CalendarDay is one date of a projected calendar window.
type CalendarDay struct {
	Date          string     `json:"date"`
	InTrip        bool       `json:"inTrip"`
	TripDayNumber int        `json:"tripDayNumber,omitempty"`
	Activities    []Activity `json:"activities,omitempty"`
}

// CalendarGrid maps a calendar window onto a plan's trip days.
type CalendarGrid struct {
	TripStartDate string        `json:"tripStartDate,omitempty"`
	TripEndDate   string        `json:"tripEndDate,omitempty"`
	Days          []CalendarDay `json:"days"`
}
