package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/optimizer"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/planner"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/pois"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store"
)

// defaultVisitMinutes is the assumed dwell time at an activity when the
// optimizer does not schedule departures itself.
const defaultVisitMinutes = 90

var travelModes = []string{"driving", "walking", "cycling", "transit"}

// RouteOptimizer produces an ordered day-by-day plan from candidates.
type RouteOptimizer interface {
	OptimizeRoute(ctx context.Context, req optimizer.Request) (*model.Plan, error)
}

// LegEnricher resolves travel duration and geometry for one leg.
type LegEnricher interface {
	RouteLeg(ctx context.Context, from, to model.LatLng, mode string) (*model.RouteLeg, error)
}

// Defaults fill optional generation constraints the caller omitted.
type Defaults struct {
	POIPerDay  int
	TravelMode string
}

// GenerationService runs the full pipeline: candidate lookup, route
// optimization, leg enrichment, normalization, persistence as a DRAFT.
type GenerationService struct {
	store     store.Store
	filter    pois.Filter
	optimizer RouteOptimizer
	enricher  LegEnricher
	defaults  Defaults
	log       zerolog.Logger
}

func NewGenerationService(s store.Store, f pois.Filter, o RouteOptimizer, e LegEnricher, d Defaults, log zerolog.Logger) *GenerationService {
	return &GenerationService{store: s, filter: f, optimizer: o, enricher: e, defaults: d, log: log}
}

// Generate creates a new DRAFT itinerary for ownerID from the given
// constraints. Enrichment failures degrade the result instead of failing
// the run; every other stage error aborts with its sentinel.
func (s *GenerationService) Generate(ctx context.Context, ownerID string, c model.GenerationConstraints) (*model.Itinerary, error) {
	s.applyDefaults(&c)
	if err := validateConstraints(c); err != nil {
		return nil, err
	}

	candidates, err := s.filter.FindCandidates(ctx, pois.Query{
		Destination: c.Destination,
		BudgetTier:  c.BudgetTier,
		MoodTags:    c.MoodTags,
		Limit:       c.DurationDays * c.POIPerDay * 2,
	})
	if err != nil {
		return nil, err
	}
	if len(candidates) < c.DurationDays {
		return nil, fmt.Errorf("%w: %d candidates for a %d-day trip to %s",
			model.ErrNoCandidates, len(candidates), c.DurationDays, c.Destination)
	}

	plan, err := s.optimizer.OptimizeRoute(ctx, optimizer.Request{
		Destination:   c.Destination,
		DurationDays:  c.DurationDays,
		StartLocation: c.StartLocation,
		StartDateTime: c.StartDateTime,
		POIPerDay:     c.POIPerDay,
		TravelMode:    c.TravelMode,
		Candidates:    candidates,
	})
	if err != nil {
		return nil, err
	}
	if plan.DurationDays != c.DurationDays {
		return nil, fmt.Errorf("%w: requested %d days, received %d",
			model.ErrOptimizer, c.DurationDays, plan.DurationDays)
	}
	attachLocations(plan, candidates)
	if plan.StartDateTime == nil {
		plan.StartDateTime = c.StartDateTime
	}

	degraded := s.enrichLegs(ctx, plan, c.StartLocation, c.TravelMode)
	scheduleTimes(plan)

	raw, err := planner.Encode(plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrNormalization, err)
	}

	it, err := s.store.Itineraries().Create(ctx, &model.Itinerary{
		OwnerID:            ownerID,
		Status:             model.StatusDraft,
		PlanData:           raw,
		EnrichmentDegraded: degraded,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("itineraryId", it.ItineraryID).Str("destination", c.Destination).
		Int("days", c.DurationDays).Bool("degraded", degraded).
		Msg("itinerary generated")
	return it, nil
}

func (s *GenerationService) applyDefaults(c *model.GenerationConstraints) {
	if c.POIPerDay == 0 {
		c.POIPerDay = s.defaults.POIPerDay
	}
	if c.TravelMode == "" {
		c.TravelMode = s.defaults.TravelMode
	}
}

func validateConstraints(c model.GenerationConstraints) error {
	switch {
	case c.Destination == "":
		return fmt.Errorf("%w: destination is required", model.ErrValidation)
	case c.DurationDays < 1 || c.DurationDays > 30:
		return fmt.Errorf("%w: durationDays must be between 1 and 30", model.ErrValidation)
	case c.POIPerDay < 1 || c.POIPerDay > 10:
		return fmt.Errorf("%w: poiPerDay must be between 1 and 10", model.ErrValidation)
	case c.StartLocation == (model.LatLng{}):
		return fmt.Errorf("%w: startLocation is required", model.ErrValidation)
	case !lo.Contains(travelModes, c.TravelMode):
		return fmt.Errorf("%w: unsupported travelMode %q", model.ErrValidation, c.TravelMode)
	}
	return nil
}

// attachLocations copies catalog coordinates onto activities the optimizer
// returned without them, so enrichment has endpoints to route between.
func attachLocations(plan *model.Plan, candidates []model.POI) {
	byPlace := lo.SliceToMap(candidates, func(p model.POI) (string, model.POI) {
		return p.PlaceID, p
	})
	for di := range plan.Days {
		for ai := range plan.Days[di].Activities {
			act := &plan.Days[di].Activities[ai]
			if act.Location == nil {
				if poi, ok := byPlace[act.PlaceID]; ok {
					loc := poi.Location
					act.Location = &loc
				}
			}
		}
	}
}

// enrichLegs fills travel duration and polyline for every activity. Each
// day starts from the trip's start location; within a day legs chain from
// the previous activity. Legs resolve concurrently; a failed leg only
// marks the itinerary degraded.
func (s *GenerationService) enrichLegs(ctx context.Context, plan *model.Plan, start model.LatLng, mode string) bool {
	type legJob struct {
		from, to model.LatLng
		act      *model.Activity
	}

	var jobs []legJob
	for di := range plan.Days {
		prev := start
		for ai := range plan.Days[di].Activities {
			act := &plan.Days[di].Activities[ai]
			if act.Location == nil {
				continue
			}
			jobs = append(jobs, legJob{from: prev, to: *act.Location, act: act})
			prev = *act.Location
		}
	}

	var failures atomic.Int32
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(j legJob) {
			defer wg.Done()
			leg, err := s.enricher.RouteLeg(ctx, j.from, j.to, mode)
			if err != nil {
				failures.Add(1)
				s.log.Warn().Err(err).Str("place", j.act.PlaceID).Msg("leg enrichment failed")
				return
			}
			minutes := leg.DurationMinutes
			j.act.TravelDurationMinutes = &minutes
			if leg.EncodedPolyline != "" {
				poly := leg.EncodedPolyline
				j.act.EncodedPolyline = &poly
			}
		}(job)
	}
	wg.Wait()

	// An activity without a location also counts as degraded output.
	located := lo.SumBy(plan.Days, func(d model.DayPlan) int {
		return lo.CountBy(d.Activities, func(a model.Activity) bool { return a.Location != nil })
	})
	total := lo.SumBy(plan.Days, func(d model.DayPlan) int { return len(d.Activities) })

	return failures.Load() > 0 || located < total
}

// scheduleTimes walks each day and assigns arrival and departure estimates
// when the trip has a concrete start. A missing travel duration advances
// the clock by zero rather than dropping the rest of the day.
func scheduleTimes(plan *model.Plan) {
	if plan.StartDateTime == nil {
		return
	}
	for di := range plan.Days {
		cursor := plan.StartDateTime.Add(time.Duration(di) * 24 * time.Hour)
		for ai := range plan.Days[di].Activities {
			act := &plan.Days[di].Activities[ai]
			if act.TravelDurationMinutes != nil {
				cursor = cursor.Add(time.Duration(*act.TravelDurationMinutes) * time.Minute)
			}
			arrival := cursor
			departure := cursor.Add(defaultVisitMinutes * time.Minute)
			act.EstimatedArrival = &arrival
			act.EstimatedDeparture = &departure
			cursor = departure
		}
	}
}
