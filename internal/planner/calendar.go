package planner

import (
	"fmt"
	"time"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Project materializes a calendar grid for the dates in [from, to] against a
// canonical plan. A date is in-trip iff it falls between the plan's
// date-truncated start and start+durationDays-1; its trip day number is the
// 1-indexed offset from the start. Plans without a start date mark no date
// in-trip. Pure and deterministic; the only failure is an inverted window.
func Project(plan *model.Plan, from, to time.Time) (*model.CalendarGrid, error) {
	from = truncateToDate(from)
	to = truncateToDate(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: calendar window end before start", model.ErrValidation)
	}

	grid := &model.CalendarGrid{Days: make([]model.CalendarDay, 0, daysBetween(from, to)+1)}

	var tripStart, tripEnd time.Time
	scheduled := plan.StartDateTime != nil
	if scheduled {
		tripStart = truncateToDate(*plan.StartDateTime)
		tripEnd = tripStart.AddDate(0, 0, plan.DurationDays-1)
		grid.TripStartDate = tripStart.Format(DateLayout)
		grid.TripEndDate = tripEnd.Format(DateLayout)
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := model.CalendarDay{Date: d.Format(DateLayout)}
		if scheduled && !d.Before(tripStart) && !d.After(tripEnd) {
			day.InTrip = true
			day.TripDayNumber = daysBetween(tripStart, d) + 1
			day.Activities = activitiesForDay(plan, day.TripDayNumber)
		}
		grid.Days = append(grid.Days, day)
	}
	return grid, nil
}

func activitiesForDay(plan *model.Plan, tripDay int) []model.Activity {
	for _, dp := range plan.Days {
		if dp.Day == tripDay {
			return dp.Activities
		}
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
