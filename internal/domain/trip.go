// Package domain contains the core data types for the Wanderlust Planner.
// It is imported by every other internal package (itinerary, budget, repo,
// service, handler) and depends on nothing internal.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar-date format used for trip and day dates.
const DateLayout = "2006-01-02"

// TravelStyle selects the price tier of a generated itinerary.
type TravelStyle string

const (
	StyleEconomic TravelStyle = "economic"
	StyleBalanced TravelStyle = "balanced"
	StyleLuxury   TravelStyle = "luxury"
)

// Valid reports whether s is one of the known travel styles.
func (s TravelStyle) Valid() bool {
	switch s {
	case StyleEconomic, StyleBalanced, StyleLuxury:
		return true
	}
	return false
}

// TripRequest carries the fields a user fills in when asking for a new trip.
// The generator turns it into a TripPlan; id, owner, days and creation time
// are assigned by the service.
type TripRequest struct {
	Destination string
	Origin      string
	StartDate   time.Time
	EndDate     time.Time
	Travelers   int
	Budget      decimal.Decimal
	Style       TravelStyle
}

// TripPlan is a planned trip with its generated day-by-day itinerary.
// StartDate and EndDate carry date-only semantics (UTC midnight).
type TripPlan struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Destination string          `json:"destination"`
	Origin      string          `json:"origin"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Travelers   int             `json:"travelers"`
	Budget      decimal.Decimal `json:"budget"`
	Style       TravelStyle     `json:"style"`
	Days        []TripDay       `json:"days"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TripDay is one calendar day of a trip. Date is formatted with DateLayout
// and is unique within its trip.
type TripDay struct {
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
}

// Request returns the request fields of the plan.
func (t TripPlan) Request() TripRequest {
	return TripRequest{
		Destination: t.Destination,
		Origin:      t.Origin,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Travelers:   t.Travelers,
		Budget:      t.Budget,
		Style:       t.Style,
	}
}

// Clone returns a deep copy of the plan so stores never share slices or
// pointers with their callers.
func (t TripPlan) Clone() TripPlan {
	out := t
	if t.Days == nil {
		return out
	}
	out.Days = make([]TripDay, len(t.Days))
	for i, d := range t.Days {
		out.Days[i] = TripDay{Date: d.Date}
		if d.Activities == nil {
			continue
		}
		out.Days[i].Activities = make([]Activity, len(d.Activities))
		for j, a := range d.Activities {
			out.Days[i].Activities[j] = a.clone()
		}
	}
	return out
}

// TruncateToDate drops the clock part of t, keeping its calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
