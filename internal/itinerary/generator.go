// Package itinerary expands a trip's date range into a day-by-day plan of
// activities drawn from fixed per-style catalogs.
//
// Generation is deterministic except for activity ids, which come from an
// injected IDFunc. The package performs no I/O and is safe for concurrent use.
package itinerary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
)

// IDFunc returns a fresh, unique activity id on every call.
type IDFunc func() string

// Generator builds itineraries. The zero value is not usable; call NewGenerator.
type Generator struct {
	newID IDFunc
}

// NewGenerator returns a Generator that labels activities with ids from newID.
// A nil newID falls back to random UUID strings.
func NewGenerator(newID IDFunc) *Generator {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Generator{newID: newID}
}

// Generate returns one TripDay per calendar day from start to end inclusive.
// Only the calendar dates of start and end are used. When end is before start
// the result is empty.
//
// Day 1 opens with a flight to destination; every day then gets the style's
// hotel, an attraction cycling every 4 days and a restaurant cycling every 2.
func (g *Generator) Generate(start, end time.Time, destination string, style domain.TravelStyle) []domain.TripDay {
	style = catalogStyle(style)
	first, last := domain.TruncateToDate(start), domain.TruncateToDate(end)

	days := []domain.TripDay{}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dayNumber := len(days) + 1
		activities := make([]domain.Activity, 0, 4)

		if dayNumber == 1 {
			activities = append(activities, g.flight(destination, style))
		}
		activities = append(activities,
			g.hotel(style),
			g.attraction(dayNumber),
			g.restaurant(dayNumber, style),
		)

		days = append(days, domain.TripDay{
			Date:       d.Format(domain.DateLayout),
			Activities: activities,
		})
	}
	return days
}

func (g *Generator) flight(destination string, style domain.TravelStyle) domain.Activity {
	return domain.Activity{
		ID:    g.newID(),
		Type:  domain.ActivityFlight,
		Name:  "Flight to " + destination,
		Time:  FlightTime,
		Price: price(flightPrices[style]),
		Link:  FlightLink,
	}
}

func (g *Generator) hotel(style domain.TravelStyle) domain.Activity {
	h := hotels[style]
	return domain.Activity{
		ID:    g.newID(),
		Type:  domain.ActivityHotel,
		Name:  h.Name,
		Time:  HotelTime,
		Price: price(h.Price),
		Link:  HotelLink,
	}
}

func (g *Generator) attraction(dayNumber int) domain.Activity {
	a := attractions[dayNumber%len(attractions)]
	return domain.Activity{
		ID:          g.newID(),
		Type:        domain.ActivityAttraction,
		Name:        a.Name,
		Description: a.Description,
		Time:        AttractionTime,
		Duration:    AttractionDuration,
	}
}

func (g *Generator) restaurant(dayNumber int, style domain.TravelStyle) domain.Activity {
	table := restaurants[style]
	r := table[dayNumber%len(table)]
	return domain.Activity{
		ID:    g.newID(),
		Type:  domain.ActivityRestaurant,
		Name:  r.Name,
		Time:  RestaurantTime,
		Price: price(r.Price),
	}
}

// price returns a pointer to a copy of d so activities never alias the catalog.
func price(d decimal.Decimal) *decimal.Decimal {
	return &d
}
