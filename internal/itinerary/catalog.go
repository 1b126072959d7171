package itinerary

import (
	"github.com/shopspring/decimal"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
)

// Booking links attached to generated flights and hotels.
const (
	FlightLink = "https://www.skyscanner.pl"
	HotelLink  = "https://www.booking.com"
)

// Fixed time labels and durations of generated activities.
const (
	FlightTime         = "08:00"
	HotelTime          = "14:00"
	AttractionTime     = "10:00"
	RestaurantTime     = "19:00"
	AttractionDuration = 120 // minutes
)

// offer is a named, priced catalog entry.
type offer struct {
	Name  string
	Price decimal.Decimal
}

// sight is an unpriced attraction entry.
type sight struct {
	Name        string
	Description string
}

// style tables. Treat as read-only.
var (
	flightPrices = map[domain.TravelStyle]decimal.Decimal{
		domain.StyleEconomic: decimal.NewFromInt(150),
		domain.StyleBalanced: decimal.NewFromInt(300),
		domain.StyleLuxury:   decimal.NewFromInt(600),
	}

	hotels = map[domain.TravelStyle]offer{
		domain.StyleEconomic: {Name: "Hostel Central", Price: decimal.NewFromInt(80)},
		domain.StyleBalanced: {Name: "Hotel Comfort", Price: decimal.NewFromInt(200)},
		domain.StyleLuxury:   {Name: "Grand Palace Hotel", Price: decimal.NewFromInt(500)},
	}

	restaurants = map[domain.TravelStyle][]offer{
		domain.StyleEconomic: {
			{Name: "Street Food Market", Price: decimal.NewFromInt(15)},
			{Name: "Local Cafe", Price: decimal.NewFromInt(20)},
		},
		domain.StyleBalanced: {
			{Name: "Bistro Moderne", Price: decimal.NewFromInt(45)},
			{Name: "Trattoria Bella", Price: decimal.NewFromInt(55)},
		},
		domain.StyleLuxury: {
			{Name: "Michelin Star Restaurant", Price: decimal.NewFromInt(150)},
			{Name: "Rooftop Fine Dining", Price: decimal.NewFromInt(200)},
		},
	}

	attractions = []sight{
		{Name: "Old Town", Description: "Historic city centre"},
		{Name: "National Museum", Description: "Art and history collection"},
		{Name: "City Park", Description: "Relax in the fresh air"},
		{Name: "Observation Tower", Description: "Panorama of the city"},
	}
)

// catalogStyle maps unknown styles onto the balanced tables.
func catalogStyle(s domain.TravelStyle) domain.TravelStyle {
	if s.Valid() {
		return s
	}
	return domain.StyleBalanced
}
