package domain

import "github.com/shopspring/decimal"

// ActivityType is the category of an itinerary item.
type ActivityType string

const (
	ActivityFlight     ActivityType = "flight"
	ActivityHotel      ActivityType = "hotel"
	ActivityRestaurant ActivityType = "restaurant"
	ActivityAttraction ActivityType = "attraction"
	ActivityEvent      ActivityType = "event"
	ActivityTransport  ActivityType = "transport"
)

// ActivityTypes lists every activity type in display order.
var ActivityTypes = []ActivityType{
	ActivityFlight,
	ActivityHotel,
	ActivityRestaurant,
	ActivityAttraction,
	ActivityEvent,
	ActivityTransport,
}

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	for _, known := range ActivityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Location pins an activity on the map.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Activity is a single bookable or informational item within a day.
// Optional fields use zero values (or nil pointers) when absent.
// Time is a free-text label such as "08:00" and is not sortable.
type Activity struct {
	ID          string           `json:"id"`
	Type        ActivityType     `json:"type"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Time        string           `json:"time,omitempty"`
	Duration    int              `json:"duration,omitempty"` // minutes
	Price       *decimal.Decimal `json:"price,omitempty"`
	Link        string           `json:"link,omitempty"`
	Location    *Location        `json:"location,omitempty"`
	IsPremium   bool             `json:"is_premium,omitempty"`
}

func (a Activity) clone() Activity {
	out := a
	if a.Price != nil {
		p := *a.Price
		out.Price = &p
	}
	if a.Location != nil {
		l := *a.Location
		out.Location = &l
	}
	return out
}

// Place is a map point of interest derived from an itinerary activity.
type Place struct {
	ActivityID string
	Name       string
	Type       ActivityType
	Date       string
	Location   *Location
}
