package domain

import "github.com/shopspring/decimal"

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per activity, with trip fields
// repeated for every activity on that trip. Trips with no days yield one row
// with zero values for all day and activity fields.
type ExportRow struct {
	// Trip fields, repeated for every activity on the trip.
	TripID        string
	Destination   string
	Origin        string
	TripStartDate string // DateLayout formatted
	TripEndDate   string
	Travelers     int
	Style         TravelStyle
	TripBudget    decimal.Decimal

	// Day and activity fields, zero values when the trip has no days.
	Date         string
	ActivityType ActivityType
	ActivityName string
	Time         string
	Price        *decimal.Decimal
	Link         string
}
