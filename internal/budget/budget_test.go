package budget_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/budget"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/itinerary"
)

// ---- helpers ---------------------------------------------------------------

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func priced(typ domain.ActivityType, name, price string) domain.Activity {
	p := dec(price)
	return domain.Activity{ID: name, Type: typ, Name: name, Price: &p}
}

// dayOneTrip mirrors the "flight + hotel + restaurant on day 1" scenario:
// three priced activities and one unpriced attraction.
func dayOneTrip(total string) domain.TripPlan {
	return domain.TripPlan{
		Budget: dec(total),
		Days: []domain.TripDay{{
			Date: "2025-06-01",
			Activities: []domain.Activity{
				priced(domain.ActivityFlight, "Flight to Lisbon", "150"),
				priced(domain.ActivityHotel, "Hostel Central", "80"),
				{ID: "sight", Type: domain.ActivityAttraction, Name: "Old Town"},
				priced(domain.ActivityRestaurant, "Bistro Moderne", "45"),
			},
		}},
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// ---- scenarios -------------------------------------------------------------

func TestAggregate_WithinBudget(t *testing.T) {
	v := budget.Aggregate(dayOneTrip("1000"))

	assertDecimal(t, "1000", v.TotalBudget)
	assertDecimal(t, "275", v.TotalSpent)
	assertDecimal(t, "725", v.Remaining)
	assert.False(t, v.OverBudget)
	require.NotNil(t, v.PercentUsed)
	assert.InDelta(t, 27.5, *v.PercentUsed, 1e-9)
	assert.InDelta(t, 27.5, v.Progress, 1e-9)

	require.Len(t, v.Categories, 3)
	assertDecimal(t, "150", v.Categories[domain.ActivityFlight])
	assertDecimal(t, "80", v.Categories[domain.ActivityHotel])
	assertDecimal(t, "45", v.Categories[domain.ActivityRestaurant])
	_, hasAttraction := v.Categories[domain.ActivityAttraction]
	assert.False(t, hasAttraction, "unpriced categories must be absent, not zero")
}

func TestAggregate_OverBudget(t *testing.T) {
	v := budget.Aggregate(dayOneTrip("100"))

	assertDecimal(t, "275", v.TotalSpent)
	assertDecimal(t, "-175", v.Remaining)
	assert.True(t, v.OverBudget)
	require.NotNil(t, v.PercentUsed)
	assert.InDelta(t, 275.0, *v.PercentUsed, 1e-9)
	assert.Equal(t, 100.0, v.Progress, "progress is clamped")
}

func TestAggregate_ExactlyOnBudget(t *testing.T) {
	v := budget.Aggregate(dayOneTrip("275"))

	assert.True(t, v.Remaining.IsZero())
	assert.False(t, v.OverBudget, "zero remaining is not over budget")
	assert.Equal(t, 100.0, v.Progress)
}

func TestAggregate_ZeroBudget(t *testing.T) {
	v := budget.Aggregate(dayOneTrip("0"))

	assert.Nil(t, v.PercentUsed, "percent used is undefined for a zero budget")
	assert.Equal(t, 100.0, v.Progress)
	assert.True(t, v.OverBudget)

	// Nothing must serialise as a non-finite number.
	_, err := json.Marshal(v)
	require.NoError(t, err)
}

func TestAggregate_ZeroBudgetNothingSpent(t *testing.T) {
	v := budget.Aggregate(domain.TripPlan{Budget: decimal.Zero})

	assert.Nil(t, v.PercentUsed)
	assert.Zero(t, v.Progress)
	assert.False(t, v.OverBudget)
	assert.Empty(t, v.Categories)
	assert.NotNil(t, v.Shares)
	assert.NotNil(t, v.Expenses)
}

func TestAggregate_NoPricedActivities(t *testing.T) {
	trip := domain.TripPlan{
		Budget: dec("500"),
		Days: []domain.TripDay{{
			Date:       "2025-06-01",
			Activities: []domain.Activity{{ID: "x", Type: domain.ActivityAttraction, Name: "Old Town"}},
		}},
	}

	v := budget.Aggregate(trip)

	assert.True(t, v.TotalSpent.IsZero())
	assertDecimal(t, "500", v.Remaining)
	assert.Empty(t, v.Categories)
	assert.Empty(t, v.Shares)
	require.NotNil(t, v.PercentUsed)
	assert.Zero(t, *v.PercentUsed)
}

// ---- properties ------------------------------------------------------------

func TestAggregate_SubtotalsSumToTotal(t *testing.T) {
	g := itinerary.NewGenerator(nil)
	for _, style := range []domain.TravelStyle{domain.StyleEconomic, domain.StyleBalanced, domain.StyleLuxury} {
		start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		trip := domain.TripPlan{
			Budget: dec("2500"),
			Style:  style,
			Days:   g.Generate(start, start.AddDate(0, 0, 9), "Porto", style),
		}

		v := budget.Aggregate(trip)

		sum := decimal.Zero
		for _, amount := range v.Categories {
			sum = sum.Add(amount)
		}
		assert.True(t, sum.Equal(v.TotalSpent), "%s: %s != %s", style, sum, v.TotalSpent)
		assert.True(t, v.Remaining.Equal(v.TotalBudget.Sub(v.TotalSpent)))
		assert.Equal(t, v.Remaining.IsNegative(), v.OverBudget)
	}
}

func TestAggregate_GeneratedTripTotals(t *testing.T) {
	// 3 economic days: flight 150, hotel 3×80, restaurants 20+15+20.
	g := itinerary.NewGenerator(nil)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	trip := domain.TripPlan{
		Budget: dec("1000"),
		Days:   g.Generate(start, start.AddDate(0, 0, 2), "Porto", domain.StyleEconomic),
	}

	v := budget.Aggregate(trip)

	assertDecimal(t, "445", v.TotalSpent)
	assertDecimal(t, "150", v.Categories[domain.ActivityFlight])
	assertDecimal(t, "240", v.Categories[domain.ActivityHotel])
	assertDecimal(t, "55", v.Categories[domain.ActivityRestaurant])
	assert.Len(t, v.Expenses, 7)
}

func TestAggregate_SharesOrderedAndPercent(t *testing.T) {
	v := budget.Aggregate(dayOneTrip("1000"))

	require.Len(t, v.Shares, 3)
	assert.Equal(t, domain.ActivityFlight, v.Shares[0].Type)
	assert.Equal(t, domain.ActivityHotel, v.Shares[1].Type)
	assert.Equal(t, domain.ActivityRestaurant, v.Shares[2].Type)

	var total float64
	for _, s := range v.Shares {
		assert.False(t, math.IsNaN(s.Percent) || math.IsInf(s.Percent, 0))
		total += s.Percent
	}
	assert.InDelta(t, 100.0, total, 1e-9)
	assert.InDelta(t, 150.0/275.0*100, v.Shares[0].Percent, 1e-9)
}

func TestAggregate_ZeroPricedActivityCounts(t *testing.T) {
	trip := domain.TripPlan{
		Budget: dec("100"),
		Days: []domain.TripDay{{
			Date:       "2025-06-01",
			Activities: []domain.Activity{priced(domain.ActivityEvent, "Free concert", "0")},
		}},
	}

	v := budget.Aggregate(trip)

	require.Contains(t, v.Categories, domain.ActivityEvent)
	assert.True(t, v.Categories[domain.ActivityEvent].IsZero())
	require.Len(t, v.Shares, 1)
	assert.Zero(t, v.Shares[0].Percent, "share is 0 when nothing was spent")
}

func TestAggregate_ExpensesCarryDates(t *testing.T) {
	trip := dayOneTrip("1000")
	trip.Days = append(trip.Days, domain.TripDay{
		Date:       "2025-06-02",
		Activities: []domain.Activity{priced(domain.ActivityTransport, "Tram pass", "7.50")},
	})

	v := budget.Aggregate(trip)

	require.Len(t, v.Expenses, 4)
	last := v.Expenses[3]
	assert.Equal(t, "2025-06-02", last.Date)
	assert.Equal(t, domain.ActivityTransport, last.Type)
	assertDecimal(t, "282.5", v.TotalSpent)
}

func TestAggregate_DoesNotMutateTrip(t *testing.T) {
	trip := dayOneTrip("1000")
	before := trip.Clone()

	_ = budget.Aggregate(trip)

	assert.Equal(t, before, trip)
}

func TestEmpty_DefaultBudget(t *testing.T) {
	v := budget.Empty(budget.DefaultTotalBudget)

	assertDecimal(t, "5000", v.TotalBudget)
	assertDecimal(t, "5000", v.Remaining)
	assert.True(t, v.TotalSpent.IsZero())
	require.NotNil(t, v.PercentUsed)
	assert.Zero(t, *v.PercentUsed)
	assert.Zero(t, v.Progress)
}
