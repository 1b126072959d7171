// Package budget derives spending views from a generated trip.
// Everything here is a pure read over domain values; nothing is persisted.
package budget

import (
	"github.com/shopspring/decimal"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
)

// DefaultTotalBudget is shown when the user has no trip to derive a budget from.
var DefaultTotalBudget = decimal.NewFromInt(5000)

var hundred = decimal.NewFromInt(100)

// Expense is one priced activity flattened out of an itinerary.
type Expense struct {
	ActivityID string              `json:"activity_id"`
	Name       string              `json:"name"`
	Amount     decimal.Decimal     `json:"amount"`
	Type       domain.ActivityType `json:"type"`
	Date       string              `json:"date"`
}

// CategoryShare is the subtotal of one activity type and its share of the
// total spent.
type CategoryShare struct {
	Type    domain.ActivityType `json:"type"`
	Amount  decimal.Decimal     `json:"amount"`
	Percent float64             `json:"percent"`
}

// View is the derived budget of a trip.
//
// PercentUsed is nil when TotalBudget is zero, since the ratio is undefined.
// Progress is always finite and within [0, 100], suitable for a progress bar.
type View struct {
	TotalBudget decimal.Decimal                         `json:"total_budget"`
	TotalSpent  decimal.Decimal                         `json:"total_spent"`
	Remaining   decimal.Decimal                         `json:"remaining"`
	OverBudget  bool                                    `json:"over_budget"`
	PercentUsed *float64                                `json:"percent_used"`
	Progress    float64                                 `json:"progress"`
	Categories  map[domain.ActivityType]decimal.Decimal `json:"categories"`
	Shares      []CategoryShare                         `json:"shares"`
	Expenses    []Expense                               `json:"expenses"`
}

// Aggregate derives the budget view of trip. Only activities with a price
// count; categories without any priced activity are absent from Categories
// and Shares.
func Aggregate(trip domain.TripPlan) View {
	expenses := Expenses(trip)

	spent := decimal.Zero
	categories := make(map[domain.ActivityType]decimal.Decimal)
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
		categories[e.Type] = categories[e.Type].Add(e.Amount)
	}

	v := summarize(trip.Budget, spent)
	v.Categories = categories
	v.Expenses = expenses
	v.Shares = shares(categories, spent)
	return v
}

// Empty returns the view of a budget with nothing spent yet.
func Empty(total decimal.Decimal) View {
	v := summarize(total, decimal.Zero)
	v.Categories = map[domain.ActivityType]decimal.Decimal{}
	v.Shares = []CategoryShare{}
	v.Expenses = []Expense{}
	return v
}

// Expenses flattens the priced activities of trip in itinerary order.
func Expenses(trip domain.TripPlan) []Expense {
	out := []Expense{}
	for _, day := range trip.Days {
		for _, a := range day.Activities {
			if a.Price == nil {
				continue
			}
			out = append(out, Expense{
				ActivityID: a.ID,
				Name:       a.Name,
				Amount:     *a.Price,
				Type:       a.Type,
				Date:       day.Date,
			})
		}
	}
	return out
}

func summarize(total, spent decimal.Decimal) View {
	remaining := total.Sub(spent)
	v := View{
		TotalBudget: total,
		TotalSpent:  spent,
		Remaining:   remaining,
		OverBudget:  remaining.IsNegative(),
	}

	if total.IsZero() {
		// Ratio undefined: leave PercentUsed unset and show a full bar only
		// once money has been spent.
		if spent.IsPositive() {
			v.Progress = 100
		}
		return v
	}

	pct := percent(spent, total)
	v.PercentUsed = &pct
	v.Progress = clamp(pct, 0, 100)
	return v
}

// shares lists category subtotals in domain.ActivityTypes order.
func shares(categories map[domain.ActivityType]decimal.Decimal, spent decimal.Decimal) []CategoryShare {
	out := make([]CategoryShare, 0, len(categories))
	for _, typ := range domain.ActivityTypes {
		amount, ok := categories[typ]
		if !ok {
			continue
		}
		share := CategoryShare{Type: typ, Amount: amount}
		if !spent.IsZero() {
			share.Percent = percent(amount, spent)
		}
		out = append(out, share)
	}
	return out
}

// percent returns part / whole × 100. whole must be non-zero.
func percent(part, whole decimal.Decimal) float64 {
	return part.Mul(hundred).Div(whole).InexactFloat64()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
