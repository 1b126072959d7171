// Package service contains the business logic for the Wanderlust Planner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No storage code lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/budget"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/repo"
)

// MaxTripDays is the longest itinerary, in calendar days, the planner generates.
const MaxTripDays = 365

// maxBudget is the first amount that no longer fits the stored precision.
var maxBudget = decimal.New(1, 10)

// Generator expands a date range into a day-by-day itinerary.
// *itinerary.Generator satisfies it.
type Generator interface {
	Generate(start, end time.Time, destination string, style domain.TravelStyle) []domain.TripDay
}

// TripService implements business logic for trip planning.
type TripService struct {
	repo  repo.TripRepo
	gen   Generator
	log   *slog.Logger
	delay time.Duration
	now   func() time.Time
}

// NewTripService constructs a TripService. delay simulates the latency of a
// remote itinerary generator and may be zero.
func NewTripService(r repo.TripRepo, gen Generator, log *slog.Logger, delay time.Duration) *TripService {
	return &TripService{repo: r, gen: gen, log: log, delay: delay, now: time.Now}
}

// WithClock returns a copy of the service that reads the current time from now.
func (s *TripService) WithClock(now func() time.Time) *TripService {
	cp := *s
	cp.now = now
	return &cp
}

// Generate validates req and builds a draft plan for ownerID. The draft is
// not persisted; call Save to keep it.
// Returns domain.ErrValidation if req violates business rules.
func (s *TripService) Generate(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (domain.TripPlan, error) {
	req = normalizeRequest(req)
	if err := validateRequest(req); err != nil {
		return domain.TripPlan{}, err
	}
	if err := sleep(ctx, s.delay); err != nil {
		return domain.TripPlan{}, fmt.Errorf("service.TripService.Generate: %w", err)
	}

	plan := domain.TripPlan{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Destination: req.Destination,
		Origin:      req.Origin,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Travelers:   req.Travelers,
		Budget:      req.Budget,
		Style:       req.Style,
		Days:        s.gen.Generate(req.StartDate, req.EndDate, req.Destination, req.Style),
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}

	s.log.InfoContext(ctx, "trip generated",
		"trip_id", plan.ID,
		"owner_id", ownerID,
		"destination", plan.Destination,
		"days", len(plan.Days),
		"style", plan.Style,
	)
	return plan, nil
}

// Create generates a plan for req and persists it.
func (s *TripService) Create(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (domain.TripPlan, error) {
	plan, err := s.Generate(ctx, ownerID, req)
	if err != nil {
		return domain.TripPlan{}, err
	}
	saved, err := s.repo.Save(ctx, plan)
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return saved, nil
}

// Save validates plan and stores it for ownerID, replacing any stored trip
// with the same id.
// Returns domain.ErrValidation for an invalid plan and domain.ErrNotFound if
// the id belongs to another user.
func (s *TripService) Save(ctx context.Context, ownerID uuid.UUID, plan domain.TripPlan) (domain.TripPlan, error) {
	if plan.ID == uuid.Nil {
		return domain.TripPlan{}, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	req := normalizeRequest(plan.Request())
	if err := validateRequest(req); err != nil {
		return domain.TripPlan{}, err
	}
	if err := validateDays(plan.Days, req.StartDate, req.EndDate); err != nil {
		return domain.TripPlan{}, err
	}

	plan.OwnerID = ownerID
	plan.Destination, plan.Origin = req.Destination, req.Origin
	plan.StartDate, plan.EndDate = req.StartDate, req.EndDate
	plan.Style = req.Style
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
	}

	saved, err := s.repo.Save(ctx, plan)
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("service.TripService.Save: %w", err)
	}
	return saved, nil
}

// GetByID returns a single trip of ownerID.
// Returns domain.ErrNotFound if it does not exist or belongs to someone else.
func (s *TripService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.TripPlan, error) {
	result, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips of ownerID, latest start date first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.TripPlan, error) {
	trips, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.TripPlan{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of List together with the total trip count.
func (s *TripService) ListPaged(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.TripPlan, int64, error) {
	trips, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	page, total := domain.Paginate(trips, p)
	return page, total, nil
}

// Delete removes a trip of ownerID.
// Returns domain.ErrNotFound if it does not exist or belongs to someone else.
func (s *TripService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Upcoming returns the trips of ownerID starting on or after the calendar
// date of today, soonest first.
func (s *TripService) Upcoming(ctx context.Context, ownerID uuid.UUID, today time.Time) ([]domain.TripPlan, error) {
	trips, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Upcoming: %w", err)
	}

	from := domain.TruncateToDate(today)
	out := []domain.TripPlan{}
	for _, t := range trips {
		if !t.StartDate.Before(from) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

// Budget returns the budget view of one trip.
func (s *TripService) Budget(ctx context.Context, ownerID, tripID uuid.UUID) (budget.View, error) {
	trip, err := s.repo.GetByID(ctx, ownerID, tripID)
	if err != nil {
		return budget.View{}, fmt.Errorf("service.TripService.Budget: %w", err)
	}
	return budget.Aggregate(trip), nil
}

// CurrentBudget returns the budget view of the trip ownerID created most
// recently, or an untouched default budget when there is none.
func (s *TripService) CurrentBudget(ctx context.Context, ownerID uuid.UUID) (budget.View, error) {
	trips, err := s.List(ctx, ownerID)
	if err != nil {
		return budget.View{}, fmt.Errorf("service.TripService.CurrentBudget: %w", err)
	}
	if len(trips) == 0 {
		return budget.Empty(budget.DefaultTotalBudget), nil
	}

	latest := trips[0]
	for _, t := range trips[1:] {
		if t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	return budget.Aggregate(latest), nil
}

// Places returns the map points of a trip: every activity with a location,
// plus every attraction and restaurant, in itinerary order.
func (s *TripService) Places(ctx context.Context, ownerID, tripID uuid.UUID) ([]domain.Place, error) {
	trip, err := s.repo.GetByID(ctx, ownerID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Places: %w", err)
	}

	places := []domain.Place{}
	for _, day := range trip.Days {
		for _, a := range day.Activities {
			if a.Location == nil && a.Type != domain.ActivityAttraction && a.Type != domain.ActivityRestaurant {
				continue
			}
			p := domain.Place{ActivityID: a.ID, Name: a.Name, Type: a.Type, Date: day.Date}
			if a.Location != nil {
				loc := *a.Location
				p.Location = &loc
			}
			places = append(places, p)
		}
	}
	return places, nil
}

func normalizeRequest(req domain.TripRequest) domain.TripRequest {
	req.Destination = strings.TrimSpace(req.Destination)
	req.Origin = strings.TrimSpace(req.Origin)
	req.StartDate = domain.TruncateToDate(req.StartDate)
	req.EndDate = domain.TruncateToDate(req.EndDate)
	if req.Style == "" {
		req.Style = domain.StyleBalanced
	}
	return req
}

// validateRequest enforces the rules shared by Generate and Save.
//   - Destination and origin must be non-empty.
//   - The date range is inclusive, ordered, and at most MaxTripDays long.
//   - At least one traveler; the budget is non-negative, storable, and in
//     whole cents.
//   - Style is one of the known travel styles.
func validateRequest(req domain.TripRequest) error {
	if req.Destination == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if req.Origin == "" {
		return fmt.Errorf("%w: origin is required", domain.ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if days := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1; days > MaxTripDays {
		return fmt.Errorf("%w: a trip can span at most %d days, got %d", domain.ErrValidation, MaxTripDays, days)
	}
	if req.Travelers < 1 {
		return fmt.Errorf("%w: travelers must be at least 1", domain.ErrValidation)
	}
	if req.Budget.IsNegative() {
		return fmt.Errorf("%w: budget must not be negative", domain.ErrValidation)
	}
	if req.Budget.GreaterThanOrEqual(maxBudget) {
		return fmt.Errorf("%w: budget must be below %s", domain.ErrValidation, maxBudget)
	}
	if !req.Budget.Equal(req.Budget.Round(2)) {
		return fmt.Errorf("%w: budget can have at most 2 decimal places", domain.ErrValidation)
	}
	if !req.Style.Valid() {
		return fmt.Errorf("%w: unknown style %q", domain.ErrValidation, req.Style)
	}
	return nil
}

// validateDays checks a client-supplied itinerary against its date range:
// exactly one day per calendar day from start to end, in order, and activity
// ids unique across the whole trip. Every activity needs a known type and a
// name, and prices must not be negative.
func validateDays(days []domain.TripDay, start, end time.Time) error {
	span := int(end.Sub(start).Hours()/24) + 1
	if len(days) != span {
		return fmt.Errorf("%w: expected %d days from %s to %s, got %d", domain.ErrValidation,
			span, start.Format(domain.DateLayout), end.Format(domain.DateLayout), len(days))
	}

	ids := make(map[string]bool)
	for i, d := range days {
		want := start.AddDate(0, 0, i).Format(domain.DateLayout)
		if d.Date != want {
			return fmt.Errorf("%w: day %d must be %s, got %q", domain.ErrValidation, i+1, want, d.Date)
		}

		for _, a := range d.Activities {
			if a.ID == "" || strings.TrimSpace(a.Name) == "" {
				return fmt.Errorf("%w: activities on %s need an id and a name", domain.ErrValidation, d.Date)
			}
			if ids[a.ID] {
				return fmt.Errorf("%w: duplicate activity id %q", domain.ErrValidation, a.ID)
			}
			ids[a.ID] = true
			if !a.Type.Valid() {
				return fmt.Errorf("%w: unknown activity type %q", domain.ErrValidation, a.Type)
			}
			if a.Price != nil && a.Price.IsNegative() {
				return fmt.Errorf("%w: price of %q must not be negative", domain.ErrValidation, a.Name)
			}
		}
	}
	return nil
}
