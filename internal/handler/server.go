// Package handler implements the HTTP handlers for the Wanderlust Planner API.
// All handlers are methods on Server. They are split into domain-specific files
// (health.go, auth.go, trip.go, export.go) but share the same Server struct so
// they can access its dependencies. Handler returns the routed chi tree.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/budget"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/middleware"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching storage or the service layer.
type TripServicer interface {
	Generate(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (domain.TripPlan, error)
	Create(ctx context.Context, ownerID uuid.UUID, req domain.TripRequest) (domain.TripPlan, error)
	Save(ctx context.Context, ownerID uuid.UUID, plan domain.TripPlan) (domain.TripPlan, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.TripPlan, error)
	ListPaged(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.TripPlan, int64, error)
	Upcoming(ctx context.Context, ownerID uuid.UUID, today time.Time) ([]domain.TripPlan, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	Budget(ctx context.Context, ownerID, tripID uuid.UUID) (budget.View, error)
	CurrentBudget(ctx context.Context, ownerID uuid.UUID) (budget.View, error)
	Places(ctx context.Context, ownerID, tripID uuid.UUID) ([]domain.Place, error)
}

// UserServicer defines the account and session operations.
type UserServicer interface {
	Signup(ctx context.Context, email, password, name string) (service.Session, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	Me(ctx context.Context, id uuid.UUID) (domain.User, error)
	UpgradeToPremium(ctx context.Context, id uuid.UUID) (domain.User, error)
	PremiumFeatures() []string
}

// ExportServicer defines the operations needed by the export handler.
type ExportServicer interface {
	Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

// Server serves every API endpoint. Methods are in domain-specific files but
// all operate on this struct.
type Server struct {
	trips  TripServicer
	users  UserServicer
	export ExportServicer
	tokens middleware.TokenParser
	log    *slog.Logger
	now    func() time.Time
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, users UserServicer, export ExportServicer, tokens middleware.TokenParser, log *slog.Logger) *Server {
	return &Server{trips: trips, users: users, export: export, tokens: tokens, log: log, now: time.Now}
}

// WithClock returns a copy of the Server that reads "today" from now.
func (s *Server) WithClock(now func() time.Time) *Server {
	cp := *s
	cp.now = now
	return &cp
}

// Handler returns the API routes. Everything except health, docs, sign-in and
// the premium catalogue requires a bearer token.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)
	r.Get("/premium/features", s.getPremiumFeatures)
	r.Post("/auth/signup", s.signup)
	r.Post("/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthenticator(s.tokens))

		r.Get("/me", s.getMe)
		r.Post("/me/premium", s.upgradeToPremium)

		r.Post("/trips/generate", s.generateTrip)
		r.Post("/trips", s.createTrip)
		r.Get("/trips", s.listTrips)
		r.Get("/trips/upcoming", s.listUpcomingTrips)
		r.Get("/trips/{id}", s.getTrip)
		r.Put("/trips/{id}", s.saveTrip)
		r.Delete("/trips/{id}", s.deleteTrip)
		r.Get("/trips/{id}/budget", s.getTripBudget)
		r.Get("/trips/{id}/places", s.getTripPlaces)

		r.Get("/budget", s.getCurrentBudget)
		r.Get("/export", s.getExport)
	})

	return r
}

// currentUser returns the id placed in the context by the authenticator.
// Routes outside the authenticated group never call it.
func currentUser(r *http.Request) uuid.UUID {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}
