package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/service"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// TripRequest is the body of POST /trips and POST /trips/generate.
type TripRequest struct {
	Destination string             `json:"destination"`
	Origin      string             `json:"origin"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Travelers   int                `json:"travelers"`
	Budget      decimal.Decimal    `json:"budget"`
	Style       domain.TravelStyle `json:"style,omitempty"`
}

// Trip is a trip plan as exposed by the API. It is also the body of
// PUT /trips/{id}.
type Trip struct {
	ID          uuid.UUID          `json:"id"`
	Destination string             `json:"destination"`
	Origin      string             `json:"origin"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Travelers   int                `json:"travelers"`
	Budget      decimal.Decimal    `json:"budget"`
	Style       domain.TravelStyle `json:"style"`
	Days        []domain.TripDay   `json:"days"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// User is an account as exposed by the API.
type User struct {
	ID        uuid.UUID           `json:"id"`
	Email     openapi_types.Email `json:"email"`
	Name      string              `json:"name"`
	IsPremium bool                `json:"is_premium"`
	Avatar    string              `json:"avatar,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
	Name     string              `json:"name"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

// Session is the body returned by signup and login.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PremiumFeatures is the body of GET /premium/features.
type PremiumFeatures struct {
	Features []string `json:"features"`
}

// Place is a map point of an itinerary.
type Place struct {
	ActivityID string              `json:"activity_id"`
	Name       string              `json:"name"`
	Type       domain.ActivityType `json:"type"`
	Date       openapi_types.Date  `json:"date"`
	Location   *domain.Location    `json:"location,omitempty"`
}

// ExportRow is one row of GET /export?format=json.
type ExportRow struct {
	TripID        uuid.UUID           `json:"trip_id"`
	Destination   string              `json:"destination"`
	Origin        string              `json:"origin"`
	TripStartDate openapi_types.Date  `json:"trip_start_date"`
	TripEndDate   openapi_types.Date  `json:"trip_end_date"`
	Travelers     int                 `json:"travelers"`
	Style         domain.TravelStyle  `json:"style"`
	TripBudget    decimal.Decimal     `json:"trip_budget"`
	Date          *openapi_types.Date `json:"date,omitempty"`
	ActivityType  domain.ActivityType `json:"activity_type,omitempty"`
	ActivityName  string              `json:"activity_name,omitempty"`
	Time          string              `json:"time,omitempty"`
	Price         *decimal.Decimal    `json:"price,omitempty"`
	Link          string              `json:"link,omitempty"`
}

// --- mapping helpers --------------------------------------------------------

// requestToDomain converts a TripRequest body into a domain.TripRequest.
func requestToDomain(body TripRequest) domain.TripRequest {
	return domain.TripRequest{
		Destination: body.Destination,
		Origin:      body.Origin,
		StartDate:   body.StartDate.Time,
		EndDate:     body.EndDate.Time,
		Travelers:   body.Travelers,
		Budget:      body.Budget,
		Style:       body.Style,
	}
}

// tripToDomain builds the domain.TripPlan for a save. The owner and creation
// time are filled by the service.
func tripToDomain(body Trip) domain.TripPlan {
	return domain.TripPlan{
		ID:          body.ID,
		Destination: body.Destination,
		Origin:      body.Origin,
		StartDate:   body.StartDate.Time,
		EndDate:     body.EndDate.Time,
		Travelers:   body.Travelers,
		Budget:      body.Budget,
		Style:       body.Style,
		Days:        body.Days,
		CreatedAt:   body.CreatedAt,
	}
}

// tripToResponse converts a domain.TripPlan into the API Trip.
func tripToResponse(t domain.TripPlan) Trip {
	days := t.Days
	if days == nil {
		days = []domain.TripDay{}
	}
	return Trip{
		ID:          t.ID,
		Destination: t.Destination,
		Origin:      t.Origin,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Travelers:   t.Travelers,
		Budget:      t.Budget,
		Style:       t.Style,
		Days:        days,
		CreatedAt:   t.CreatedAt,
	}
}

func tripsToResponse(trips []domain.TripPlan) []Trip {
	out := make([]Trip, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	return out
}

func userToResponse(u domain.User) User {
	return User{
		ID:        u.ID,
		Email:     openapi_types.Email(u.Email),
		Name:      u.Name,
		IsPremium: u.IsPremium,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

func sessionToResponse(sess service.Session) Session {
	return Session{User: userToResponse(sess.User), Token: sess.Token, ExpiresAt: sess.ExpiresAt}
}

func placesToResponse(places []domain.Place) []Place {
	out := make([]Place, len(places))
	for i, p := range places {
		out[i] = Place{
			ActivityID: p.ActivityID,
			Name:       p.Name,
			Type:       p.Type,
			Date:       mustParseDate(p.Date),
			Location:   p.Location,
		}
	}
	return out
}

func exportRowsToResponse(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, len(rows))
	for i, r := range rows {
		id, _ := uuid.Parse(r.TripID)
		row := ExportRow{
			TripID:        id,
			Destination:   r.Destination,
			Origin:        r.Origin,
			TripStartDate: mustParseDate(r.TripStartDate),
			TripEndDate:   mustParseDate(r.TripEndDate),
			Travelers:     r.Travelers,
			Style:         r.Style,
			TripBudget:    r.TripBudget,
			ActivityType:  r.ActivityType,
			ActivityName:  r.ActivityName,
			Time:          r.Time,
			Price:         r.Price,
			Link:          r.Link,
		}
		if r.Date != "" {
			d := mustParseDate(r.Date)
			row.Date = &d
		}
		out[i] = row
	}
	return out
}

// mustParseDate converts a stored DateLayout string. Stored dates are
// validated on save, so a parse failure yields the zero date.
func mustParseDate(s string) openapi_types.Date {
	t, _ := time.Parse(domain.DateLayout, s)
	return openapi_types.Date{Time: t}
}
