package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
)

const tripNotFound = "trip not found"

// generateTrip handles POST /trips/generate.
// The draft is returned without being stored.
func (s *Server) generateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	plan, err := s.trips.Generate(r.Context(), currentUser(r), requestToDomain(body))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(plan))
}

// createTrip handles POST /trips.
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), currentUser(r), requestToDomain(body))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// listTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		badParam(w, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		badParam(w, err)
		return
	}

	params := domain.NewPaginationParams(page, limit)
	trips, total, err := s.trips.ListPaged(r.Context(), currentUser(r), params)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	writeJSON(w, http.StatusOK, TripList{
		Data: tripsToResponse(trips),
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// listUpcomingTrips handles GET /trips/upcoming.
// ?from=YYYY-MM-DD overrides today's date.
func (s *Server) listUpcomingTrips(w http.ResponseWriter, r *http.Request) {
	var from *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, "from", r.URL.Query(), &from); err != nil {
		badParam(w, err)
		return
	}

	today := s.now()
	if from != nil {
		today = from.Time
	}

	trips, err := s.trips.Upcoming(r.Context(), currentUser(r), today)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	writeJSON(w, http.StatusOK, tripsToResponse(trips))
}

// getTrip handles GET /trips/{id}.
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), currentUser(r), id)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// saveTrip handles PUT /trips/{id}. The body is a full trip, usually one
// previously returned by POST /trips/generate with edited days. A body id,
// when present, must match the path.
func (s *Server) saveTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	var body Trip
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ID == uuid.Nil {
		body.ID = id
	}
	if body.ID != id {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("id in body does not match path"))
		return
	}

	saved, err := s.trips.Save(r.Context(), currentUser(r), tripToDomain(body))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(saved))
}

// deleteTrip handles DELETE /trips/{id}.
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), currentUser(r), id); err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getTripBudget handles GET /trips/{id}/budget.
func (s *Server) getTripBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	view, err := s.trips.Budget(r.Context(), currentUser(r), id)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// getTripPlaces handles GET /trips/{id}/places.
func (s *Server) getTripPlaces(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	places, err := s.trips.Places(r.Context(), currentUser(r), id)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	writeJSON(w, http.StatusOK, placesToResponse(places))
}

// getCurrentBudget handles GET /budget.
// It reports the budget of the most recently created trip, or the default
// budget with nothing spent when the user has no trips.
func (s *Server) getCurrentBudget(w http.ResponseWriter, r *http.Request) {
	view, err := s.trips.CurrentBudget(r.Context(), currentUser(r))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// tripID binds the {id} path parameter, answering 400 when it is not a UUID.
func tripID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		badParam(w, err)
		return uuid.Nil, false
	}
	return id, true
}
