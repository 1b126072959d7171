package handler

import (
	"net/http"
)

// signup handles POST /auth/signup.
func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var body SignupRequest
	if !decodeBody(w, r, &body) {
		return
	}

	sess, err := s.users.Signup(r.Context(), string(body.Email), body.Password, body.Name)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}

	writeJSON(w, http.StatusCreated, sessionToResponse(sess))
}

// login handles POST /auth/login.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !decodeBody(w, r, &body) {
		return
	}

	sess, err := s.users.Login(r.Context(), string(body.Email), body.Password)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// getMe handles GET /me.
func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Me(r.Context(), currentUser(r))
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(u))
}

// upgradeToPremium handles POST /me/premium.
func (s *Server) upgradeToPremium(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.UpgradeToPremium(r.Context(), currentUser(r))
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(u))
}

// getPremiumFeatures handles GET /premium/features.
func (s *Server) getPremiumFeatures(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, PremiumFeatures{Features: s.users.PremiumFeatures()})
}
