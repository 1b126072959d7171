package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/repo"
)

// premiumFeatures are the perks unlocked by UpgradeToPremium.
var premiumFeatures = []string{
	"Interactive calendar with a timeline",
	`Map with "Guide me" mode`,
	"Group trip planning",
	"AI Concierge travel assistant",
	"Reminders before events",
	"Local events matched to you",
}

// TokenIssuer signs session tokens. *token.Issuer satisfies it.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}

// Session is a signed-in user together with the bearer token that
// authenticates their next requests.
type Session struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

// UserService implements account and session logic. Authentication is
// simulated: passwords must be present but are never stored or checked.
type UserService struct {
	users  repo.UserRepo
	tokens TokenIssuer
	log    *slog.Logger
	delay  time.Duration
}

// NewUserService constructs a UserService. delay simulates the latency of a
// remote auth provider and may be zero.
func NewUserService(users repo.UserRepo, tokens TokenIssuer, log *slog.Logger, delay time.Duration) *UserService {
	return &UserService{users: users, tokens: tokens, log: log, delay: delay}
}

// Signup registers a new account and opens a session for it.
// Returns domain.ErrValidation for bad input and domain.ErrConflict if the
// email is already registered.
func (s *UserService) Signup(ctx context.Context, email, password, name string) (Session, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return Session{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := sleep(ctx, s.delay); err != nil {
		return Session{}, fmt.Errorf("service.UserService.Signup: %w", err)
	}

	u, err := s.users.Create(ctx, domain.User{Email: email, Name: name})
	if err != nil {
		return Session{}, fmt.Errorf("service.UserService.Signup: %w", err)
	}
	s.log.InfoContext(ctx, "user signed up", "user_id", u.ID)

	return s.session(u, "service.UserService.Signup")
}

// Login opens a session for email. An unknown email gets a fresh account
// named after the local part of the address.
// Returns domain.ErrValidation for a malformed email or a blank password.
func (s *UserService) Login(ctx context.Context, email, password string) (Session, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return Session{}, err
	}
	if err := sleep(ctx, s.delay); err != nil {
		return Session{}, fmt.Errorf("service.UserService.Login: %w", err)
	}

	u, err := s.findOrCreate(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("service.UserService.Login: %w", err)
	}
	s.log.InfoContext(ctx, "user logged in", "user_id", u.ID)

	return s.session(u, "service.UserService.Login")
}

// Me returns the account with the given id.
// Returns domain.ErrNotFound if it no longer exists.
func (s *UserService) Me(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Me: %w", err)
	}
	return u, nil
}

// UpgradeToPremium turns premium on for the account. Upgrading a premium
// account again is a no-op.
func (s *UserService) UpgradeToPremium(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := s.users.SetPremium(ctx, id, true)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.UpgradeToPremium: %w", err)
	}
	s.log.InfoContext(ctx, "user upgraded to premium", "user_id", u.ID)
	return u, nil
}

// PremiumFeatures lists the perks of a premium account.
func (s *UserService) PremiumFeatures() []string {
	out := make([]string, len(premiumFeatures))
	copy(out, premiumFeatures)
	return out
}

func (s *UserService) findOrCreate(ctx context.Context, email string) (domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	name, _, _ := strings.Cut(email, "@")
	u, err = s.users.Create(ctx, domain.User{Email: email, Name: name})
	if errors.Is(err, domain.ErrConflict) {
		// Lost a race with a concurrent login for the same address.
		return s.users.GetByEmail(ctx, email)
	}
	return u, err
}

func (s *UserService) session(u domain.User, op string) (Session, error) {
	tok, expiresAt, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return Session{User: u, Token: tok, ExpiresAt: expiresAt}, nil
}

// validateCredentials checks the email format and that a password was given,
// returning the normalized email.
func validateCredentials(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q is not a valid email", domain.ErrValidation, email)
	}
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	return email, nil
}
