package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
)

// memoryTripRepo is a process-local TripRepo. Trips are deep-copied on the
// way in and out so callers can never mutate stored state.
type memoryTripRepo struct {
	mu    sync.RWMutex
	trips map[uuid.UUID]domain.TripPlan
}

// NewMemoryTripRepo returns an empty in-memory TripRepo, safe for concurrent use.
func NewMemoryTripRepo() TripRepo {
	return &memoryTripRepo{trips: make(map[uuid.UUID]domain.TripPlan)}
}

func (r *memoryTripRepo) Save(_ context.Context, trip domain.TripPlan) (domain.TripPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.trips[trip.ID]
	if ok && existing.OwnerID != trip.OwnerID {
		return domain.TripPlan{}, fmt.Errorf("repo.TripRepo.Save: %w", domain.ErrNotFound)
	}
	stored := trip.Clone()
	stored.Days = nonNilDays(stored.Days)
	if ok {
		stored.CreatedAt = existing.CreatedAt
	}
	r.trips[trip.ID] = stored
	return stored.Clone(), nil
}

func (r *memoryTripRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (domain.TripPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok || t.OwnerID != ownerID {
		return domain.TripPlan{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return t.Clone(), nil
}

func (r *memoryTripRepo) List(_ context.Context, ownerID uuid.UUID) ([]domain.TripPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.TripPlan
	for _, t := range r.trips {
		if t.OwnerID == ownerID {
			out = append(out, t.Clone())
		}
	}
	sortTrips(out)
	return out, nil
}

func (r *memoryTripRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[id]
	if !ok || t.OwnerID != ownerID {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.trips, id)
	return nil
}

// memoryUserRepo is a process-local UserRepo with an email index.
type memoryUserRepo struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]domain.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewMemoryUserRepo returns an empty in-memory UserRepo, safe for concurrent use.
func NewMemoryUserRepo() UserRepo {
	return &memoryUserRepo{
		users:   make(map[uuid.UUID]domain.User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (r *memoryUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w: email already registered", domain.ErrConflict)
	}

	now := r.now().UTC()
	user.ID = uuid.New()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = user
	r.byEmail[email] = user.ID
	return user, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", domain.ErrNotFound)
	}
	return u, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	return r.users[id], nil
}

func (r *memoryUserRepo) SetPremium(_ context.Context, id uuid.UUID, premium bool) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("repo.UserRepo.SetPremium: %w", domain.ErrNotFound)
	}
	u.IsPremium = premium
	u.UpdatedAt = r.now().UTC()
	r.users[id] = u
	return u, nil
}
