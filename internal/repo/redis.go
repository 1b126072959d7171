package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
)

// maxTxAttempts bounds the optimistic WATCH/MULTI retries of a single write.
const maxTxAttempts = 5

// keyspace builds namespaced Redis keys such as "voyager:trips:<owner>".
type keyspace string

func (k keyspace) key(parts ...string) string {
	var sb strings.Builder
	sb.WriteString(string(k))
	for _, part := range parts {
		if part != "" {
			sb.WriteString(":")
			sb.WriteString(part)
		}
	}
	return sb.String()
}

// withRetry runs fn inside a WATCH on keys, retrying when another client
// changed a watched key between the read and the EXEC.
func withRetry(ctx context.Context, client redis.UniversalClient, fn func(tx *redis.Tx) error, keys ...string) error {
	for range maxTxAttempts {
		err := client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return redis.TxFailedErr
}

// redisTripRepo stores each owner's trips as one JSON array of TripPlan
// under <prefix>:trips:<owner>, the same shape a browser keeps in local
// storage. A per-trip owner key enforces that trip ids stay unique across users.
type redisTripRepo struct {
	client redis.UniversalClient
	keys   keyspace
}

// NewRedisTripRepo constructs a TripRepo on top of client. prefix namespaces
// every key written (e.g. "voyager").
func NewRedisTripRepo(client redis.UniversalClient, prefix string) TripRepo {
	return &redisTripRepo{client: client, keys: keyspace(prefix)}
}

func (r *redisTripRepo) listKey(ownerID uuid.UUID) string {
	return r.keys.key("trips", ownerID.String())
}

func (r *redisTripRepo) ownerKey(id uuid.UUID) string {
	return r.keys.key("trip", id.String(), "owner")
}

// Save replaces the trip with the same id in the owner's array, or appends it.
// A replaced trip keeps its original CreatedAt.
func (r *redisTripRepo) Save(ctx context.Context, trip domain.TripPlan) (domain.TripPlan, error) {
	listKey, ownerKey := r.listKey(trip.OwnerID), r.ownerKey(trip.ID)
	stored := trip.Clone()
	stored.Days = nonNilDays(stored.Days)

	err := withRetry(ctx, r.client, func(tx *redis.Tx) error {
		stored.CreatedAt = trip.CreatedAt
		owner, err := tx.Get(ctx, ownerKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil && owner != trip.OwnerID.String() {
			return domain.ErrNotFound
		}

		trips, err := readTrips(ctx, tx, listKey)
		if err != nil {
			return err
		}
		kept := trips[:0]
		for _, t := range trips {
			if t.ID == trip.ID {
				stored.CreatedAt = t.CreatedAt
				continue
			}
			kept = append(kept, t)
		}
		payload, err := json.Marshal(append(kept, stored))
		if err != nil {
			return fmt.Errorf("encode trips: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, listKey, payload, 0)
			pipe.Set(ctx, ownerKey, trip.OwnerID.String(), 0)
			return nil
		})
		return err
	}, listKey, ownerKey)
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("repo.TripRepo.Save: %w", err)
	}
	return stored, nil
}

func (r *redisTripRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.TripPlan, error) {
	trips, err := readTrips(ctx, r.client, r.listKey(ownerID))
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	for _, t := range trips {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.TripPlan{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
}

func (r *redisTripRepo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.TripPlan, error) {
	trips, err := readTrips(ctx, r.client, r.listKey(ownerID))
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	sortTrips(trips)
	return trips, nil
}

func (r *redisTripRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	listKey, ownerKey := r.listKey(ownerID), r.ownerKey(id)

	err := withRetry(ctx, r.client, func(tx *redis.Tx) error {
		trips, err := readTrips(ctx, tx, listKey)
		if err != nil {
			return err
		}
		kept := make([]domain.TripPlan, 0, len(trips))
		for _, t := range trips {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(trips) {
			return domain.ErrNotFound
		}
		payload, err := json.Marshal(kept)
		if err != nil {
			return fmt.Errorf("encode trips: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, listKey, payload, 0)
			pipe.Del(ctx, ownerKey)
			return nil
		})
		return err
	}, listKey, ownerKey)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}

// readTrips decodes the JSON array at key. A missing key is an empty list.
func readTrips(ctx context.Context, c redis.Cmdable, key string) ([]domain.TripPlan, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.TripPlan{}, nil
	}
	if err != nil {
		return nil, err
	}
	var trips []domain.TripPlan
	if err := json.Unmarshal(raw, &trips); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return trips, nil
}

// redisUserRepo stores each user as JSON under <prefix>:user:<id> with an
// email index under <prefix>:user-email:<email>.
type redisUserRepo struct {
	client redis.UniversalClient
	keys   keyspace
	now    func() time.Time
}

// NewRedisUserRepo constructs a UserRepo on top of client.
func NewRedisUserRepo(client redis.UniversalClient, prefix string) UserRepo {
	return &redisUserRepo{client: client, keys: keyspace(prefix), now: time.Now}
}

func (r *redisUserRepo) userKey(id uuid.UUID) string {
	return r.keys.key("user", id.String())
}

func (r *redisUserRepo) emailKey(email string) string {
	return r.keys.key("user-email", email)
}

func (r *redisUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	now := r.now().UTC()
	user.ID = uuid.New()
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	emailKey := r.emailKey(user.Email)
	err := withRetry(ctx, r.client, func(tx *redis.Tx) error {
		taken, err := tx.Exists(ctx, emailKey).Result()
		if err != nil {
			return err
		}
		if taken > 0 {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, emailKey, user.ID.String(), 0)
			return r.write(ctx, pipe, user)
		})
		return err
	}, emailKey)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return user, nil
}

func (r *redisUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := r.read(ctx, r.client, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return u, nil
}

func (r *redisUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	raw, err := r.client.Get(ctx, r.emailKey(normalizeEmail(email))).Result()
	if errors.Is(err, redis.Nil) {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: bad index entry: %w", err)
	}

	u, err := r.read(ctx, r.client, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return u, nil
}

func (r *redisUserRepo) SetPremium(ctx context.Context, id uuid.UUID, premium bool) (domain.User, error) {
	var updated domain.User
	key := r.userKey(id)

	err := withRetry(ctx, r.client, func(tx *redis.Tx) error {
		u, err := r.read(ctx, tx, id)
		if err != nil {
			return err
		}
		u.IsPremium = premium
		u.UpdatedAt = r.now().UTC()

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return r.write(ctx, pipe, u)
		})
		updated = u
		return err
	}, key)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.SetPremium: %w", err)
	}
	return updated, nil
}

func (r *redisUserRepo) read(ctx context.Context, c redis.Cmdable, id uuid.UUID) (domain.User, error) {
	raw, err := c.Get(ctx, r.userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return domain.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return u, nil
}

func (r *redisUserRepo) write(ctx context.Context, c redis.Cmdable, u domain.User) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", u.ID, err)
	}
	return c.Set(ctx, r.userKey(u.ID), payload, 0).Err()
}
