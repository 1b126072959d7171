// Package repo contains all storage access for the Wanderlust Planner.
// Each resource has an interface plus Postgres, Redis, and in-memory
// implementations. No business logic lives here, only storage and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for trip plans.
// Every read and write is scoped by the owning user's id.
type TripRepo interface {
	// Save inserts the trip, or replaces the stored trip with the same ID.
	// A replaced trip keeps its stored CreatedAt.
	// Returns domain.ErrNotFound if the ID already belongs to another owner.
	Save(ctx context.Context, trip domain.TripPlan) (domain.TripPlan, error)

	// GetByID retrieves a single trip owned by ownerID.
	// Returns domain.ErrNotFound if no such trip exists.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.TripPlan, error)

	// List returns all trips of ownerID ordered by start date descending,
	// most recently created first among equal start dates.
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.TripPlan, error)

	// Delete removes a trip owned by ownerID.
	// Returns domain.ErrNotFound if no such trip exists.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
// Days are stored as a JSONB document; money crosses the wire as text so
// NUMERIC values round-trip without float conversion.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a Postgres TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, destination, origin, start_date, end_date,
		travelers, budget::text, style, days, created_at`

// Save upserts a trip. The WHERE clause on the conflict branch keeps one
// user from overwriting another user's trip: no row comes back and the
// caller sees ErrNotFound.
func (r *pgTripRepo) Save(ctx context.Context, trip domain.TripPlan) (domain.TripPlan, error) {
	q := `
		INSERT INTO trips (id, owner_id, destination, origin, start_date, end_date,
		                   travelers, budget, style, days, created_at)
		VALUES (@id, @owner_id, @destination, @origin, @start_date, @end_date,
		        @travelers, @budget::numeric, @style, @days, @created_at)
		ON CONFLICT (id) DO UPDATE
		SET destination = EXCLUDED.destination,
		    origin      = EXCLUDED.origin,
		    start_date  = EXCLUDED.start_date,
		    end_date    = EXCLUDED.end_date,
		    travelers   = EXCLUDED.travelers,
		    budget      = EXCLUDED.budget,
		    style       = EXCLUDED.style,
		    days        = EXCLUDED.days,
		    updated_at  = now()
		WHERE trips.owner_id = EXCLUDED.owner_id
		RETURNING ` + tripColumns

	days, err := json.Marshal(nonNilDays(trip.Days))
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("repo.TripRepo.Save: encode days: %w", err)
	}

	args := pgx.NamedArgs{
		"id":          trip.ID,
		"owner_id":    trip.OwnerID,
		"destination": trip.Destination,
		"origin":      trip.Origin,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
		"travelers":   trip.Travelers,
		"budget":      trip.Budget.String(),
		"style":       string(trip.Style),
		"days":        days,
		"created_at":  trip.CreatedAt,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("repo.TripRepo.Save: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key, scoped to its owner.
func (r *pgTripRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.TripPlan, error) {
	q := `SELECT ` + tripColumns + `
		FROM trips
		WHERE id = @id AND owner_id = @owner_id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID}))
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns the owner's trips, latest start date first.
func (r *pgTripRepo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.TripPlan, error) {
	q := `SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @owner_id
		ORDER BY start_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.TripPlan
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, nil
}

// Delete removes a trip by primary key, scoped to its owner.
func (r *pgTripRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND owner_id = @owner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.TripPlan.
func scanTrip(s scanner) (domain.TripPlan, error) {
	var (
		t         domain.TripPlan
		id, owner pgtype.UUID
		start     pgtype.Date
		end       pgtype.Date
		budget    string
		style     string
		days      []byte
	)

	err := s.Scan(&id, &owner, &t.Destination, &t.Origin, &start, &end,
		&t.Travelers, &budget, &style, &days, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripPlan{}, domain.ErrNotFound
		}
		return domain.TripPlan{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(owner.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	t.Style = domain.TravelStyle(style)

	if t.Budget, err = decimal.NewFromString(budget); err != nil {
		return domain.TripPlan{}, fmt.Errorf("decode budget %q: %w", budget, err)
	}
	if err := json.Unmarshal(days, &t.Days); err != nil {
		return domain.TripPlan{}, fmt.Errorf("decode days: %w", err)
	}
	return t, nil
}

// sortTrips orders trips the way List promises: start date descending, then
// creation time descending.
func sortTrips(trips []domain.TripPlan) {
	sort.SliceStable(trips, func(i, j int) bool {
		if !trips[i].StartDate.Equal(trips[j].StartDate) {
			return trips[i].StartDate.After(trips[j].StartDate)
		}
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
}

func nonNilDays(days []domain.TripDay) []domain.TripDay {
	if days == nil {
		return []domain.TripDay{}
	}
	return days
}
