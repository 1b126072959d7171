package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for a unique index conflict.
const pgUniqueViolation = "23505"

// UserRepo defines the persistence operations for users.
// Emails are compared case-insensitively.
type UserRepo interface {
	// Create inserts a new user and returns the persisted record with id and
	// timestamps populated. Returns domain.ErrConflict if the email is taken.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a user by id. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByEmail retrieves a user by email. Returns domain.ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// SetPremium sets the premium flag and returns the updated user.
	// Returns domain.ErrNotFound if absent.
	SetPremium(ctx context.Context, id uuid.UUID, premium bool) (domain.User, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a Postgres UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (email, name, is_premium, avatar)
		VALUES (@email, @name, @is_premium, @avatar)
		RETURNING id, email, name, is_premium, avatar, created_at, updated_at`

	args := pgx.NamedArgs{
		"email":      normalizeEmail(user.Email),
		"name":       user.Name,
		"is_premium": user.IsPremium,
		"avatar":     user.Avatar,
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w: email already registered", domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `
		SELECT id, email, name, is_premium, avatar, created_at, updated_at
		FROM users
		WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `
		SELECT id, email, name, is_premium, avatar, created_at, updated_at
		FROM users
		WHERE email = @email`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": normalizeEmail(email)}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) SetPremium(ctx context.Context, id uuid.UUID, premium bool) (domain.User, error) {
	const q = `
		UPDATE users
		SET is_premium = @is_premium,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, email, name, is_premium, avatar, created_at, updated_at`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "is_premium": premium}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.SetPremium: %w", err)
	}
	return result, nil
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)

	err := s.Scan(&id, &u.Email, &u.Name, &u.IsPremium, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	return u, nil
}

// normalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
