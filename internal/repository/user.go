package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/swiftdrop/courier-api/internal/domain"
)

const userColumns = `id, name, email, password_hash, contact, role, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, contact, role, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Contact, u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateEmail)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByEmail: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET name = $2, email = $3, contact = $4, role = $5, status = $6, updated_at = $7
		 WHERE id = $1`,
		u.ID, u.Name, u.Email, u.Contact, u.Role, u.Status, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return fmt.Errorf("Update: %w", domain.ErrDuplicateEmail)
		}
		return fmt.Errorf("Update: %w", err)
	}
	return requireRowAffected(res, "Update")
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("UpdatePassword: %w", err)
	}
	return requireRowAffected(res, "UpdatePassword")
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return requireRowAffected(res, "Delete")
}

// DeleteAll wipes every user and returns how many were removed.
func (r *UserRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: %w", err)
	}
	return n, nil
}

func requireRowAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	err := s.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Contact, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
