// Package account holds users, profiles, addresses and the password-reset
// flow.
package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrAlreadyExist    = errors.New("user already exists")
	ErrProfileNotFound = errors.New("profile not found")
	ErrAddressNotFound = errors.New("address not found")
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User, updatePassword bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, is_staff, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.IsStaff)
	if err != nil {
		// username/email carry UNIQUE constraints
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u User
	if err := r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		FROM users WHERE id=$1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u User
	if err := r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		FROM users WHERE email=$1
	`, email).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *PGRepo) Update(ctx context.Context, u *User, updatePassword bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updatePassword {
		_, err := r.db.Exec(ctx, `
			UPDATE users
			SET username = COALESCE(NULLIF($2, ''), username),
			    email    = COALESCE(NULLIF($3, ''), email),
			    password_hash = $4,
			    updated_at = NOW()
			WHERE id = $1
		`, u.ID, u.Username, u.Email, u.PasswordHash)
		return err
	}

	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = COALESCE(NULLIF($2, ''), username),
		    email    = COALESCE(NULLIF($3, ''), email),
		    updated_at = NOW()
		WHERE id = $1
	`, u.ID, u.Username, u.Email)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
