package account

import (
	"context"
	"time"
)

type AddressRepository interface {
	CreateAddress(ctx context.Context, a *Address) error
	GetAddress(ctx context.Context, userID, id string) (*Address, error)
	ListAddresses(ctx context.Context, userID string) ([]Address, error)
	UpdateAddress(ctx context.Context, a *Address) error
	DeleteAddress(ctx context.Context, userID, id string) (bool, error)
}

const addressCols = `id, user_id, phone_number, street_address, directions, state, city, country, postal_code`

func (r *PGRepo) CreateAddress(ctx context.Context, a *Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO addresses (`+addressCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, a.ID, a.UserID, a.PhoneNumber, a.StreetAddress, a.Directions, a.State, a.City, a.Country, a.PostalCode)
	return err
}

// Every address read/write is scoped to the owning user; a non-owner sees
// ErrAddressNotFound, never another user's row.
func (r *PGRepo) GetAddress(ctx context.Context, userID, id string) (*Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Address
	if err := r.db.QueryRow(ctx, `
		SELECT `+addressCols+` FROM addresses WHERE id=$1 AND user_id=$2
	`, id, userID).Scan(&a.ID, &a.UserID, &a.PhoneNumber, &a.StreetAddress, &a.Directions,
		&a.State, &a.City, &a.Country, &a.PostalCode); err != nil {
		return nil, ErrAddressNotFound
	}
	return &a, nil
}

func (r *PGRepo) ListAddresses(ctx context.Context, userID string) ([]Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+addressCols+` FROM addresses WHERE user_id=$1 ORDER BY city
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.PhoneNumber, &a.StreetAddress, &a.Directions,
			&a.State, &a.City, &a.Country, &a.PostalCode); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateAddress(ctx context.Context, a *Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE addresses
		SET phone_number   = COALESCE(NULLIF($3,''), phone_number),
		    street_address = COALESCE(NULLIF($4,''), street_address),
		    directions     = COALESCE(NULLIF($5,''), directions),
		    state          = COALESCE(NULLIF($6,''), state),
		    city           = COALESCE(NULLIF($7,''), city),
		    country        = COALESCE(NULLIF($8,''), country),
		    postal_code    = COALESCE(NULLIF($9,''), postal_code)
		WHERE id = $1 AND user_id = $2
	`, a.ID, a.UserID, a.PhoneNumber, a.StreetAddress, a.Directions, a.State, a.City, a.Country, a.PostalCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *PGRepo) DeleteAddress(ctx context.Context, userID, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
