package account

import (
	"context"
	"time"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpsertProfile(ctx context.Context, p *Profile) error
}

func (r *PGRepo) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Profile
	if err := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, bio, picture FROM profiles WHERE user_id=$1
	`, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.Bio, &p.Picture); err != nil {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

// UpsertProfile creates or replaces the caller's profile; one row per user.
func (r *PGRepo) UpsertProfile(ctx context.Context, p *Profile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO profiles (id, user_id, name, bio, picture)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id)
		DO UPDATE SET name = EXCLUDED.name, bio = EXCLUDED.bio, picture = EXCLUDED.picture
		RETURNING id
	`, p.ID, p.UserID, p.Name, p.Bio, p.Picture).Scan(&p.ID)
}
