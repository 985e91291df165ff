package account

import (
	"context"
	"errors"
	"fmt"
)

var ErrWeakPassword = errors.New("password must be at least 6 characters long")

// ResetService runs the password-reset flow: request emails a tokenized link,
// confirm verifies the token and replaces the hash.
type ResetService struct {
	Users    UserRepository
	Codec    *TokenCodec
	Mailer   Mailer
	LinkBase string
}

// Request sends a reset link when the email belongs to a user. Unknown emails
// are not reported to the caller, to avoid account enumeration.
func (s *ResetService) Request(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	token := s.Codec.MintReset(u.ID, u.PasswordHash)
	link := fmt.Sprintf("%s?uid=%s&token=%s", s.LinkBase, EncodeUID(u.ID), token)
	body := "Click the link to reset your password: " + link
	if err := s.Mailer.Send(ctx, u.Email, "Password Reset Request", body); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// Confirm validates (uid, token) against the user's current password hash and
// sets the new password. A tampered or expired token, or one issued before
// the password last changed, fails without touching the user.
func (s *ResetService) Confirm(ctx context.Context, uidEncoded, token, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	uid, err := DecodeUID(uidEncoded)
	if err != nil {
		return ErrInvalidToken
	}
	u, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		return ErrInvalidToken
	}
	if err := s.Codec.VerifyReset(u.ID, u.PasswordHash, token); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.Update(ctx, &User{ID: u.ID, PasswordHash: hash}, true)
}
