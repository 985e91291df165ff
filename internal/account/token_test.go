package account

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("s3cret", time.Hour, time.Hour)
	uid := uuid.NewString()

	token := codec.MintSession(uid, true)
	gotUID, staff, err := codec.ParseSession(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if gotUID != uid || !staff {
		t.Fatalf("got (%s, %v), want (%s, true)", gotUID, staff, uid)
	}
}

func TestSessionToken_Tampered(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("s3cret", time.Hour, time.Hour)
	token := codec.MintSession(uuid.NewString(), false)

	for _, bad := range []string{
		token + "0",
		strings.Replace(token, ".", "x.", 1),
		"not-a-token",
		"",
	} {
		if _, _, err := codec.ParseSession(bad); err == nil {
			t.Fatalf("tampered token %q accepted", bad)
		}
	}
}

func TestSessionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token := NewTokenCodec("secret-a", time.Hour, time.Hour).MintSession(uuid.NewString(), false)
	if _, _, err := NewTokenCodec("secret-b", time.Hour, time.Hour).ParseSession(token); err == nil {
		t.Fatal("token signed under another secret accepted")
	}
}

func TestSessionToken_Expired(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("s3cret", -time.Minute, time.Hour)
	token := codec.MintSession(uuid.NewString(), false)
	if _, _, err := codec.ParseSession(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestResetToken_BoundToPasswordHash(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("s3cret", time.Hour, time.Hour)
	uid := uuid.NewString()

	token := codec.MintReset(uid, "hash-before")
	if err := codec.VerifyReset(uid, "hash-before", token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	// Changing the password invalidates every outstanding token.
	if err := codec.VerifyReset(uid, "hash-after", token); err == nil {
		t.Fatal("token survived a password change")
	}
	// And a token cannot be replayed for another user.
	if err := codec.VerifyReset(uuid.NewString(), "hash-before", token); err == nil {
		t.Fatal("token accepted for a different user")
	}
}

func TestResetToken_Expired(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("s3cret", time.Hour, -time.Minute)
	uid := uuid.NewString()
	token := codec.MintReset(uid, "hash")
	if err := codec.VerifyReset(uid, "hash", token); err == nil {
		t.Fatal("expired reset token accepted")
	}
}

func TestEncodeUID_RoundTrip(t *testing.T) {
	t.Parallel()

	uid := uuid.NewString()
	got, err := DecodeUID(EncodeUID(uid))
	if err != nil || got != uid {
		t.Fatalf("got (%q, %v), want (%q, nil)", got, err, uid)
	}
	if _, err := DecodeUID("!!not-base64!!"); err == nil {
		t.Fatal("invalid encoding accepted")
	}
}

func TestHashPassword_Verify(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatal("valid password rejected")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Fatal("wrong password accepted")
	}
}
