package account

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenCodec signs bearer tokens and password-reset tokens with a shared
// secret. Reset tokens additionally mix in the user's current password hash,
// so changing the password (including completing the reset itself)
// invalidates any outstanding token.
type TokenCodec struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
}

func NewTokenCodec(secret string, sessionTTL, resetTTL time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), sessionTTL: sessionTTL, resetTTL: resetTTL}
}

func (t *TokenCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (t *TokenCodec) MintSession(userID string, staff bool) string {
	staffFlag := "0"
	if staff {
		staffFlag = "1"
	}
	payload := fmt.Sprintf("%s|%s|%d", userID, staffFlag, time.Now().Add(t.sessionTTL).Unix())
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + t.sign(payload)
}

func (t *TokenCodec) ParseSession(token string) (userID string, staff bool, err error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return "", false, ErrInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false, ErrInvalidToken
	}
	payload := string(raw)
	if !hmac.Equal([]byte(t.sign(payload)), []byte(sig)) {
		return "", false, ErrInvalidToken
	}
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return "", false, ErrInvalidToken
	}
	exp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return "", false, ErrInvalidToken
	}
	return parts[0], parts[1] == "1", nil
}

// MintReset builds the single-use reset token for the user's current state.
func (t *TokenCodec) MintReset(userID, passwordHash string) string {
	exp := time.Now().Add(t.resetTTL).Unix()
	payload := fmt.Sprintf("%s|%d", userID, exp)
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + t.sign(payload+"|"+passwordHash)
}

// VerifyReset checks the token against the user's *current* password hash.
func (t *TokenCodec) VerifyReset(userID, passwordHash, token string) error {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return ErrInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return ErrInvalidToken
	}
	payload := string(raw)
	parts := strings.Split(payload, "|")
	if len(parts) != 2 || parts[0] != userID {
		return ErrInvalidToken
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return ErrInvalidToken
	}
	if !hmac.Equal([]byte(t.sign(payload+"|"+passwordHash)), []byte(sig)) {
		return ErrInvalidToken
	}
	return nil
}

// EncodeUID obfuscates the user id for reset links, mirroring the usual
// uidb64 query parameter.
func EncodeUID(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

func DecodeUID(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(raw), nil
}
