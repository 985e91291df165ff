package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storeapp/ecommerce-api/internal/account"
	"github.com/storeapp/ecommerce-api/internal/httpx"
)

// captureMailer records the last message instead of sending it.
type captureMailer struct {
	to, subject, body string
}

func (m *captureMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func newTestCodec() *account.TokenCodec {
	return account.NewTokenCodec("test-secret", time.Hour, 15*time.Minute)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := account.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	users := &stubUserRepo{users: map[string]*account.User{}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", registerHandler(users))

	cases := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"username":"alice","email":"alice@example.com","password":"secret1"}`, http.StatusCreated},
		{"duplicate", `{"username":"alice","email":"alice@example.com","password":"secret1"}`, http.StatusConflict},
		{"bad email", `{"username":"bob","email":"not-an-email","password":"secret1"}`, http.StatusBadRequest},
		{"short password", `{"username":"bob","email":"bob@example.com","password":"abc"}`, http.StatusBadRequest},
		{"missing fields", `{"username":"bob"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(tc.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("%s: status=%d body=%s (want %d)", tc.name, w.Code, w.Body.String(), tc.want)
		}
		if tc.name == "ok" && strings.Contains(w.Body.String(), "secret1") {
			t.Fatalf("response leaks the password: %s", w.Body.String())
		}
	}
}

func TestLogin_TokenAcceptedByAuthMiddleware(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	uid := uuid.NewString()
	users := &stubUserRepo{users: map[string]*account.User{
		uid: {ID: uid, Username: "alice", Email: "alice@example.com", PasswordHash: mustHash(t, "secret1")},
	}}

	gin.SetMode(gin.TestMode)
	verify := func(token string) (httpx.Identity, error) {
		id, staff, err := codec.ParseSession(token)
		return httpx.Identity{UserID: id, Staff: staff}, err
	}
	r := gin.New()
	r.POST("/auth/login", loginHandler(users, codec))
	r.GET("/whoami", httpx.Auth(verify), func(c *gin.Context) {
		id, _ := httpx.CallerIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"alice@example.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("no token in response: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), uid) {
		t.Fatalf("whoami status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	uid := uuid.NewString()
	users := &stubUserRepo{users: map[string]*account.User{
		uid: {ID: uid, Email: "alice@example.com", PasswordHash: mustHash(t, "secret1")},
	}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", loginHandler(users, newTestCodec()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"alice@example.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s (want 401)", w.Code, w.Body.String())
	}
}

func TestRequireStaff_RejectsNonStaff(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", asUser(uuid.NewString(), false), httpx.RequireStaff(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d body=%s (want 403)", w.Code, w.Body.String())
	}
}

func TestPasswordReset_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	uid := uuid.NewString()
	oldHash := mustHash(t, "old-password")
	users := &stubUserRepo{users: map[string]*account.User{
		uid: {ID: uid, Email: "alice@example.com", PasswordHash: oldHash},
	}}
	mailer := &captureMailer{}
	svc := &account.ResetService{Users: users, Codec: codec, Mailer: mailer, LinkBase: "http://shop.example/reset"}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/password/reset", requestResetHandler(svc))
	r.POST("/password/reset/confirm", confirmResetHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/password/reset", bytes.NewBufferString(`{"email":"alice@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("request status=%d body=%s", w.Code, w.Body.String())
	}
	if mailer.to != "alice@example.com" || !strings.Contains(mailer.body, "uid=") {
		t.Fatalf("reset mail not sent: to=%q body=%q", mailer.to, mailer.body)
	}

	token := codec.MintReset(uid, oldHash)
	confirm := `{"uid":"` + account.EncodeUID(uid) + `","token":"` + token + `","password":"brand-new-pass"}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/password/reset/confirm", bytes.NewBufferString(confirm))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status=%d body=%s", w.Code, w.Body.String())
	}

	u, _ := users.GetByID(context.Background(), uid)
	if !account.CheckPassword(u.PasswordHash, "brand-new-pass") {
		t.Fatalf("password was not replaced")
	}

	// The token was minted against the old hash; completing the reset
	// invalidated it.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/password/reset/confirm", bytes.NewBufferString(confirm))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("reuse status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestPasswordReset_TamperedToken(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	uid := uuid.NewString()
	hash := mustHash(t, "old-password")
	users := &stubUserRepo{users: map[string]*account.User{
		uid: {ID: uid, Email: "alice@example.com", PasswordHash: hash},
	}}
	svc := &account.ResetService{Users: users, Codec: codec, Mailer: &captureMailer{}, LinkBase: "http://shop.example/reset"}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/password/reset/confirm", confirmResetHandler(svc))

	token := codec.MintReset(uid, hash) + "x"
	body := `{"uid":"` + account.EncodeUID(uid) + `","token":"` + token + `","password":"brand-new-pass"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/password/reset/confirm", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
	u, _ := users.GetByID(context.Background(), uid)
	if !account.CheckPassword(u.PasswordHash, "old-password") {
		t.Fatalf("tampered token changed the password")
	}
}

func TestResetRequest_UnknownEmailStillOK(t *testing.T) {
	t.Parallel()

	mailer := &captureMailer{}
	svc := &account.ResetService{
		Users:    &stubUserRepo{users: map[string]*account.User{}},
		Codec:    newTestCodec(),
		Mailer:   mailer,
		LinkBase: "http://shop.example/reset",
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/password/reset", requestResetHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/password/reset", bytes.NewBufferString(`{"email":"ghost@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s (want 200 regardless of account existence)", w.Code, w.Body.String())
	}
	if mailer.to != "" {
		t.Fatalf("mail sent for unknown account: %q", mailer.to)
	}
}

func TestUpsertProfile(t *testing.T) {
	t.Parallel()

	uid := uuid.NewString()
	profiles := &stubProfileRepo{profiles: map[string]*account.Profile{}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/profile", asUser(uid, false), upsertProfileHandler(profiles))
	r.GET("/profile", asUser(uid, false), getProfileHandler(profiles))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/profile", bytes.NewBufferString(`{"name":"Alice","bio":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d body=%s", w.Code, w.Body.String())
	}
	var p account.Profile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if p.Name != "Alice" || p.Bio != "hi" {
		t.Fatalf("profile=%+v", p)
	}
	if stored := profiles.profiles[uid]; stored == nil || stored.UserID != uid {
		t.Fatalf("profile not keyed to caller: %+v", stored)
	}
}

type stubProfileRepo struct {
	profiles map[string]*account.Profile // keyed by user id
}

func (s *stubProfileRepo) GetProfile(ctx context.Context, userID string) (*account.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, account.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProfileRepo) UpsertProfile(ctx context.Context, p *account.Profile) error {
	if cur, ok := s.profiles[p.UserID]; ok {
		cur.Name, cur.Bio, cur.Picture = p.Name, p.Bio, p.Picture
		return nil
	}
	cp := *p
	s.profiles[p.UserID] = &cp
	return nil
}
