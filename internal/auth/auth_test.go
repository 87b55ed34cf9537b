package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kidandcat/firmportal/internal/config"
	"github.com/kidandcat/firmportal/internal/db"
	"github.com/kidandcat/firmportal/internal/role"
)

var fastParams = HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type sentMail struct {
	to, subject, html string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, html})
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeMailer) {
	t.Helper()
	store, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Config{
		BaseURL: "http://portal.test",
		Session: config.SessionConfig{Secret: "test-secret", TTL: time.Hour},
	}
	mailer := &fakeMailer{}
	s, err := New(store, cfg, mailer)
	if err != nil {
		t.Fatal(err)
	}
	s.params = fastParams
	err = s.SeedUsers([]config.SeedUser{
		{Name: "Budi Santoso", Email: "budi@firm.co.id", Role: "partner", Password: "rahasia123"},
		{Name: "Klien", Email: "klien@majujaya.co.id", Role: "client", Password: "rahasia123"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s, mailer
}

func signIn(t *testing.T, s *Service, email, password string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := s.SignIn(rec, email, password); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("rahasia123", fastParams)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Errorf("unexpected encoding %q", hash)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
		wantErr  bool
	}{
		{"match", "rahasia123", hash, true, false},
		{"mismatch", "salah", hash, false, false},
		{"malformed", "rahasia123", "plain", false, true},
		{"wrong algorithm", "rahasia123", "$argon2i$v=19$m=1,t=1,p=1$YQ$YQ", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyPassword(tt.password, tt.hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("VerifyPassword = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	s, _ := newTestService(t)

	if _, err := s.SignIn(httptest.NewRecorder(), "budi@firm.co.id", "salah"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := s.SignIn(httptest.NewRecorder(), "nobody@firm.co.id", "rahasia123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}

	c := signIn(t, s, "BUDI@firm.co.id", "rahasia123")
	if !c.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(c)
	v := s.CurrentViewer(req)
	if v == nil || v.Name != "Budi Santoso" || v.Role != role.Partner {
		t.Fatalf("CurrentViewer = %+v", v)
	}
}

func TestRequireSession(t *testing.T) {
	s, _ := newTestService(t)
	c := signIn(t, s, "klien@majujaya.co.id", "rahasia123")

	var seen *Viewer
	h := s.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ViewerFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		path     string
		cookie   *http.Cookie
		want     int
		location string
	}{
		{"html without cookie", "/dashboard", nil, http.StatusSeeOther, "/login"},
		{"api without cookie", "/api/menu", nil, http.StatusUnauthorized, ""},
		{"forged cookie", "/dashboard", &http.Cookie{Name: SessionCookie, Value: "abc.def.ghi"}, http.StatusSeeOther, "/login"},
		{"valid html", "/dashboard", c, http.StatusOK, ""},
		{"valid api", "/api/menu", c, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if loc := rec.Header().Get("Location"); loc != tt.location {
				t.Errorf("Location = %q, want %q", loc, tt.location)
			}
			if tt.want == http.StatusUnauthorized {
				var body map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] != "unauthenticated" {
					t.Errorf("body = %q (%v)", rec.Body.String(), err)
				}
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q", ct)
				}
			}
			if tt.want == http.StatusOK && (seen == nil || seen.Role != role.Client) {
				t.Errorf("viewer = %+v", seen)
			} else if tt.want != http.StatusOK && seen != nil {
				t.Error("handler ran for a rejected request")
			}
		})
	}
}

func TestSignOut(t *testing.T) {
	s, _ := newTestService(t)
	c := signIn(t, s, "budi@firm.co.id", "rahasia123")
	var ended []string
	s.OnSignOut(func(id string) { ended = append(ended, id) })

	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(c)
	rec := httptest.NewRecorder()
	s.SignOut(rec, req)

	cleared := false
	for _, rc := range rec.Result().Cookies() {
		if rc.Name == SessionCookie && rc.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("cookie not cleared")
	}
	if len(ended) != 1 {
		t.Errorf("sign-out hooks ran %d times", len(ended))
	}

	again := httptest.NewRequest("GET", "/dashboard", nil)
	again.AddCookie(c)
	if state, _ := s.Resolve(again); state != Unauthenticated {
		t.Errorf("old cookie still resolves to %v", state)
	}
}

func TestExpiredCookie(t *testing.T) {
	s, _ := newTestService(t)
	c := signIn(t, s, "budi@firm.co.id", "rahasia123")

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(c)
	if state, _ := s.Resolve(req); state != Unauthenticated {
		t.Errorf("state = %v, want unauthenticated", state)
	}
}

var tokenRe = regexp.MustCompile(`token=([0-9a-f]{64})`)

func TestPasswordReset(t *testing.T) {
	s, mailer := newTestService(t)
	ctx := context.Background()

	if err := s.RequestReset(ctx, "nobody@firm.co.id"); err != nil {
		t.Fatal(err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("mail sent for unknown address")
	}

	if err := s.RequestReset(ctx, "budi@firm.co.id"); err != nil {
		t.Fatal(err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "budi@firm.co.id" {
		t.Fatalf("sent = %+v", mailer.sent)
	}
	m := tokenRe.FindStringSubmatch(mailer.sent[0].html)
	if m == nil || !strings.Contains(mailer.sent[0].html, "http://portal.test/reset-password?token=") {
		t.Fatalf("no reset link in %q", mailer.sent[0].html)
	}
	token := m[1]

	old := signIn(t, s, "budi@firm.co.id", "rahasia123")

	if err := s.ResetPassword(token, "pendek", "pendek"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: got %v", err)
	}
	if err := s.ResetPassword(token, "katasandibaru", "lainnya123"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("mismatch: got %v", err)
	}
	if err := s.ResetPassword(token, "katasandibaru", "katasandibaru"); err != nil {
		t.Fatal(err)
	}
	if err := s.ResetPassword(token, "katasandibaru", "katasandibaru"); !errors.Is(err, ErrResetLink) {
		t.Errorf("reused token: got %v", err)
	}

	if _, err := s.SignIn(httptest.NewRecorder(), "budi@firm.co.id", "rahasia123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still works: %v", err)
	}
	signIn(t, s, "budi@firm.co.id", "katasandibaru")

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(old)
	if state, _ := s.Resolve(req); state != Unauthenticated {
		t.Error("sessions survived a password reset")
	}
}

func TestResendMailer(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	m := NewResendMailer(config.EmailConfig{FromEmail: "portal@firm.co.id", ResendAPIKey: "re_test"}, srv.URL)
	if err := m.Send(context.Background(), "budi@firm.co.id", "Halo", "<p>x</p>"); err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer re_test" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.From != "portal@firm.co.id" || len(got.To) != 1 || got.To[0] != "budi@firm.co.id" || got.Subject != "Halo" {
		t.Errorf("request = %+v", got)
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bad key"}`, http.StatusUnauthorized)
	}))
	defer failing.Close()
	m = NewResendMailer(config.EmailConfig{ResendAPIKey: "bad"}, failing.URL)
	if err := m.Send(context.Background(), "x@y.z", "s", "b"); err == nil {
		t.Error("expected error for 401 response")
	}
}
