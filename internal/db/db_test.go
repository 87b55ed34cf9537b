package db

import (
	"errors"
	"testing"
	"time"
)

func openTest(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestUsers(t *testing.T) {
	s, _ := openTest(t)

	u, err := s.CreateUser(" Budi ", "Budi@Firm.co.id", "partner", "hash")
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "budi@firm.co.id" || u.Name != "Budi" {
		t.Errorf("not normalized: %+v", u)
	}

	got, err := s.GetUserByEmail("BUDI@firm.co.id ")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || got.Role != "partner" {
		t.Errorf("GetUserByEmail = %+v", got)
	}

	if _, err := s.CreateUser("Other", "budi@firm.co.id", "admin", "x"); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate email: got %v", err)
	}
	if _, err := s.GetUserByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: got %v", err)
	}

	if err := s.SetPassword(u.ID, "new"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetUserByID(u.ID)
	if got.PasswordHash != "new" {
		t.Errorf("password hash = %q", got.PasswordHash)
	}
	if n, _ := s.CountUsers(); n != 1 {
		t.Errorf("CountUsers = %d", n)
	}
	s.CreateUser("Andi", "andi@firm.co.id", "auditor", "h")
	users, err := s.ListUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users[0].Name != "Andi" || users[1].CreatedAt().IsZero() {
		t.Errorf("ListUsers = %+v", users)
	}
}

func TestSessions(t *testing.T) {
	s, now := openTest(t)
	u, _ := s.CreateUser("Siti", "siti@firm.co.id", "manager", "h")

	sess, err := s.CreateSession(u.ID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.GetUserBySession(sess.ID)
	if err != nil || got.ID != u.ID {
		t.Fatalf("GetUserBySession = %v, %v", got, err)
	}

	*now = now.Add(2 * time.Hour)
	if _, err := s.GetUserBySession(sess.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("expired session: got %v", err)
	}
	if _, err := s.GetUserBySession(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session not deleted: got %v", err)
	}

	sess, _ = s.CreateSession(u.ID, time.Hour)
	if err := s.DeleteSession(sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetUserBySession(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted session: got %v", err)
	}
}

func TestResetTokens(t *testing.T) {
	s, now := openTest(t)

	token, err := s.CreateResetToken("Andi@firm.co.id", 15*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d", len(token))
	}
	email, err := s.CheckResetToken(token)
	if err != nil || email != "andi@firm.co.id" {
		t.Fatalf("CheckResetToken = %q, %v", email, err)
	}
	if _, err := s.ConsumeResetToken(token); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ConsumeResetToken(token); !errors.Is(err, ErrUsed) {
		t.Errorf("reuse: got %v", err)
	}

	late, _ := s.CreateResetToken("andi@firm.co.id", 15*time.Minute)
	*now = now.Add(16 * time.Minute)
	if _, err := s.ConsumeResetToken(late); !errors.Is(err, ErrExpired) {
		t.Errorf("expired token: got %v", err)
	}
	if _, err := s.CheckResetToken("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown token: got %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	s, now := openTest(t)
	u, _ := s.CreateUser("Dewi", "dewi@firm.co.id", "auditor", "h")

	s.CreateSession(u.ID, time.Minute)
	live, _ := s.CreateSession(u.ID, 24*time.Hour)
	s.CreateResetToken("dewi@firm.co.id", time.Minute)
	used, _ := s.CreateResetToken("dewi@firm.co.id", time.Hour)
	s.ConsumeResetToken(used)
	s.CreateResetToken("dewi@firm.co.id", time.Hour)

	*now = now.Add(10 * time.Minute)
	sessions, tokens, err := s.PurgeExpired()
	if err != nil {
		t.Fatal(err)
	}
	if sessions != 1 || tokens != 2 {
		t.Errorf("purged sessions=%d tokens=%d, want 1 and 2", sessions, tokens)
	}
	if _, err := s.GetUserBySession(live.ID); err != nil {
		t.Errorf("live session purged: %v", err)
	}
}
