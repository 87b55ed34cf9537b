package db

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// Sessions

func (s *Store) CreateSession(userID string, ttl time.Duration) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(ttl).Truncate(time.Second),
	}
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		sess.ID, sess.UserID, sess.ExpiresAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// GetUserBySession resolves a live session to its user. Expired sessions
// are deleted on sight.
func (s *Store) GetUserBySession(id string) (*User, error) {
	var row struct {
		UserID  string `db:"user_id"`
		Expires int64  `db:"expires_at"`
	}
	err := s.db.Get(&row, "SELECT user_id, expires_at FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	if s.now().Unix() >= row.Expires {
		s.DeleteSession(id)
		return nil, ErrExpired
	}
	return s.GetUserByID(row.UserID)
}

func (s *Store) DeleteSession(id string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

func (s *Store) DeleteUserSessions(userID string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// Reset tokens

func (s *Store) CreateResetToken(email string, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	_, err := s.db.Exec(
		"INSERT INTO reset_tokens (token, email, expires_at) VALUES (?, ?, ?)",
		token, normalizeEmail(email), s.now().Add(ttl).Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert token: %w", err)
	}
	return token, nil
}

// CheckResetToken returns the email a token was issued for without using it.
func (s *Store) CheckResetToken(token string) (string, error) {
	var row struct {
		Email   string `db:"email"`
		Used    bool   `db:"used"`
		Expires int64  `db:"expires_at"`
	}
	err := s.db.Get(&row, "SELECT email, used, expires_at FROM reset_tokens WHERE token = ?", token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query token: %w", err)
	}
	if row.Used {
		return "", ErrUsed
	}
	if s.now().Unix() >= row.Expires {
		return "", ErrExpired
	}
	return row.Email, nil
}

// ConsumeResetToken marks a valid token used and returns its email.
func (s *Store) ConsumeResetToken(token string) (string, error) {
	email, err := s.CheckResetToken(token)
	if err != nil {
		return "", err
	}
	res, err := s.db.Exec("UPDATE reset_tokens SET used = 1 WHERE token = ? AND used = 0", token)
	if err != nil {
		return "", fmt.Errorf("mark token used: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", ErrUsed
	}
	return email, nil
}
