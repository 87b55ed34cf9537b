package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	Role         string `db:"role"`
	PasswordHash string `db:"password_hash"`
	CreatedUnix  int64  `db:"created_at"`
}

func (u *User) CreatedAt() time.Time { return time.Unix(u.CreatedUnix, 0) }

func (s *Store) getUser(query string, arg any) (*User, error) {
	var u User
	if err := s.db.Get(&u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) CreateUser(name, email, role, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		Role:         role,
		PasswordHash: passwordHash,
		CreatedUnix:  s.now().Unix(),
	}
	_, err := s.db.NamedExec(
		`INSERT INTO users (id, name, email, role, password_hash, created_at)
		VALUES (:id, :name, :email, :role, :password_hash, :created_at)`, u)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("user %s: %w", u.Email, ErrExists)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByID(id string) (*User, error) {
	return s.getUser("SELECT * FROM users WHERE id = ?", id)
}

func (s *Store) GetUserByEmail(email string) (*User, error) {
	return s.getUser("SELECT * FROM users WHERE email = ?", normalizeEmail(email))
}

// ListUsers returns every account ordered by name.
func (s *Store) ListUsers() ([]User, error) {
	users := []User{}
	if err := s.db.Select(&users, "SELECT * FROM users ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) SetPassword(userID, passwordHash string) error {
	res, err := s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountUsers() (int, error) {
	var n int
	err := s.db.Get(&n, "SELECT COUNT(*) FROM users")
	return n, err
}
