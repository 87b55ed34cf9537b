// Package auth signs portal users in and out, resolves the session cookie
// into a Viewer and guards the dashboard subtree.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/kidandcat/firmportal/internal/config"
	"github.com/kidandcat/firmportal/internal/db"
	"github.com/kidandcat/firmportal/internal/role"
)

const (
	SessionCookie     = "portal_session"
	ResetTokenTTL     = 15 * time.Minute
	MinPasswordLength = 8
)

var (
	ErrInvalidCredentials = errors.New("email atau kata sandi salah")
	ErrWeakPassword       = fmt.Errorf("kata sandi minimal %d karakter", MinPasswordLength)
	ErrPasswordMismatch   = errors.New("konfirmasi kata sandi tidak sama")
	ErrResetLink          = errors.New("tautan tidak valid atau sudah kedaluwarsa")
)

// Viewer is the signed-in user as the dashboard sees it.
type Viewer struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  role.Role `json:"role"`
}

type Service struct {
	store   *db.Store
	mailer  Mailer
	secret  []byte
	ttl     time.Duration
	baseURL string
	params  HashParams
	now     func() time.Time
	secure  bool

	onSignOut []func(userID string)
}

// New builds the identity service. An empty session secret is replaced by a
// random one, which signs everyone out on restart.
func New(store *db.Store, cfg config.Config, mailer Mailer) (*Service, error) {
	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		log.Warn().Msg("session.secret not set, using an ephemeral secret")
	}
	return &Service{
		store:   store,
		mailer:  mailer,
		secret:  secret,
		ttl:     cfg.Session.TTL,
		baseURL: cfg.BaseURL,
		params:  DefaultHashParams,
		now:     time.Now,
		secure:  strings.HasPrefix(cfg.BaseURL, "https://"),
	}, nil
}

func viewerOf(u *db.User) *Viewer {
	return &Viewer{ID: u.ID, Name: u.Name, Email: u.Email, Role: role.Parse(u.Role)}
}

// SeedUsers creates configured accounts whose email is not yet registered.
func (s *Service) SeedUsers(users []config.SeedUser) error {
	for _, su := range users {
		if _, err := s.store.GetUserByEmail(su.Email); err == nil {
			continue
		} else if !errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("lookup seed user %s: %w", su.Email, err)
		}
		if role.Parse(su.Role) == role.Unknown {
			log.Warn().Str("email", su.Email).Str("role", su.Role).Msg("seed user has an unknown role")
		}
		hash, err := HashPassword(su.Password, s.params)
		if err != nil {
			return err
		}
		if _, err := s.store.CreateUser(su.Name, su.Email, su.Role, hash); err != nil {
			return fmt.Errorf("create seed user: %w", err)
		}
		log.Info().Str("email", su.Email).Str("role", su.Role).Msg("seed user created")
	}
	return nil
}

// SignIn checks the credentials, opens a session and sets the cookie.
func (s *Service) SignIn(w http.ResponseWriter, email, password string) (*Viewer, error) {
	u, err := s.store.GetUserByEmail(email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	ok, err := VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.store.CreateSession(u.ID, s.ttl)
	if err != nil {
		return nil, err
	}
	token, err := signSession(s.secret, sess.ID, s.now(), sess.ExpiresAt)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info().Str("user", u.ID).Str("role", u.Role).Msg("signed in")
	return viewerOf(u), nil
}

// OnSignOut registers fn to run with the user id whenever a live session
// is signed out.
func (s *Service) OnSignOut(fn func(userID string)) {
	s.onSignOut = append(s.onSignOut, fn)
}

// SignOut deletes the session behind the cookie, if any, and clears it.
func (s *Service) SignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := parseSession(s.secret, c.Value, s.now()); err == nil {
			u, lookupErr := s.store.GetUserBySession(id)
			if err := s.store.DeleteSession(id); err != nil {
				log.Error().Err(err).Msg("delete session")
			}
			if lookupErr == nil {
				for _, fn := range s.onSignOut {
					fn(u.ID)
				}
				log.Info().Str("user", u.ID).Msg("signed out")
			}
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// CurrentViewer returns the signed-in user or nil.
func (s *Service) CurrentViewer(r *http.Request) *Viewer {
	state, v := s.Resolve(r)
	if state != Ready {
		return nil
	}
	return v
}

// RequestReset mails a reset link when email belongs to a user. Unknown
// addresses are not reported so the form cannot be used to probe accounts.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	u, err := s.store.GetUserByEmail(email)
	if errors.Is(err, db.ErrNotFound) {
		log.Info().Str("email", email).Msg("password reset for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	token, err := s.store.CreateResetToken(u.Email, ResetTokenTTL)
	if err != nil {
		return err
	}
	subject, html := resetEmail(s.baseURL, token, ResetTokenTTL)
	if err := s.mailer.Send(ctx, u.Email, subject, html); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// CheckResetToken reports whether token can still be used.
func (s *Service) CheckResetToken(token string) error {
	if _, err := s.store.CheckResetToken(token); err != nil {
		return ErrResetLink
	}
	return nil
}

// ResetPassword sets a new password for the owner of token and signs that
// user out everywhere.
func (s *Service) ResetPassword(token, password, confirm string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if err := s.CheckResetToken(token); err != nil {
		return err
	}
	email, err := s.store.ConsumeResetToken(token)
	if err != nil {
		return ErrResetLink
	}
	u, err := s.store.GetUserByEmail(email)
	if err != nil {
		return ErrResetLink
	}
	hash, err := HashPassword(password, s.params)
	if err != nil {
		return err
	}
	if err := s.store.SetPassword(u.ID, hash); err != nil {
		return err
	}
	if err := s.store.DeleteUserSessions(u.ID); err != nil {
		return fmt.Errorf("drop sessions: %w", err)
	}
	log.Info().Str("user", u.ID).Msg("password reset")
	return nil
}
