// Package auth manages credentials and sessions. Passwords are stored as
// bcrypt hashes and compared in constant time; a login produces an explicit
// Session carried as a signed JWT, and logout revokes it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/craftline/orderdesk/internal/apperrors"
	"github.com/craftline/orderdesk/internal/logging"
	"github.com/craftline/orderdesk/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const sessionTTL = 12 * time.Hour

// dummyHash is compared against on the unknown-email path so login timing
// does not reveal which emails are registered. The compare result is
// discarded; the path always fails.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Session is the authorization context for one logged-in user. Operations
// that mutate data take it explicitly instead of consulting any global flag.
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   string
	Token  string
	Expiry time.Time
}

func (s *Session) Can(p Permission) bool {
	return s != nil && HasPermission(s.Role, p)
}

type sessionClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Service struct {
	Store  *store.Store
	Secret []byte

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
}

func NewService(s *store.Store, secret []byte) *Service {
	return &Service{Store: s, Secret: secret, revoked: map[string]time.Time{}}
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Login verifies credentials against the user store and creates a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			CheckPassword(dummyHash, password)
			l.Warn("login failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login failed", "error", err)
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "bad password")
		return nil, ErrInvalidCredentials
	}

	expiry := time.Now().Add(sessionTTL)
	claims := sessionClaims{
		Role:  user.Role,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return nil, err
	}

	return &Session{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Token:  token,
		Expiry: expiry,
	}, nil
}

// Logout revokes the session token. The revocation list is pruned of expired
// entries on every call.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for jti, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, jti)
		}
	}
	s.revoked[claims.ID] = claims.ExpiresAt.Time
	return nil
}

// Resume reconstructs a Session from a token, rejecting expired or revoked
// ones.
func (s *Service) Resume(ctx context.Context, token string) (*Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	_, dead := s.revoked[claims.ID]
	s.mu.Unlock()
	if dead {
		return nil, ErrInvalidCredentials
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Session{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
		Token:  token,
		Expiry: claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Method.Alg())
		}
		return s.Secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
