package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const SessionTTL = 24 * time.Hour

var (
	ErrInvalidSession     = errors.New("invalid session")
	ErrEmptySigningSecret = errors.New("empty signing secret")
)

// Session is the verified content of a session token.
type Session struct {
	AdminID   int
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 signed session tokens.
// The secret is copied on construction and never changes afterwards.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	// injectable clock, used by Verify (for unit testing)
	Now func() time.Time
}

func NewTokenManager(secret []byte) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySigningSecret
	}

	s := make([]byte, len(secret))
	copy(s, secret)

	return &TokenManager{
		secret: s,
		ttl:    SessionTTL,
		Now:    time.Now,
	}, nil
}

func (m *TokenManager) Issue(admin *Admin, now time.Time) (string, time.Time, error) {
	if admin == nil {
		return "", time.Time{}, errors.New("nil admin")
	}

	claims := sessionClaims{
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(admin.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, claims.ExpiresAt.Time, nil
}

// Verify accepts a token only if it is well formed, HS256 signed with our
// secret and not yet expired (now < expires_at).
func (m *TokenManager) Verify(token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.Now),
	)

	claims := &sessionClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	adminID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject: %w", ErrInvalidSession, err)
	}

	session := &Session{
		AdminID:   adminID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}

	return session, nil
}
