package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// compared against when the username is unknown, so that both failure paths pay for one bcrypt run
const dummyPasswordHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i"

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

type adminStore interface {
	AdminByUsername(ctx context.Context, username string) (*Admin, error)
}

type tokenIssuer interface {
	Issue(admin *Admin, now time.Time) (string, time.Time, error)
}

type Service struct {
	store  adminStore
	tokens tokenIssuer
	// injectable clock (for unit testing)
	Now func() time.Time
}

func NewService(store adminStore, tokens tokenIssuer) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		Now:    time.Now,
	}
}

// Login checks the credentials and issues a session token.
// Unknown user and wrong password both end with ErrInvalidCredentials.
// Any other error means the check could not be done and nothing was issued.
func (s *Service) Login(ctx context.Context, username, password string) (_ string, _ time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.Login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if username == "" || password == "" {
		s.burnPasswordCheck(password)
		return "", time.Time{}, ErrInvalidCredentials
	}

	admin, err := s.store.AdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			s.burnPasswordCheck(password)
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, fmt.Errorf("get admin: %w", err)
	}

	match, err := pkg.CheckPasswordHash(password, admin.PasswordHash)
	if err != nil {
		log.Errorf("auth service, stored password hash for admin %d unusable: %s", admin.ID, err)
		s.burnPasswordCheck(password)
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !match {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(admin, s.Now())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}

	return token, expiresAt, nil
}

func (s *Service) burnPasswordCheck(password string) {
	_, _ = pkg.CheckPasswordHash(password, dummyPasswordHash)
}
