package middleware

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
)

// gate rejection reasons
const (
	RejectMissingCookie = "missing_cookie"
	RejectExpired       = "expired"
	RejectInvalid       = "invalid"
)

//go:generate mockgen -source=$GOFILE -destination=session_gate_mocks_test.go -package=middleware_test

type sessionVerifier interface {
	Verify(token string) (*auth.Session, error)
}

// SessionGate guards every path under the protected prefixes. Requests
// without a valid session cookie are redirected to the login surface,
// valid ones carry the verified session in their context.
type SessionGate struct {
	verifier          sessionVerifier
	loginPath         string
	protectedPrefixes []string
	metricsManager    *metrics.Manager
}

func NewSessionGate(
	verifier sessionVerifier,
	loginPath string,
	protectedPrefixes []string,
	metricsManager *metrics.Manager,
) *SessionGate {
	return &SessionGate{
		verifier:          verifier,
		loginPath:         loginPath,
		protectedPrefixes: protectedPrefixes,
		metricsManager:    metricsManager,
	}
}

func (g *SessionGate) IsProtected(urlPath string) bool {
	cleaned := path.Clean("/" + urlPath)
	if strings.HasSuffix(urlPath, "/") && cleaned != "/" {
		cleaned += "/"
	}
	for _, prefix := range g.protectedPrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			return true
		}
	}
	return false
}

func (g *SessionGate) Check() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.IsProtected(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.sessionGate")
			defer span.End()

			token, ok := auth.SessionTokenFromRequest(r)
			if !ok {
				log.Tracef("[session gate] missing cookie => %s", r.URL.Path)
				span.SetStatus(codes.Error, "missing-session-cookie")
				g.reject(w, r, RejectMissingCookie)
				return
			}

			session, err := g.verifier.Verify(token)
			if err != nil {
				reason := RejectInvalid
				if errors.Is(err, jwt.ErrTokenExpired) {
					reason = RejectExpired
				}
				log.Tracef("[session gate] %s => %s: %s", reason, r.URL.Path, err)
				span.SetStatus(codes.Error, reason)
				g.reject(w, r, reason)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithSession(ctx, session)))
		})
	}
}

func (g *SessionGate) reject(w http.ResponseWriter, r *http.Request, reason string) {
	if g.metricsManager != nil {
		g.metricsManager.CounterGateRejections.WithLabelValues(reason).Inc()
	}
	http.Redirect(w, r, g.loginPath, http.StatusFound)
}
