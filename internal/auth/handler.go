package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgInternalError      = "Internal server error"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type loginService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Handler struct {
	service        loginService
	secureCookies  bool
	metricsManager *metrics.Manager
}

func NewHandler(
	service loginService,
	secureCookies bool,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		service:        service,
		secureCookies:  secureCookies,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers /login and /logout on the given router.
// Extra middlewares (rate limiting) wrap /login only, logout never fails.
func (handler *Handler) SetupRoutes(router *mux.Router, loginMws ...mux.MiddlewareFunc) {
	loginRouter := router.NewRoute().Subrouter()
	loginRouter.HandleFunc("/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("login")
	loginRouter.Use(loginMws...)

	router.HandleFunc("/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("logout")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	loginReq, err := parseLoginRequest(r)
	if err != nil {
		log.Debugf("login, bad request: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	span.SetAttributes(attribute.String("username", loginReq.Username))

	token, _, err := handler.service.Login(ctx, loginReq.Username, loginReq.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Tracef("failed login attempt for user: %s", loginReq.Username)
			handler.countLogin(metrics.LoginDenied)
			pkg.WriteJSONError(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}

		log.Errorf("login failed: %s", err)
		handler.countLogin(metrics.LoginError)
		pkg.WriteJSONError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	handler.countLogin(metrics.LoginSuccess)
	SetSessionCookie(w, token, handler.secureCookies)
	log.Tracef("new login success for user: %s", loginReq.Username)
	pkg.WriteJSONMessage(w, http.StatusOK, "Logged in")
}

// handleLogout always succeeds; it only overwrites the session cookie.
func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogouts.Inc()
	}

	ClearSessionCookie(w, handler.secureCookies)
	pkg.WriteJSONMessage(w, http.StatusOK, "Logged out")
}

func (handler *Handler) countLogin(result string) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.CounterLoginAttempts.WithLabelValues(result).Inc()
}

func parseLoginRequest(r *http.Request) (loginRequest, error) {
	var loginReq loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			return loginRequest{}, err
		}
		return loginReq, nil
	}

	if err := r.ParseForm(); err != nil {
		return loginRequest{}, err
	}
	return loginRequest{
		Username: r.Form.Get("username"),
		Password: r.Form.Get("password"),
	}, nil
}
