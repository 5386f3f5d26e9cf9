//go:build integration_test

package test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/portfolio/internal/auth"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		username           string
		password           string
		expectedStatusCode int
		expectedBody       map[string]any
		expectCookie       bool
	}{
		"good creds": {
			username:           testUsername,
			password:           testPassword,
			expectedStatusCode: http.StatusOK,
			expectedBody:       map[string]any{"message": "Logged in"},
			expectCookie:       true,
		},
		"bad password": {
			username:           testUsername,
			password:           "bad-password",
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       map[string]any{"error": "Invalid username or password"},
		},
		"unknown username": {
			username:           gofakeit.Username(),
			password:           testPassword,
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       map[string]any{"error": "Invalid username or password"},
		},
		"username differs in case": {
			username:           strings.ToUpper(testUsername),
			password:           testPassword,
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       map[string]any{"error": "Invalid username or password"},
		},
		"empty creds": {
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       map[string]any{"error": "Invalid username or password"},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			resp := doLoginRequest(ctx, t, newHTTPClient(), tc.username, tc.password)
			defer resp.Body.Close()

			require.Equal(t, tc.expectedStatusCode, resp.StatusCode)
			assert.Equal(t, tc.expectedBody, readJSONMap(t, resp.Body))

			var sessionCookie *http.Cookie
			for _, c := range resp.Cookies() {
				if c.Name == auth.SessionCookieName {
					sessionCookie = c
				}
			}
			if !tc.expectCookie {
				assert.Nil(t, sessionCookie)
				return
			}

			require.NotNil(t, sessionCookie)
			assert.NotEmpty(t, sessionCookie.Value)
			assert.True(t, sessionCookie.HttpOnly)
			assert.Equal(t, http.SameSiteStrictMode, sessionCookie.SameSite)
			assert.Equal(t, "/", sessionCookie.Path)
			assert.Equal(t, 86400, sessionCookie.MaxAge)
		})
	}
}

func (s *IntegrationTestSuite) TestLogin_FormEncoded() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	form := url.Values{}
	form.Set("username", testUsername)
	form.Set("password", testPassword)

	req, err := http.NewRequestWithContext(ctx, "POST", serverEndpoint+"/api/login", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := newHTTPClient().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"message": "Logged in"}, readJSONMap(t, resp.Body))
}

func (s *IntegrationTestSuite) TestLoginThenLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newHTTPClient()
	doLogin(ctx, t, client)

	resp := doRequest(ctx, t, client, "GET", "/config/dashboard", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, client, "POST", "/api/logout", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"message": "Logged out"}, readJSONMap(t, resp.Body))

	var cleared *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)

	// the jar dropped the cookie, so the gate redirects again
	resp = doRequest(ctx, t, client, "GET", "/config/dashboard", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/config", resp.Header.Get("Location"))

	// logout is idempotent
	resp = doRequest(ctx, t, client, "POST", "/api/logout", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
