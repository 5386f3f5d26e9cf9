//go:build integration_test

package test

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/portfolio/internal/auth"
)

func (s *IntegrationTestSuite) TestGate_Unauthenticated() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newHTTPClient()
	for _, tc := range []struct {
		method string
		path   string
	}{
		{"GET", "/config/dashboard"},
		{"GET", "/config/resume/about"},
		{"POST", "/config/blog"},
		{"DELETE", "/config/service/1"},
		{"GET", "/config/does-not-exist"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := doRequest(ctx, t, client, tc.method, tc.path, nil)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/config", resp.Header.Get("Location"))
		})
	}
}

func (s *IntegrationTestSuite) TestGate_ForgedCookie() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newHTTPClient()
	endpointURL, err := url.Parse(serverEndpoint)
	require.NoError(t, err)
	client.Jar.SetCookies(endpointURL, []*http.Cookie{{
		Name:  auth.SessionCookieName,
		Value: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.forged",
		Path:  "/",
	}})

	resp := doRequest(ctx, t, client, "GET", "/config/dashboard", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/config", resp.Header.Get("Location"))
}

func (s *IntegrationTestSuite) TestLoginSurface() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newHTTPClient()

	resp := doRequest(ctx, t, client, "GET", "/config", nil)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/api/login")

	doLogin(ctx, t, client)

	resp = doRequest(ctx, t, client, "GET", "/config", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/config/dashboard", resp.Header.Get("Location"))
}
