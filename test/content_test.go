//go:build integration_test

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/portfolio/internal/blog"
	"github.com/2beens/portfolio/internal/contacts"
)

func (s *IntegrationTestSuite) TestBlog_PublishFlow() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newHTTPClient()
	doLogin(ctx, t, client)

	// warm the public cache with the empty list
	resp := doRequest(ctx, t, client, "GET", "/api/blogs", nil)
	var posts []*blog.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	initialCount := len(posts)

	slug := strings.ToLower(fmt.Sprintf("post-%d", gofakeit.Number(1000, 999999)))
	resp = doRequest(ctx, t, client, "POST", "/config/blog", map[string]any{
		"title":     gofakeit.Sentence(4),
		"slug":      slug,
		"content":   gofakeit.Paragraph(2, 3, 10, " "),
		"published": true,
	})
	var created blog.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Positive(t, created.ID)

	// the admin write purged the cached list
	resp = doRequest(ctx, t, client, "GET", "/api/blogs", nil)
	posts = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	resp.Body.Close()
	assert.Len(t, posts, initialCount+1)

	resp = doRequest(ctx, t, newHTTPClient(), "GET", "/api/blogs/"+slug, nil)
	var bySlug blog.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bySlug))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, bySlug.ID)

	// duplicate slug
	resp = doRequest(ctx, t, client, "POST", "/config/blog", map[string]any{
		"title": "again",
		"slug":  slug,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(ctx, t, client, "DELETE", fmt.Sprintf("/config/blog/%d", created.ID), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, newHTTPClient(), "GET", "/api/blogs/"+slug, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) newContactRequest(ctx context.Context, t *testing.T, clientIP string, contactReq contacts.ContactRequest) *http.Response {
	body, err := json.Marshal(contactReq)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, "POST", serverEndpoint+"/api/contact", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-Ip", clientIP)

	resp, err := newHTTPClient().Do(req)
	require.NoError(t, err)
	return resp
}

func fakeContactRequest(service string) contacts.ContactRequest {
	return contacts.ContactRequest{
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Message: gofakeit.Sentence(12),
		Service: service,
	}
}

func (s *IntegrationTestSuite) TestContacts_Dashboard() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service := "service-" + gofakeit.LetterN(8)
	clientIP := gofakeit.IPv4Address()

	for i := 0; i < 2; i++ {
		resp := s.newContactRequest(ctx, t, clientIP, fakeContactRequest(service))
		assert.Equal(t, map[string]any{"message": "Message sent"}, readJSONMap(t, resp.Body))
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	client := newHTTPClient()
	doLogin(ctx, t, client)

	resp := doRequest(ctx, t, client, "GET", "/config/dashboard?sort=oldest&service="+service, nil)
	var dashboard contacts.DashboardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dashboard))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, dashboard.Contacts, 2)
	assert.Equal(t, 2, dashboard.Total)
	assert.Contains(t, dashboard.Services, service)
	assert.Contains(t, dashboard.Statuses, contacts.StatusNoStatus)
	assert.False(t, dashboard.Contacts[0].CreatedAt.After(dashboard.Contacts[1].CreatedAt))

	lead := dashboard.Contacts[0]
	assert.Equal(t, contacts.StatusNoStatus, lead.Status)
	assert.Zero(t, lead.Price)
	assert.Len(t, lead.CreatedAtFormatted, len("02-01-2006"))

	resp = doRequest(ctx, t, client, "PUT", "/config/dashboard/"+lead.ID.String(), map[string]any{
		"price":      120.5,
		"status":     contacts.StatusPending,
		"due":        "2030-01-15",
		"is_reached": true,
	})
	var updated contacts.ContactView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contacts.StatusPending, updated.Status)
	assert.Equal(t, 120.5, updated.Price)
	assert.True(t, updated.IsReached)
	assert.Equal(t, "15-01-2030", updated.DueFormatted)

	resp = doRequest(ctx, t, client, "PUT", "/config/dashboard/"+lead.ID.String(), map[string]any{
		"status": "Archived",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(ctx, t, client, "GET", "/config/dashboard?status=Pending&service="+service, nil)
	dashboard = contacts.DashboardResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dashboard))
	resp.Body.Close()
	require.Len(t, dashboard.Contacts, 1)
	assert.Equal(t, lead.ID, dashboard.Contacts[0].ID)

	resp = doRequest(ctx, t, client, "DELETE", "/config/dashboard/"+lead.ID.String(), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, client, "GET", "/config/dashboard/"+lead.ID.String(), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestContacts_RateLimited() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientIP := gofakeit.IPv4Address()

	// limit in the test config is 3 per minute
	for i := 0; i < 3; i++ {
		resp := s.newContactRequest(ctx, t, clientIP, fakeContactRequest("rate-limit"))
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := s.newContactRequest(ctx, t, clientIP, fakeContactRequest("rate-limit"))
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// other clients are not affected
	resp = s.newContactRequest(ctx, t, gofakeit.IPv4Address(), fakeContactRequest("rate-limit"))
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

// 1x1 transparent png
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func (s *IntegrationTestSuite) TestUpload_ThenServe() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newHTTPClient()
	doLogin(ctx, t, client)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "My Avatar.PNG")
	require.NoError(t, err)
	_, err = part.Write(pngPixel)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequestWithContext(ctx, "POST", serverEndpoint+"/config/upload/profiles", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	uploaded := readJSONMap(t, resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	objectPath, ok := uploaded["path"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(objectPath, "profiles/"))
	assert.True(t, strings.HasSuffix(objectPath, "-my-avatar.png"))
	assert.Equal(t, serverEndpoint+"/storage/"+objectPath, uploaded["url"])

	resp = doRequest(ctx, t, newHTTPClient(), "GET", "/storage/"+objectPath, nil)
	served, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pngPixel, served)

	// unauthenticated uploads never reach the handler
	resp = doRequest(ctx, t, newHTTPClient(), "POST", "/config/upload/profiles", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}
