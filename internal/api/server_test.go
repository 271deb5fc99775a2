package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mabruk/internal/config"
	"github.com/edvin/mabruk/internal/core"
	"github.com/edvin/mabruk/internal/store/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T, authDisabled bool) *Server {
	t.Helper()
	cfg := &config.Config{
		CORSOrigins:     "*",
		AuthJWTSecret:   testSecret,
		AuthJWTAudience: "authenticated",
		AuthDisabled:    authDisabled,
	}
	return NewServer(zerolog.Nop(), core.NewServices(memory.New()), cfg)
}

func do(t *testing.T, s *Server, method, target string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	for _, path := range []string{"/health", "/healthz"} {
		rec := do(t, s, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	}

	rec := do(t, s, http.MethodGet, "/readyz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"store":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, true)
	do(t, s, http.MethodGet, "/api/v1/organizations", nil, nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestAPI_RequiresToken(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/v1/organizations", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec = do(t, s, http.MethodGet, "/api/v1/organizations", nil, http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_EndToEnd(t *testing.T) {
	s := newTestServer(t, true)

	rec := do(t, s, http.MethodPost, "/api/v1/organizations", map[string]any{"name": "Acme"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/v1/courses", map[string]any{"name": "Go", "price": 100}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/v1/groups", map[string]any{"name": "Morning", "organizationId": 1}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/v1/organizations/1/courses", map[string]any{"courseId": 1}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/v1/subscribers", map[string]any{"email": "dana@example.com", "plan": "premium"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/v1/subscriptions", map[string]any{"subscriberId": 1, "course": "Go", "groupId": 1}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// The unversioned mount serves the same data.
	rec = do(t, s, http.MethodGet, "/api/organizations/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var details struct {
		Organization struct{ Name string }
		Groups       []struct{ Name string }
		Courses      []struct{ Name string }
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	assert.Equal(t, "Acme", details.Organization.Name)
	require.Len(t, details.Groups, 1)
	assert.Equal(t, "Morning", details.Groups[0].Name)
	require.Len(t, details.Courses, 1)
	assert.Equal(t, "Go", details.Courses[0].Name)

	rec = do(t, s, http.MethodDelete, "/api/v1/organizations/1/courses/1", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/subscriptions?groupId=1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":1`)
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodOptions, "/api/v1/organizations", nil, http.Header{
		"Origin":                        {"https://app.example.com"},
		"Access-Control-Request-Method": {http.MethodPost},
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
