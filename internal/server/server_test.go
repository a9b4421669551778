package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
	"github.com/ronaldsalkes/cvmaster/internal/logging"
	"github.com/ronaldsalkes/cvmaster/internal/optimize"
)

func newTestServer(t *testing.T, secret string) *Server {
	t.Helper()
	s, err := New(context.Background(), Config{
		Port:      0,
		JWTSecret: secret,
		Logger:    logging.Nop{},
	})
	require.NoError(t, err)
	return s
}

func signToken(t *testing.T, secret, subject, name string) string {
	t.Helper()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func postOptimize(t *testing.T, s *Server, body []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestOptimize_StubEngine(t *testing.T) {
	s := newTestServer(t, "")

	d := draft.Default()
	d.Summary = "Engineer with a decade of backend experience."
	d.Experience = "Acme Corp, 2015-2025."
	d.Skills = "Go, SQL"
	d.TargetJob = "Senior backend engineer, Go and PostgreSQL."

	body, err := json.Marshal(map[string]any{"record": d})
	require.NoError(t, err)

	rec := postOptimize(t, s, body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rewrite optimize.Rewrite
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rewrite))
	require.NotNil(t, rewrite.Summary)
	assert.Contains(t, *rewrite.Summary, d.Summary)
	assert.Contains(t, *rewrite.Summary, "AI-optimized")
	require.NotNil(t, rewrite.Skills)
	assert.Contains(t, *rewrite.Skills, "Go, SQL")
}

func TestOptimize_MissingRecord(t *testing.T) {
	s := newTestServer(t, "")

	rec := postOptimize(t, s, []byte(`{}`), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "record is required")
}

func TestOptimize_EmptyTargetJob(t *testing.T) {
	s := newTestServer(t, "")

	d := draft.Default()
	d.TargetJob = "   "
	body, err := json.Marshal(map[string]any{"record": d})
	require.NoError(t, err)

	rec := postOptimize(t, s, body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "target job")
}

func TestOptimize_MalformedBody(t *testing.T) {
	s := newTestServer(t, "")

	rec := postOptimize(t, s, []byte(`{not json`), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimize_AuthRequired(t *testing.T) {
	const secret = "test-secret"
	s := newTestServer(t, secret)

	d := draft.Default()
	d.TargetJob = "Backend role."
	body, err := json.Marshal(map[string]any{"record": d})
	require.NoError(t, err)

	rec := postOptimize(t, s, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postOptimize(t, s, body, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postOptimize(t, s, body, signToken(t, "wrong-secret", "u1", "Ana"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postOptimize(t, s, body, signToken(t, secret, "u1", "Ana"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptimize_HealthNotGated(t *testing.T) {
	s := newTestServer(t, "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/optimize", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestTokenVerifier_Expired(t *testing.T) {
	const secret = "test-secret"
	verifier, err := NewTokenVerifier(secret)
	require.NoError(t, err)

	claims := Claims{
		Name: "Ana",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenVerifier_Identity(t *testing.T) {
	verifier, err := NewTokenVerifier("test-secret")
	require.NoError(t, err)

	identity, err := verifier.ValidateToken(signToken(t, "test-secret", "u1", "Ana Souza"))
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.Subject)
	assert.Equal(t, "Ana Souza", identity.Name)
}

func TestErrorMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ValidationError{Message: "bad"}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(&EngineError{Message: "boom"}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}
