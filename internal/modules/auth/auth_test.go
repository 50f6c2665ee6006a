package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("4821"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService("test-secret", map[string]string{"op-17": string(hash)})
}

func TestLoginAndVerify(t *testing.T) {
	s := newTestService(t)

	token, err := s.Login(context.Background(), "op-17", "4821")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	operator, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "op-17", operator)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestService(t)

	_, err := s.Login(context.Background(), "op-17", "0000")
	assert.Error(t, err)

	_, err = s.Login(context.Background(), "unknown", "4821")
	assert.Error(t, err)
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	s := newTestService(t)
	other := newTestService(t)

	// Token issued for an operator no longer on the allow-list.
	hash, _ := bcrypt.GenerateFromPassword([]byte("4821"), bcrypt.MinCost)
	issuer := NewService("test-secret", map[string]string{"op-99": string(hash)})
	token, err := issuer.Login(context.Background(), "op-99", "4821")
	require.NoError(t, err)
	_, err = s.Verify(token)
	assert.Error(t, err)

	_, err = other.Verify("not-a-token")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	s := newTestService(t)
	token, err := s.Login(context.Background(), "op-17", "4821")
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := Middleware(s)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	s := newTestService(t)
	handler := LoginHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login",
		strings.NewReader(`{"operator_id": "op-17", "pin": "4821"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/login",
		strings.NewReader(`{"operator_id": "op-17", "pin": "wrong"}`))
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
