package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenTable accepts exactly the tokens it maps.
type tokenTable map[string]uuid.UUID

type tableClaims uuid.UUID

func (c tableClaims) GetUserID() uuid.UUID { return uuid.UUID(c) }

func (tt tokenTable) ValidateToken(token string) (UserIDGetter, error) {
	id, ok := tt[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return tableClaims(id), nil
}

// echoUser writes the context user ID, or "anonymous".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, err := GetUserID(r)
	if err != nil {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(id.String()))
})

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	tokens := tokenTable{"good-token": userID}
	handler := AuthMiddleware(tokens)(echoUser)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid", header: "Bearer good-token", wantStatus: http.StatusOK},
		{name: "scheme is case insensitive", header: "bearer good-token", wantStatus: http.StatusOK},
		{name: "extra spaces", header: "Bearer   good-token", wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "no scheme", header: "good-token", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic good-token", wantStatus: http.StatusUnauthorized},
		{name: "scheme only", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "too many parts", header: "Bearer good-token extra", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer forged", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_UnauthorizedBody(t *testing.T) {
	w := serve(AuthMiddleware(tokenTable{})(echoUser), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	handler := OptionalAuth(tokenTable{"good-token": userID})(echoUser)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "anonymous", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "valid token", header: "Bearer good-token", wantStatus: http.StatusOK, wantBody: userID.String()},
		{name: "invalid token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "good-token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)

	_, err := GetUserID(req)
	assert.Error(t, err)

	got, err := GetUserID(req.WithContext(WithUserID(req.Context(), userID)))
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	wrongType := req.WithContext(context.WithValue(req.Context(), UserIDKey(), "not-a-uuid"))
	got, err = GetUserID(wrongType)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, got)
}
