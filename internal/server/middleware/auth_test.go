package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func (v *testTokenValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	userID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &testClaims{userID: userID}, nil
}

type testClaims struct {
	userID uuid.UUID
}

func (c *testClaims) GetUserID() uuid.UUID {
	return c.userID
}

func newProtectedHandler(t *testing.T, tokens map[string]uuid.UUID) (http.Handler, *uuid.UUID) {
	var seen uuid.UUID
	handler := AuthMiddleware(&testTokenValidator{validTokens: tokens})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	handler, seen := newProtectedHandler(t, map[string]uuid.UUID{"good": userID})

	for _, header := range []string{"Bearer good", "bearer good", "BEARER   good"} {
		req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, header)
		assert.Equal(t, userID, *seen)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	handler, _ := newProtectedHandler(t, map[string]uuid.UUID{"good": uuid.New(), "nil-user": uuid.Nil})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic good"},
		{"no token", "Bearer"},
		{"extra parts", "Bearer good extra"},
		{"unknown token", "Bearer bad"},
		{"nil user", "Bearer nil-user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "unauthorized", body["error"])
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	_, err := GetUserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestAuthMiddleware_Challenge(t *testing.T) {
	handler, _ := newProtectedHandler(t, map[string]uuid.UUID{"good": uuid.New()})

	req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, `Bearer realm="resume-editor"`, rec.Header().Get("WWW-Authenticate"))

	req.Header.Set("Authorization", "Bearer expired")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, `Bearer realm="resume-editor", error="invalid_token"`, rec.Header().Get("WWW-Authenticate"))
}

func TestWithUserID(t *testing.T) {
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), userID))

	got, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}
