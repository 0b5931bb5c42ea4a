package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sansgluten/models"
	"sansgluten/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(Secret())
	require.NoError(t, err)
	return signed
}

func testClaims(role string) Claims {
	return Claims{
		UserID:   "user-1",
		Email:    "a@example.com",
		Role:     role,
		Username: "a",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthenticate(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"userId": utils.GetUserIDFromContext(r.Context()),
			"role":   utils.GetRoleFromContext(r.Context()),
			"email":  utils.GetEmailFromContext(r.Context()),
		})
	})

	t.Run("valid token populates the request context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testClaims(models.RoleUser)))
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"userId":"user-1"`)
		assert.Contains(t, rec.Body.String(), `"role":"user"`)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"unauthenticated"`)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, testClaims(models.RoleUser))
		signed, err := token.SignedString([]byte("wrong-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		claims := testClaims(models.RoleUser)
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"userId": utils.GetUserIDFromContext(r.Context()),
		})
	})

	t.Run("anonymous requests pass through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"userId":""`)
	})

	t.Run("valid token is honoured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testClaims(models.RoleUser)))
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"userId":"user-1"`)
	})
}

func TestRequireReviewer(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	handler := RequireReviewer(func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		role string
		want int
	}{
		{models.RoleUser, http.StatusForbidden},
		{models.RoleNutritionist, http.StatusNoContent},
		{models.RoleAdmin, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, testClaims(tc.role)))
			rec := httptest.NewRecorder()

			handler(rec, req, nil)

			assert.Equal(t, tc.want, rec.Code)
		})
	}

	t.Run("no token yields unauthenticated before any role check", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
