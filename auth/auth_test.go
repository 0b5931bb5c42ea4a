package auth

import (
	"testing"

	"sansgluten/middleware"
	"sansgluten/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMatriculeAllowed(t *testing.T) {
	t.Setenv("NUTRITIONIST_MATRICULES", "NUT-001, NUT-002 ,NUT-003")

	assert.True(t, MatriculeAllowed("NUT-001"))
	assert.True(t, MatriculeAllowed("NUT-002"))
	assert.True(t, MatriculeAllowed("NUT-003"))
	assert.False(t, MatriculeAllowed("NUT-999"))
	assert.False(t, MatriculeAllowed(""))
}

func TestMatriculeAllowedEmptyList(t *testing.T) {
	t.Setenv("NUTRITIONIST_MATRICULES", "")

	assert.False(t, MatriculeAllowed("NUT-001"))
	assert.False(t, MatriculeAllowed(""))
}

func TestIssueToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	u := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    "nutri@example.com",
		Username: "nutri",
		Role:     models.RoleNutritionist,
	}

	signed, err := IssueToken(u)
	require.NoError(t, err)

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return middleware.Secret(), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, u.ID.Hex(), claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, models.RoleNutritionist, claims.Role)
	assert.Equal(t, "nutri", claims.Username)
	require.NotNil(t, claims.ExpiresAt)
	assert.Greater(t, claims.ExpiresAt.Unix(), claims.IssuedAt.Unix())
}
