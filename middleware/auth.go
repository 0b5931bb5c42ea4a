package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"sansgluten/globals"
	"sansgluten/models"
	"sansgluten/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// Claims is the token payload issued at login and verified on every
// authenticated route.
type Claims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func Secret() []byte {
	return []byte(os.Getenv("SECRET_KEY"))
}

func parseToken(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, fmt.Errorf("missing bearer token")
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return Secret(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func withClaims(r *http.Request, claims *Claims) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, globals.UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
	ctx = context.WithValue(ctx, globals.EmailKey, claims.Email)
	ctx = context.WithValue(ctx, globals.UsernameKey, claims.Username)
	return r.WithContext(ctx)
}

// Authenticate rejects requests without a valid bearer token and attaches the
// verified principal to the request context.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := parseToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, utils.KindUnauthenticated, err.Error())
			return
		}
		next(w, withClaims(r, claims), ps)
	}
}

// OptionalAuth attaches the principal when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := parseToken(r); err == nil {
			r = withClaims(r, claims)
		}
		next(w, r, ps)
	}
}

// RequireRoles authenticates and then gates on the principal's role.
func RequireRoles(next httprouter.Handle, roles ...string) httprouter.Handle {
	return Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		role := utils.GetRoleFromContext(r.Context())
		for _, allowed := range roles {
			if role == allowed {
				next(w, r, ps)
				return
			}
		}
		utils.RespondWithError(w, http.StatusForbidden, utils.KindForbidden, "insufficient role")
	})
}

// RequireReviewer gates on the moderation capability (nutritionist or admin).
func RequireReviewer(next httprouter.Handle) httprouter.Handle {
	return RequireRoles(next, models.RoleNutritionist, models.RoleAdmin)
}
