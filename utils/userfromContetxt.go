package utils

import (
	"context"
	"sansgluten/globals"
)

func GetUserIDFromContext(ctx context.Context) string {
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(globals.RoleKey).(string)
	return role
}

func GetEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(globals.EmailKey).(string)
	return email
}
