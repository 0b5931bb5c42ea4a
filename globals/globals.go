package globals

type contextKey string

const (
	UserIDKey   contextKey = "userId"
	RoleKey     contextKey = "role"
	EmailKey    contextKey = "email"
	UsernameKey contextKey = "username"
)
