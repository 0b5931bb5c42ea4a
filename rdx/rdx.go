package rdx

import (
	"context"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init connects the package-level redis client. The cache is optional: callers
// must tolerate a nil Conn when no redis address is configured.
func Init(addr string) error {
	Conn = redis.NewClient(&redis.Options{Addr: addr})
	return Conn.Ping(context.Background()).Err()
}
