package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked token IDs until their natural expiry, backing
// logout for otherwise stateless JWTs.
type Denylist struct {
	client *redis.Client
}

func NewDenylist(addr string) (*Denylist, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Denylist{client: client}, nil
}

// Revoke marks a token ID as unusable. The entry lives only until the token
// would have expired anyway, so the set cannot grow without bound.
func (d *Denylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denyKey(jti), "revoked", ttl).Err()
}

func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, denyKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func denyKey(jti string) string {
	return "denylist:" + jti
}
