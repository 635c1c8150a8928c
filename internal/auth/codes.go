package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/justmahmoud31/Ryo-Server/internal/redisx"
)

// CodeStore keeps one active reset code per email. Redis TTL supplies the
// 15-minute expiry; an expired code simply reads as absent.
type CodeStore interface {
	Save(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (string, error)
	Clear(ctx context.Context, email string) error
}

var errCodeMissing = errors.New("no active code")

type RedisCodes struct{ RDB *redis.Client }

var _ CodeStore = (*RedisCodes)(nil)

func (c *RedisCodes) Save(ctx context.Context, email, code string) error {
	key := fmt.Sprintf(redisx.KeyResetOTP, email)
	return c.RDB.Set(ctx, key, code, redisx.TTLResetOTP).Err()
}

func (c *RedisCodes) Get(ctx context.Context, email string) (string, error) {
	key := fmt.Sprintf(redisx.KeyResetOTP, email)
	v, err := c.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errCodeMissing
	}
	return v, err
}

func (c *RedisCodes) Clear(ctx context.Context, email string) error {
	key := fmt.Sprintf(redisx.KeyResetOTP, email)
	return c.RDB.Del(ctx, key).Err()
}
