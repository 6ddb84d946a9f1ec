package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyBlockedTokenPrefix = "auth:blocked_token:"

// TokenRepository 令牌黑名单，TTL到期后Redis自动清除
type TokenRepository interface {
	Block(ctx context.Context, token string, ttl time.Duration) error
	IsBlocked(ctx context.Context, token string) (bool, error)
}

type tokenRepository struct {
	rdb *redis.Client
}

func NewTokenRepository(rdb *redis.Client) TokenRepository {
	return &tokenRepository{rdb: rdb}
}

func (r *tokenRepository) Block(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// 已经过期的令牌本来就无法通过校验，不需要再记录
		return nil
	}
	return r.rdb.Set(ctx, keyBlockedTokenPrefix+token, 1, ttl).Err()
}

func (r *tokenRepository) IsBlocked(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, keyBlockedTokenPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
