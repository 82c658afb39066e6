package refreshtokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/common"
	"github.com/dmitrijs2005/redditclone/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "refresh_token:"

// RedisRepository keeps refresh tokens as JSON values under
// refresh_token:<token>. A positive ttl lets Redis evict tokens past their
// maximum lifetime.
type RedisRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisRepository(client redis.Cmdable, ttl time.Duration) *RedisRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisRepository{client: client, ttl: ttl}
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

func (r *RedisRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode refresh token: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(token.Token), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	data, err := r.client.Get(ctx, redisKey(token)).Bytes()
	return decodeRedis(token, data, err)
}

// Consume uses GETDEL, which Redis executes atomically.
func (r *RedisRepository) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	data, err := r.client.GetDel(ctx, redisKey(token)).Bytes()
	return decodeRedis(token, data, err)
}

func (r *RedisRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, redisKey(token)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func decodeRedis(token string, data []byte, err error) (*models.RefreshToken, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	rt := &models.RefreshToken{}
	if err := json.Unmarshal(data, rt); err != nil {
		return nil, fmt.Errorf("decode refresh token: %w", err)
	}
	rt.Token = token
	return rt, nil
}
