package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSequencer implementa el contador diario con INCR atómico.
// La clave expira sola a las 48h, no hace falta limpieza.
type RedisSequencer struct {
	rdb *redis.Client
}

func NewRedisSequencer(rdb *redis.Client) *RedisSequencer {
	return &RedisSequencer{rdb: rdb}
}

func (s *RedisSequencer) Next(ctx context.Context, day string) (int64, error) {
	key := "orders:seq:" + day
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		s.rdb.Expire(ctx, key, 48*time.Hour)
	}
	return n, nil
}
