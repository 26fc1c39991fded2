package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gounified/unified"
)

const redisKeyPrefix = "analysis:"

type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

// RedisStore keeps one JSON document per analysis under "analysis:<id>".
// Updates are optimistic WATCH/MULTI transactions.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

func redisKey(id unified.ID) string {
	return redisKeyPrefix + id.String()
}

func (s *RedisStore) CreateAnalysis(ctx context.Context, a entity.Analysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	ok, err := s.rdb.SetNX(ctx, redisKey(a.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("create analysis: %w", err)
	}
	if !ok {
		return errConflict
	}

	return nil
}

func (s *RedisStore) UpdateAnalysis(ctx context.Context, id unified.ID, fn func(a *entity.Analysis)) error {
	key := redisKey(id)

	txf := func(tx *redis.Tx) error {
		a, err := readAnalysis(ctx, tx, key)
		if err != nil {
			return err
		}

		fn(&a)
		a.ID = id

		data, err := json.Marshal(a)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return fmt.Errorf("update analysis %s: too much contention", id)
}

func (s *RedisStore) GetAnalysis(ctx context.Context, id unified.ID) (entity.Analysis, error) {
	return readAnalysis(ctx, s.rdb, redisKey(id))
}

func (s *RedisStore) Close(context.Context) error {
	return s.rdb.Close()
}

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readAnalysis(ctx context.Context, c redisGetter, key string) (entity.Analysis, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.Analysis{}, pkgerror.ErrNotFound
	}
	if err != nil {
		return entity.Analysis{}, fmt.Errorf("get analysis: %w", err)
	}

	var a entity.Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return entity.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return a, nil
}
