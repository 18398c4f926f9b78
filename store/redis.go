package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps each collection under "laptopshop:<name>" with a sibling
// version counter. Commits run inside a WATCH transaction so a concurrent
// writer aborts the whole commit.
type RedisStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisStore(host, port, password string, logger *zap.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established")
	return &RedisStore{rdb: rdb, logger: logger}, nil
}

func dataKey(c Collection) string    { return fmt.Sprintf("laptopshop:%s", c) }
func versionKey(c Collection) string { return fmt.Sprintf("laptopshop:%s:version", c) }

func (s *RedisStore) Load(ctx context.Context, c Collection) (Snapshot, error) {
	data, err := s.rdb.Get(ctx, dataKey(c)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{Data: emptyCollection, Version: 0}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load collection %s: %w", c, err)
	}

	version, err := s.rdb.Get(ctx, versionKey(c)).Int64()
	if errors.Is(err, redis.Nil) {
		version = 0
	} else if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load version of %s: %w", c, err)
	}

	return Snapshot{Data: data, Version: version}, nil
}

func (s *RedisStore) Commit(ctx context.Context, writes ...Write) error {
	watched := make([]string, 0, len(writes)*2)
	for _, w := range writes {
		watched = append(watched, dataKey(w.Collection), versionKey(w.Collection))
	}

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		for _, w := range writes {
			version, err := tx.Get(ctx, versionKey(w.Collection)).Int64()
			if errors.Is(err, redis.Nil) {
				version = 0
			} else if err != nil {
				return err
			}
			if version != w.Version {
				return ErrVersionConflict
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, w := range writes {
				pipe.Set(ctx, dataKey(w.Collection), w.Data, 0)
				pipe.Set(ctx, versionKey(w.Collection), w.Version+1, 0)
			}
			return nil
		})
		return err
	}, watched...)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionConflict
	}
	return err
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
