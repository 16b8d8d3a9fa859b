package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

const keyPrefix = "myfrench:vocabulary:"

// Source is the vocabulary source being cached.
type Source interface {
	LoadManifest(ctx context.Context) ([]entities.TopicMeta, error)
	LoadTopicWords(ctx context.Context, file string) (*entities.TopicData, error)
}

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// Cache is the subset of the Redis client the source needs. *goredis.Client satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
}

// CachedSource caches a vocabulary source in Redis. Topic files are read
// through the cache. The manifest always comes from the source so a refresh
// sees new topics, and the cached copy is served only when the source fails.
// Cache failures are logged and never fail a load.
type CachedSource struct {
	next   Source
	rdb    Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedSource(next Source, rdb Cache, ttl time.Duration, logger *zap.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

type cachedTopicMeta struct {
	ID    string            `json:"id"`
	File  string            `json:"file"`
	Names map[string]string `json:"names,omitempty"`
}

// LoadManifest loads the manifest from the source and caches it. When the
// source fails the last cached manifest is returned instead.
func (c *CachedSource) LoadManifest(ctx context.Context) ([]entities.TopicMeta, error) {
	key := keyPrefix + "manifest"

	topics, err := c.next.LoadManifest(ctx)
	if err != nil {
		var cached []cachedTopicMeta
		if !c.get(ctx, key, &cached) {
			return nil, err
		}
		c.logger.Warn("serving cached manifest", zap.Error(err))

		restored := make([]entities.TopicMeta, 0, len(cached))
		for _, m := range cached {
			names := make(map[entities.Language]string, len(m.Names))
			for k, v := range m.Names {
				names[entities.Language(k)] = v
			}
			restored = append(restored, entities.TopicMeta{ID: m.ID, SourceFile: m.File, Names: names})
		}
		return restored, nil
	}

	out := make([]cachedTopicMeta, 0, len(topics))
	for _, t := range topics {
		names := make(map[string]string, len(t.Names))
		for k, v := range t.Names {
			names[string(k)] = v
		}
		out = append(out, cachedTopicMeta{ID: t.ID, File: t.SourceFile, Names: names})
	}
	c.set(ctx, key, out)

	return topics, nil
}

// LoadTopicWords returns the cached topic file or loads and caches it.
func (c *CachedSource) LoadTopicWords(ctx context.Context, file string) (*entities.TopicData, error) {
	key := keyPrefix + "topic:" + file

	var cached entities.TopicData
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	data, err := c.next.LoadTopicWords(ctx, file)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, data)

	return data, nil
}

func (c *CachedSource) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Warn("vocabulary cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("vocabulary cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}

	c.logger.Debug("vocabulary cache hit", zap.String("key", key))
	return true
}

func (c *CachedSource) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("vocabulary cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("vocabulary cache write failed", zap.String("key", key), zap.Error(err))
	}
}
