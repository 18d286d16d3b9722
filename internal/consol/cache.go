package consol

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheVersionKey = "consol:version"
	bumpChannel     = "ledger.bump"
)

// Cache memoises consolidated statements in Redis. Keys embed a
// global version; any posting bumps the version, so stale statements
// simply stop being addressable instead of needing explicit deletes.
// A nil Cache degrades to pass-through.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// StatementKey composes the versioned key for one consolidation request.
func (c *Cache) StatementKey(ctx context.Context, companyIDs []string, asOf time.Time) (string, error) {
	parts := []string{"consol", "bs", strings.Join(companyIDs, "+"), asOf.Format("2006-01-02")}
	if c == nil || c.client == nil {
		return strings.Join(parts, ":"), nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(parts, ":") + ":" + strconv.FormatInt(ver, 10), nil
}

// FetchStatement loads a cached statement or populates it via loader.
func (c *Cache) FetchStatement(ctx context.Context, key string, loader func(context.Context) (Statement, error)) (Statement, error) {
	if loader == nil {
		return Statement{}, errors.New("consol: loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var stmt Statement
		if uerr := json.Unmarshal(payload, &stmt); uerr == nil {
			return stmt, nil
		}
		// Unreadable payload, fall through and rebuild.
	} else if err != redis.Nil {
		return Statement{}, err
	}
	stmt, err := loader(ctx)
	if err != nil {
		return Statement{}, err
	}
	if raw, merr := json.Marshal(stmt); merr == nil {
		// A failed write only costs a rebuild on the next read.
		_ = c.client.Set(ctx, key, raw, c.ttl).Err()
	}
	return stmt, nil
}

// Bump invalidates the cache by incrementing the global version and
// publishing an event for other replicas.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err()
}

// ListenForInvalidation subscribes to version bump notifications so a
// replica that did not take the write still advances its version.
func (c *Cache) ListenForInvalidation(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	pubsub := c.client.Subscribe(ctx, bumpChannel)
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if ver, err := strconv.ParseInt(msg.Payload, 10, 64); err == nil {
					_ = c.client.Set(ctx, cacheVersionKey, ver, 0).Err()
					continue
				}
				_ = c.client.Incr(ctx, cacheVersionKey).Err()
			}
		}
	}()
	return nil
}
