package consol

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheFetchStatementMemoises(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key, err := cache.StatementKey(ctx, []string{"groupco", "subco"}, asOf)
	require.NoError(t, err)

	calls := 0
	loader := func(context.Context) (Statement, error) {
		calls++
		return Statement{
			AsOf:      asOf,
			Companies: []string{"groupco", "subco"},
			Assets:    Section{Label: "Assets", Total: decimal.RequireFromString("1500.00")},
		}, nil
	}

	first, err := cache.FetchStatement(ctx, key, loader)
	require.NoError(t, err)
	second, err := cache.FetchStatement(ctx, key, loader)
	require.NoError(t, err)

	require.Equal(t, 1, calls)
	require.True(t, first.Assets.Total.Equal(second.Assets.Total))
	require.Equal(t, first.Companies, second.Companies)
}

func TestCacheBumpChangesKey(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	before, err := cache.StatementKey(ctx, []string{"groupco"}, asOf)
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))
	after, err := cache.StatementKey(ctx, []string{"groupco"}, asOf)
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestNilCachePassesThrough(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	require.NoError(t, cache.Bump(ctx))
	key, err := cache.StatementKey(ctx, []string{"groupco"}, asOf)
	require.NoError(t, err)

	calls := 0
	loader := func(context.Context) (Statement, error) {
		calls++
		return Statement{}, nil
	}
	_, err = cache.FetchStatement(ctx, key, loader)
	require.NoError(t, err)
	_, err = cache.FetchStatement(ctx, key, loader)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
