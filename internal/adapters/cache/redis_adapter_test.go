package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santekene/ai-service/internal/domain/providers"
	redisclient "github.com/santekene/ai-service/internal/infrastructure/clients/redis"
	"github.com/santekene/ai-service/pkg/config"
)

func newTestAdapter(t *testing.T) (providers.CacheProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := redisclient.NewClient(context.Background(), &config.RedisConfig{
		Host: mr.Host(),
		Port: port,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisAdapter(client), mr
}

func TestRedisAdapterSetGet(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte(`{"a":1}`), 60))
	value, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(value))
	assert.NoError(t, adapter.Ping(ctx))
}

func TestRedisAdapterMiss(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	_, err := adapter.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapterExpiry(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 10))
	mr.FastForward(11 * time.Second)

	_, err := adapter.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisClientConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, _ := strconv.Atoi(mr.Port())
	mr.Close()

	_, err := redisclient.NewClient(context.Background(), &config.RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}
