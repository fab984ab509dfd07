package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewClient("redis://"+mr.Addr(), "development", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestClient_SetAndGet(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	err := client.Set(ctx, "k", "v", time.Minute)
	require.NoError(t, err)

	val, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestClient_GetMissingKey(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, Nil)
}

func TestClient_IncrAndExpire(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	key := client.KeyBuilder.KeyTrackRateLimit("iphash")

	n, err := client.Incr(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = client.Incr(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, client.Expire(ctx, key, time.Hour))

	// Counter resets once the window expires
	mr.FastForward(2 * time.Hour)

	n, err = client.Incr(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestClient_Delete(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, client.Delete(ctx, "k"))

	n, err := client.Exists(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, n)
}
