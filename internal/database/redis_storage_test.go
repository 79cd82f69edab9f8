package database

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestRedisStorageRoundTrip(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client, err := ConnectRedis(context.Background(), "redis://"+server.Addr())
	require.NoError(t, err)
	defer client.Close()

	storage := NewRedisStorage(client, "limiter:")

	value, err := storage.Get("missing")
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, storage.Set("answers:user:1", []byte("3"), time.Minute))
	require.True(t, server.Exists("limiter:answers:user:1"))
	require.Equal(t, time.Minute, server.TTL("limiter:answers:user:1"))

	value, err = storage.Get("answers:user:1")
	require.NoError(t, err)
	require.Equal(t, []byte("3"), value)

	require.NoError(t, server.Set("other", "keep"))
	require.NoError(t, storage.Set("answers:user:2", []byte("1"), 0))
	require.NoError(t, storage.Reset())
	require.False(t, server.Exists("limiter:answers:user:1"))
	require.False(t, server.Exists("limiter:answers:user:2"))
	require.True(t, server.Exists("other"))

	require.NoError(t, storage.Set("k", []byte("v"), 0))
	require.NoError(t, storage.Delete("k"))
	require.False(t, server.Exists("limiter:k"))
	require.NoError(t, storage.Close())
}
