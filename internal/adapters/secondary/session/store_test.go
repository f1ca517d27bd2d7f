package session

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session")
	store := NewFileStore(path)

	_, ok, err := store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write(ctx, "abc%22"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "user=abc%22\n", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	value, ok, err := store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc%22", value)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	_, ok, err = store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_ForeignContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte("# jar\nother=1\n"), 0o600))

	_, ok, err := NewFileStore(path).Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write(ctx, "v"))
	value, ok, err := store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, "cartdash:")
	assert.Equal(t, "cartdash:user", store.key)

	ctx := context.Background()
	_, _, err = store.Read(ctx)
	require.Error(t, err)
	require.Error(t, store.Write(ctx, "v"))
	require.Error(t, store.Clear(ctx))
}
