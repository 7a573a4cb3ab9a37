package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := newClient(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClient_SetGet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "reader:https://example.com", []byte(`{"a":1}`), time.Hour))

	got, err := client.Get(ctx, "reader:https://example.com")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestClient_Overwrite(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", []byte("one"), time.Hour))
	require.NoError(t, client.Set(ctx, "k", []byte("two"), time.Hour))

	got, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}

func TestClient_Expiry(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	require.NoError(t, client.Set(ctx, "short", []byte("v"), time.Minute))
	require.NoError(t, client.Set(ctx, "forever", []byte("v"), 0))

	now = now.Add(2 * time.Minute)

	_, err := client.Get(ctx, "short")
	assert.True(t, errors.Is(err, ErrCacheMiss))

	_, err = client.Get(ctx, "forever")
	assert.NoError(t, err)

	removed, err := client.purgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestClient_Delete(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, client.Delete(ctx, "k"))
	require.NoError(t, client.Delete(ctx, "k"))

	_, err := client.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestClient_Clear(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "a", []byte("v"), time.Hour))
	require.NoError(t, client.Set(ctx, "b", []byte("v"), time.Hour))
	require.NoError(t, client.Clear(ctx))

	_, err := client.Get(ctx, "a")
	assert.Error(t, err)
}

func TestClient_Validation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
	}{
		{"empty key get", func() error { _, err := client.Get(ctx, ""); return err }()},
		{"empty key set", client.Set(ctx, "", []byte("v"), time.Hour)},
		{"empty value", client.Set(ctx, "k", nil, time.Hour)},
		{"negative ttl", client.Set(ctx, "k", []byte("v"), -time.Second)},
		{"long key", client.Set(ctx, strings.Repeat("k", maxKeyLength+1), []byte("v"), time.Hour)},
		{"empty key delete", client.Delete(ctx, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.err)
		})
	}
}

func TestClient_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	first, err := newClient(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", []byte("kept"), 0))
	require.NoError(t, first.Close())

	second, err := newClient(path, time.Hour)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}
