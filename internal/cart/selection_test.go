package cart

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryBackend struct {
	values map[string]string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{values: map[string]string{}}
}

func (m *memoryBackend) Get(_ context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (m *memoryBackend) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	return nil
}

func (m *memoryBackend) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = "1"
	return true, nil
}

func (m *memoryBackend) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.values[key]
	return ok, nil
}

func (m *memoryBackend) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryBackend) CartSelectionKey(userID string) string { return "sel:" + userID }
func (m *memoryBackend) CartLineLockKey(lineID string) string  { return "lock:" + lineID }

func TestSelectionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSelectionStore(newMemoryBackend())

	checked, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, checked)

	require.NoError(t, store.Save(ctx, "u1", map[string]bool{"a": true, "b": false}))

	checked, err = store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"a": true, "b": false}, checked)

	require.NoError(t, store.Clear(ctx, "u1"))
	checked, err = store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, checked)
}

func TestLineLockPreventsConcurrentMutation(t *testing.T) {
	ctx := context.Background()
	store := NewSelectionStore(newMemoryBackend())

	ok, err := store.AcquireLineLock(ctx, "line-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.AcquireLineLock(ctx, "line-1")
	require.NoError(t, err)
	require.False(t, ok)

	locked, err := store.IsLineLocked(ctx, "line-1")
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, store.ReleaseLineLock(ctx, "line-1"))
	ok, err = store.AcquireLineLock(ctx, "line-1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMergeSelections(t *testing.T) {
	previous := map[string]bool{"a": true, "b": false, "gone": true}

	merged := MergeSelections(previous, []string{"a", "b", "c"}, "")
	require.Equal(t, map[string]bool{"a": true, "b": false, "c": false}, merged)

	// A new line matching the buy-now hint arrives pre-checked.
	merged = MergeSelections(previous, []string{"a", "c"}, "c")
	require.Equal(t, map[string]bool{"a": true, "c": true}, merged)

	// The hint never overrides an existing flag.
	merged = MergeSelections(map[string]bool{"c": false}, []string{"c"}, "c")
	require.Equal(t, map[string]bool{"c": false}, merged)
}

func TestToggleAllIsPureToggle(t *testing.T) {
	start := map[string]bool{"a": true, "b": false}

	once := ToggleAll(start)
	require.Equal(t, map[string]bool{"a": true, "b": true}, once)

	twice := ToggleAll(once)
	require.Equal(t, map[string]bool{"a": false, "b": false}, twice)

	thrice := ToggleAll(twice)
	require.Equal(t, map[string]bool{"a": true, "b": true}, thrice)

	require.Empty(t, ToggleAll(map[string]bool{}))
}
