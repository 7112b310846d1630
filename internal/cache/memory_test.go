package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var got map[string]int
	ok, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, got["a"])

	now = now.Add(2 * time.Minute)
	ok, err = m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "a", 1, time.Hour))
	require.NoError(t, m.Set(ctx, "b", 2, time.Hour))
	require.NoError(t, m.Delete(ctx, "a", "missing"))

	var v int
	ok, _ := m.Get(ctx, "a", &v)
	assert.False(t, ok)
	ok, _ = m.Get(ctx, "b", &v)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
