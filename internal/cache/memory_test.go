package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMemory(60*time.Second, clock)
	ctx := context.Background()

	_, ok := m.Get(ctx, "news:1")
	assert.False(t, ok)

	m.Set(ctx, "news:1", []byte(`{"id":1}`))
	val, ok := m.Get(ctx, "news:1")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"id":1}`), val)
}

func TestMemoryExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMemory(60*time.Second, clock)
	ctx := context.Background()

	m.Set(ctx, "project:7", []byte(`{"id":7}`))

	clock.Advance(59 * time.Second)
	_, ok := m.Get(ctx, "project:7")
	assert.True(t, ok, "entry younger than TTL must hit")

	clock.Advance(2 * time.Second)
	_, ok = m.Get(ctx, "project:7")
	assert.False(t, ok, "entry older than TTL must miss")
}

func TestMemorySetResetsTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMemory(60*time.Second, clock)
	ctx := context.Background()

	m.Set(ctx, "news:3", []byte(`v1`))
	clock.Advance(50 * time.Second)
	m.Set(ctx, "news:3", []byte(`v2`))
	clock.Advance(50 * time.Second)

	val, ok := m.Get(ctx, "news:3")
	require.True(t, ok, "refreshed entry must survive past the original deadline")
	assert.Equal(t, []byte(`v2`), val)
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMemory(60*time.Second, clock)
	ctx := context.Background()

	m.Set(ctx, "news:5", []byte(`x`))
	m.Delete(ctx, "news:5")
	_, ok := m.Get(ctx, "news:5")
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	m.Delete(ctx, "news:5")
	_, ok = m.Get(ctx, "news:5")
	assert.False(t, ok)
}

func TestMemoryEvictExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMemory(60*time.Second, clock)
	ctx := context.Background()

	m.Set(ctx, "news:1", []byte(`a`))
	m.Set(ctx, "news:2", []byte(`b`))
	clock.Advance(61 * time.Second)
	m.Set(ctx, "news:3", []byte(`c`))

	evicted := m.EvictExpired()
	assert.Equal(t, 2, evicted)
	assert.Equal(t, 1, m.Size())

	_, ok := m.Get(ctx, "news:3")
	assert.True(t, ok)
}

func TestMemorySweeper(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMemory(60*time.Second, clock)
	ctx := context.Background()

	stop := m.StartSweeper(120 * time.Second)
	defer stop()

	m.Set(ctx, "news:1", []byte(`a`))
	clock.Advance(121 * time.Second)

	assert.Eventually(t, func() bool { return m.Size() == 0 },
		time.Second, 5*time.Millisecond, "sweeper should reclaim expired entries")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "news:42", NewsKey(42))
	assert.Equal(t, "project:7", ProjectKey(7))
}
