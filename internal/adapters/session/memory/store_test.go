package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
)

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	user, err := domain.NewUser("Ana", "ana@example.com", "secret123")
	require.NoError(t, err)

	_, found, err := store.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, user.ID, user, time.Minute))

	got, found, err := store.Get(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, user.Email, got.Email)
	assert.Empty(t, got.HashedPassword)

	got.Name = "mutated"
	again, _, _ := store.Get(ctx, user.ID)
	assert.Equal(t, "Ana", again.Name)

	require.NoError(t, store.Delete(ctx, user.ID))
	_, found, err = store.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore().WithClock(func() time.Time { return now })

	user, err := domain.NewUser("Ana", "ana@example.com", "")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, user.ID, user, 10*time.Second))
	assert.Equal(t, 10*time.Second, store.TTL(user.ID))

	now = now.Add(9 * time.Second)
	_, found, _ := store.Get(ctx, user.ID)
	assert.True(t, found)

	// a second Put slides the expiry
	require.NoError(t, store.Put(ctx, user.ID, user, 10*time.Second))
	now = now.Add(9 * time.Second)
	_, found, _ = store.Get(ctx, user.ID)
	assert.True(t, found)

	now = now.Add(time.Second)
	_, found, _ = store.Get(ctx, user.ID)
	assert.False(t, found)
	assert.Zero(t, store.TTL(user.ID))
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore().WithClock(func() time.Time { return now })

	user, err := domain.NewUser("Ana", "ana@example.com", "")
	require.NoError(t, err)

	replaced, err := store.Replace(ctx, user.ID, user)
	require.NoError(t, err)
	assert.False(t, replaced)
	_, found, _ := store.Get(ctx, user.ID)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, user.ID, user, 10*time.Second))
	now = now.Add(4 * time.Second)

	renamed := user.Snapshot()
	renamed.Name = "Ana Maria"
	replaced, err = store.Replace(ctx, user.ID, renamed)
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, 6*time.Second, store.TTL(user.ID))

	got, found, _ := store.Get(ctx, user.ID)
	require.True(t, found)
	assert.Equal(t, "Ana Maria", got.Name)

	now = now.Add(6 * time.Second)
	replaced, err = store.Replace(ctx, user.ID, renamed)
	require.NoError(t, err)
	assert.False(t, replaced)
	_, found, _ = store.Get(ctx, user.ID)
	assert.False(t, found)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	user, err := domain.NewUser("Ana", "ana@example.com", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Put(ctx, user.ID, user, time.Minute)
			_, _, _ = store.Get(ctx, user.ID)
			_ = store.Delete(ctx, user.ID)
		}()
	}
	wg.Wait()
}
