package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLikeStore struct {
	mu    sync.Mutex
	likes map[string]bool

	countOverride *int64
	countErr      error
	existsErr     error
	createErr     error
	deleteErr     error
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: make(map[string]bool)}
}

func likeKey(modelID uint, userID string) string {
	return fmt.Sprintf("%d|%s", modelID, userID)
}

func (f *fakeLikeStore) CountByModel(_ context.Context, modelID uint) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	if f.countOverride != nil {
		return *f.countOverride, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	prefix := fmt.Sprintf("%d|", modelID)
	for key, liked := range f.likes {
		if liked && len(key) > len(prefix) && key[:len(prefix)] == prefix {
			count++
		}
	}
	return count, nil
}

func (f *fakeLikeStore) Exists(_ context.Context, modelID uint, userID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likes[likeKey(modelID, userID)], nil
}

func (f *fakeLikeStore) Create(_ context.Context, modelID uint, userID string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes[likeKey(modelID, userID)] = true
	return nil
}

func (f *fakeLikeStore) Delete(_ context.Context, modelID uint, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.likes, likeKey(modelID, userID))
	return nil
}

func TestLikeLoadUnauthenticatedViewer(t *testing.T) {
	store := newFakeLikeStore()
	require.NoError(t, store.Create(context.Background(), 1, "someone"))
	svc := NewLikeService(store, nil)

	state, err := svc.Load(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.Count, "count is public")
	assert.False(t, state.Liked, "anonymous viewers are never liked")
}

func TestLikeToggleRequiresAuth(t *testing.T) {
	svc := NewLikeService(newFakeLikeStore(), nil)

	_, err := svc.Toggle(context.Background(), 1, "  ")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestLikeToggleOnAndOff(t *testing.T) {
	store := newFakeLikeStore()
	svc := NewLikeService(store, nil)

	state, err := svc.Toggle(context.Background(), 1, "alice")
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.Equal(t, int64(1), state.Count)

	liked, _ := store.Exists(context.Background(), 1, "alice")
	assert.True(t, liked, "like row created")

	state, err = svc.Toggle(context.Background(), 1, "alice")
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, int64(0), state.Count)

	liked, _ = store.Exists(context.Background(), 1, "alice")
	assert.False(t, liked, "like row removed")
}

func TestLikeToggleFailureResyncsFromStore(t *testing.T) {
	store := newFakeLikeStore()
	require.NoError(t, store.Create(context.Background(), 1, "bob"))
	svc := NewLikeService(store, nil)

	// Warm the cached state.
	state, err := svc.Load(context.Background(), 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.Count)

	store.createErr = fmt.Errorf("gateway rejected the write")
	state, err = svc.Toggle(context.Background(), 1, "alice")
	require.Error(t, err)

	// Optimistic +1 was discarded; the returned state is the store's truth.
	assert.Equal(t, int64(1), state.Count)
	assert.False(t, state.Liked)

	// A later load still agrees with the store.
	store.createErr = nil
	state, err = svc.Load(context.Background(), 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.Count)
	assert.False(t, state.Liked)
}

func TestLikeToggleCountFloorsAtZero(t *testing.T) {
	store := newFakeLikeStore()
	require.NoError(t, store.Create(context.Background(), 1, "alice"))
	zero := int64(0)
	store.countOverride = &zero // count lags behind the like row

	svc := NewLikeService(store, nil)
	state, err := svc.Toggle(context.Background(), 1, "alice")
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, int64(0), state.Count, "count never goes negative")
}

func TestLikeTogglesSerializePerModel(t *testing.T) {
	store := newFakeLikeStore()
	svc := NewLikeService(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Toggle(context.Background(), 1, "alice")
		}()
	}
	wg.Wait()

	// After an even number of toggles the viewer is back to not-liked and the
	// cached count matches the store.
	state, err := svc.Load(context.Background(), 1, "alice")
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, int64(0), state.Count)
}
