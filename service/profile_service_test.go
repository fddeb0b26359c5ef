package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naijj/ml-shelf/entity"
)

type fakeProfileSource struct {
	profiles map[string]entity.UserProfile
	fetches  int
	err      error
}

func (f *fakeProfileSource) FetchProfile(_ context.Context, userID string) (*entity.UserProfile, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &profile, nil
}

func TestProfileServiceCachesLookups(t *testing.T) {
	source := &fakeProfileSource{profiles: map[string]entity.UserProfile{
		"u1": {ID: "u1", Email: "u1@example.com", FullName: "User One"},
	}}
	svc := NewProfileService(source)

	first, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", first.Email)

	second, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)
	assert.Equal(t, 1, source.fetches, "second lookup served from cache")
}

func TestProfileServiceInvalidate(t *testing.T) {
	source := &fakeProfileSource{profiles: map[string]entity.UserProfile{
		"u1": {ID: "u1", Email: "u1@example.com"},
	}}
	svc := NewProfileService(source)

	_, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)

	svc.Invalidate("u1")

	_, err = svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, source.fetches, "invalidation forces a refetch")
}

func TestProfileServiceMissingUser(t *testing.T) {
	svc := NewProfileService(&fakeProfileSource{profiles: map[string]entity.UserProfile{}})

	_, err := svc.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.GetProfile(context.Background(), "   ")
	assert.Error(t, err)
}

func TestProfileServiceSourceErrorNotCached(t *testing.T) {
	source := &fakeProfileSource{err: errors.New("gateway down")}
	svc := NewProfileService(source)

	_, err := svc.GetProfile(context.Background(), "u1")
	require.Error(t, err)

	source.err = nil
	source.profiles = map[string]entity.UserProfile{"u1": {ID: "u1", Email: "u1@example.com"}}
	profile, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", profile.Email)
}
