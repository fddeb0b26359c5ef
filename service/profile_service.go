package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/naijj/ml-shelf/entity"
)

// ProfileSource resolves a user id to the profile the auth gateway holds for
// it.
type ProfileSource interface {
	FetchProfile(ctx context.Context, userID string) (*entity.UserProfile, error)
}

const (
	profileCacheSize = 512
	profileCacheTTL  = 5 * time.Minute
)

// ProfileService is a read-through cache over a ProfileSource. The cache is
// bounded in size and entries expire, so a stale profile never outlives the
// TTL; Invalidate drops an entry early when a session changes.
type ProfileService struct {
	source ProfileSource
	cache  *expirable.LRU[string, entity.UserProfile]
	logger *slog.Logger
}

func NewProfileService(source ProfileSource) *ProfileService {
	return &ProfileService{
		source: source,
		cache:  expirable.NewLRU[string, entity.UserProfile](profileCacheSize, nil, profileCacheTTL),
		logger: serviceLogger().With("component", "profiles"),
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is empty")
	}

	if profile, ok := s.cache.Get(userID); ok {
		return &profile, nil
	}

	profile, err := s.source.FetchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Add(userID, *profile)
	return profile, nil
}

// Invalidate drops the cached profile for one user.
func (s *ProfileService) Invalidate(userID string) {
	s.cache.Remove(strings.TrimSpace(userID))
}

// InvalidateAll clears the cache, e.g. when the session context changes.
func (s *ProfileService) InvalidateAll() {
	s.cache.Purge()
}
