package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/naijj/ml-shelf/config"
	"github.com/naijj/ml-shelf/entity"
)

// The auth gateway maintains these keys; this side only reads them.
const (
	sessionKeyPrefix    = "session:"
	userProfilesHashKey = "user-profiles"
)

var (
	ErrRedisNotInitialized  = errors.New("redis client is not initialized")
	ErrSessionTokenRequired = errors.New("session token is required")
	ErrSessionNotFound      = errors.New("session not found")
	ErrProfileNotFound      = errors.New("user profile not found")
)

// Session is the authenticated caller attached to a request.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// GetSessionByToken resolves a bearer token to the session record the gateway
// stored for it.
func GetSessionByToken(ctx context.Context, token string) (Session, error) {
	if config.RedisClient == nil {
		return Session{}, ErrRedisNotInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Session{}, ErrSessionTokenRequired
	}

	raw, err := config.RedisClient.Get(ctx, sessionKeyPrefix+trimmed).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("get session failed: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return Session{}, fmt.Errorf("parse session failed: %w", err)
	}
	if strings.TrimSpace(session.UserID) == "" {
		return Session{}, ErrSessionNotFound
	}

	return session, nil
}

// RedisProfileSource reads gateway-maintained user profiles from a redis hash.
type RedisProfileSource struct{}

func (RedisProfileSource) FetchProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	if config.RedisClient == nil {
		return nil, ErrRedisNotInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}

	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return nil, ErrProfileNotFound
	}

	raw, err := config.RedisClient.HGet(ctx, userProfilesHashKey, trimmed).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("hget %s failed (key=%s): %w", userProfilesHashKey, trimmed, err)
	}

	payload := strings.TrimSpace(raw)
	if payload == "" {
		return nil, ErrProfileNotFound
	}

	var profile entity.UserProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, fmt.Errorf("parse user profile failed (key=%s): %w", trimmed, err)
	}
	profile.ID = trimmed

	return &profile, nil
}
