package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/naijj/ml-shelf/infrastructure/events"
)

// LikeStore is the persistence the like state machine talks to. Implemented by
// dao.LikeDAO.
type LikeStore interface {
	CountByModel(ctx context.Context, modelID uint) (int64, error)
	Exists(ctx context.Context, modelID uint, userID string) (bool, error)
	Create(ctx context.Context, modelID uint, userID string) error
	Delete(ctx context.Context, modelID uint, userID string) error
}

// LikeState is one model's like count plus the viewer's own flag.
type LikeState struct {
	Count int64 `json:"count"`
	Liked bool  `json:"liked"`
}

// LikeService tracks per-model like counts with optimistic toggles. Toggles
// are serialized per model, so two rapid toggles cannot leave the cached count
// out of step with the store: the second one waits for the first to settle.
// A failed write discards the optimistic value and re-reads the store.
type LikeService struct {
	store     LikeStore
	publisher *events.Publisher
	logger    *slog.Logger

	mu     sync.Mutex
	states map[uint]*modelLikeState
}

type modelLikeState struct {
	mu     sync.Mutex
	loaded bool
	count  int64
}

func NewLikeService(store LikeStore, publisher *events.Publisher) *LikeService {
	return &LikeService{
		store:     store,
		publisher: publisher,
		states:    make(map[uint]*modelLikeState),
		logger:    serviceLogger().With("component", "likes"),
	}
}

func (s *LikeService) state(modelID uint) *modelLikeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[modelID]
	if !ok {
		st = &modelLikeState{}
		s.states[modelID] = st
	}
	return st
}

// Load fetches the aggregate count and, for an authenticated viewer, whether a
// like row exists. Unauthenticated viewers always read as "not liked".
func (s *LikeService) Load(ctx context.Context, modelID uint, viewerID string) (LikeState, error) {
	st := s.state(modelID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.loadLocked(ctx, st, modelID, viewerID)
}

func (s *LikeService) loadLocked(ctx context.Context, st *modelLikeState, modelID uint, viewerID string) (LikeState, error) {
	count, err := s.store.CountByModel(ctx, modelID)
	if err != nil {
		return LikeState{}, fmt.Errorf("load like count failed: %w", err)
	}

	liked := false
	if strings.TrimSpace(viewerID) != "" {
		liked, err = s.store.Exists(ctx, modelID, viewerID)
		if err != nil {
			return LikeState{}, fmt.Errorf("load like status failed: %w", err)
		}
	}

	st.count = count
	st.loaded = true
	return LikeState{Count: count, Liked: liked}, nil
}

// Toggle flips the viewer's like. The cached count moves optimistically before
// the write; when the write fails the optimistic value is dropped and the
// state is resynchronized from the store.
func (s *LikeService) Toggle(ctx context.Context, modelID uint, viewerID string) (LikeState, error) {
	if strings.TrimSpace(viewerID) == "" {
		return LikeState{}, ErrNotAuthenticated
	}

	st := s.state(modelID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.loaded {
		if _, err := s.loadLocked(ctx, st, modelID, viewerID); err != nil {
			return LikeState{}, err
		}
	}

	liked, err := s.store.Exists(ctx, modelID, viewerID)
	if err != nil {
		return LikeState{}, fmt.Errorf("check like status failed: %w", err)
	}

	var optimistic LikeState
	var writeErr error
	if liked {
		optimistic = LikeState{Count: maxInt64(0, st.count-1), Liked: false}
		writeErr = s.store.Delete(ctx, modelID, viewerID)
	} else {
		optimistic = LikeState{Count: st.count + 1, Liked: true}
		writeErr = s.store.Create(ctx, modelID, viewerID)
	}

	if writeErr != nil {
		s.logger.Warn("like toggle write failed, resyncing",
			"model_id", modelID, "error", writeErr)
		synced, loadErr := s.loadLocked(ctx, st, modelID, viewerID)
		if loadErr != nil {
			// Store unreachable for the corrective read too; report the
			// original failure with the cache untouched.
			return LikeState{Count: st.count, Liked: liked}, writeErr
		}
		return synced, writeErr
	}

	st.count = optimistic.Count

	s.publisher.Publish(ctx, fmt.Sprintf("model-%d", modelID), events.NewEvent(events.ModelLikeToggled, map[string]interface{}{
		"model_id": modelID,
		"user_id":  viewerID,
		"liked":    optimistic.Liked,
	}))

	return optimistic, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
