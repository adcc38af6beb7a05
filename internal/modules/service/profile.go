package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/config"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/repo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileService is the read-only profile lookup backing notification
// payloads and interested-user listings, with a redis read-through cache.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// GetBatch resolves profiles preserving input order; unknown ids are
	// skipped.
	GetBatch(ctx context.Context, userIDs []uuid.UUID) ([]model.Profile, error)
}

type profileService struct {
	users repo.UserRepo
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewProfileService(users repo.UserRepo, rdb *redis.Client, cfg *config.Config, log *zap.Logger) ProfileService {
	ttl := time.Duration(cfg.Redis.ProfileTTLSec) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &profileService{users: users, rdb: rdb, ttl: ttl, log: log}
}

func profileCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("profile:%s", userID)
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	if p := s.fromCache(ctx, userID); p != nil {
		return p, nil
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	p := u.Profile()
	s.toCache(ctx, p)
	return &p, nil
}

func (s *profileService) GetBatch(ctx context.Context, userIDs []uuid.UUID) ([]model.Profile, error) {
	out := make([]model.Profile, 0, len(userIDs))
	misses := make([]uuid.UUID, 0)
	cached := make(map[uuid.UUID]model.Profile)

	for _, id := range userIDs {
		if p := s.fromCache(ctx, id); p != nil {
			cached[id] = *p
		} else {
			misses = append(misses, id)
		}
	}

	if len(misses) > 0 {
		users, err := s.users.GetByIDs(ctx, misses)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			p := u.Profile()
			cached[u.ID] = p
			s.toCache(ctx, p)
		}
	}

	for _, id := range userIDs {
		if p, ok := cached[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *profileService) fromCache(ctx context.Context, userID uuid.UUID) *model.Profile {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, profileCacheKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Debug("profile cache read failed", zap.Error(err))
		}
		return nil
	}
	var p model.Profile
	if err := sonic.Unmarshal(raw, &p); err != nil {
		return nil
	}
	return &p
}

func (s *profileService) toCache(ctx context.Context, p model.Profile) {
	if s.rdb == nil {
		return
	}
	b, err := sonic.Marshal(p)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, profileCacheKey(p.ID), b, s.ttl).Err(); err != nil {
		s.log.Debug("profile cache write failed", zap.Error(err))
	}
}
