package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/repo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InterestService manages the per-spot interest registry.
type InterestService interface {
	// MarkInterested registers interest. Idempotent: repeated calls leave
	// exactly one visible record and the counter untouched.
	MarkInterested(ctx context.Context, spotID, userID uuid.UUID) error
	// RemoveInterest withdraws interest. Removing what is not there is a
	// no-op.
	RemoveInterest(ctx context.Context, spotID, userID uuid.UUID) error
	// ListInterested returns profiles of users visibly interested in the
	// spot, newest first.
	ListInterested(ctx context.Context, spotID uuid.UUID) ([]model.Profile, error)
	// HideMatched soft-hides a matched pair from the spot's interest listing.
	HideMatched(ctx context.Context, spotID uuid.UUID, userIDs []uuid.UUID) error
}

type interestService struct {
	interests repo.InterestRepo
	spots     repo.SpotRepo
	profiles  ProfileService
	log       *zap.Logger
}

func NewInterestService(interests repo.InterestRepo, spots repo.SpotRepo, profiles ProfileService, log *zap.Logger) InterestService {
	return &interestService{interests: interests, spots: spots, profiles: profiles, log: log}
}

func (s *interestService) MarkInterested(ctx context.Context, spotID, userID uuid.UUID) error {
	if _, err := s.spots.GetByID(ctx, spotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSpotNotFound
		}
		return err
	}

	count, err := s.interests.CountVisibleByUser(ctx, spotID, userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := s.interests.Create(ctx, &model.SpotInterest{
		SpotID: spotID,
		UserID: userID,
	}); err != nil {
		return err
	}
	return s.spots.IncrementInterested(ctx, spotID, 1)
}

func (s *interestService) RemoveInterest(ctx context.Context, spotID, userID uuid.UUID) error {
	removed, err := s.interests.DeleteByUser(ctx, spotID, userID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return nil
	}
	// Decrement by however many rows existed so historic duplicates do not
	// leave the counter drifting upward.
	return s.spots.IncrementInterested(ctx, spotID, -removed)
}

func (s *interestService) ListInterested(ctx context.Context, spotID uuid.UUID) ([]model.Profile, error) {
	records, err := s.interests.ListVisible(ctx, spotID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		userIDs = append(userIDs, rec.UserID)
	}
	return s.profiles.GetBatch(ctx, userIDs)
}

func (s *interestService) HideMatched(ctx context.Context, spotID uuid.UUID, userIDs []uuid.UUID) error {
	return s.interests.Hide(ctx, spotID, userIDs)
}
