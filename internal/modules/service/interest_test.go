package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestInterestService_MarkInterested(t *testing.T) {
	spotID := uuid.New()
	userID := uuid.New()
	ctx := context.Background()

	t.Run("first interest creates a record and increments the counter", func(t *testing.T) {
		interests := new(MockInterestRepo)
		spots := new(MockSpotRepo)
		spots.On("GetByID", mock.Anything, spotID).Return(&model.Spot{ID: spotID}, nil)
		interests.On("CountVisibleByUser", mock.Anything, spotID, userID).Return(int64(0), nil)
		interests.On("Create", mock.Anything, mock.MatchedBy(func(in *model.SpotInterest) bool {
			return in.SpotID == spotID && in.UserID == userID
		})).Return(nil)
		spots.On("IncrementInterested", mock.Anything, spotID, int64(1)).Return(nil)

		svc := NewInterestService(interests, spots, nil, zap.NewNop())
		require.NoError(t, svc.MarkInterested(ctx, spotID, userID))

		interests.AssertExpectations(t)
		spots.AssertExpectations(t)
	})

	t.Run("repeated interest is a no-op", func(t *testing.T) {
		interests := new(MockInterestRepo)
		spots := new(MockSpotRepo)
		spots.On("GetByID", mock.Anything, spotID).Return(&model.Spot{ID: spotID}, nil)
		interests.On("CountVisibleByUser", mock.Anything, spotID, userID).Return(int64(1), nil)

		svc := NewInterestService(interests, spots, nil, zap.NewNop())
		require.NoError(t, svc.MarkInterested(ctx, spotID, userID))

		interests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		spots.AssertNotCalled(t, "IncrementInterested", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown spot", func(t *testing.T) {
		interests := new(MockInterestRepo)
		spots := new(MockSpotRepo)
		spots.On("GetByID", mock.Anything, spotID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewInterestService(interests, spots, nil, zap.NewNop())
		assert.ErrorIs(t, svc.MarkInterested(ctx, spotID, userID), ErrSpotNotFound)
	})
}

func TestInterestService_RemoveInterest(t *testing.T) {
	spotID := uuid.New()
	userID := uuid.New()
	ctx := context.Background()

	t.Run("decrements by however many rows were removed", func(t *testing.T) {
		interests := new(MockInterestRepo)
		spots := new(MockSpotRepo)
		interests.On("DeleteByUser", mock.Anything, spotID, userID).Return(int64(2), nil)
		spots.On("IncrementInterested", mock.Anything, spotID, int64(-2)).Return(nil)

		svc := NewInterestService(interests, spots, nil, zap.NewNop())
		require.NoError(t, svc.RemoveInterest(ctx, spotID, userID))

		spots.AssertExpectations(t)
	})

	t.Run("removing absent interest is a no-op", func(t *testing.T) {
		interests := new(MockInterestRepo)
		spots := new(MockSpotRepo)
		interests.On("DeleteByUser", mock.Anything, spotID, userID).Return(int64(0), nil)

		svc := NewInterestService(interests, spots, nil, zap.NewNop())
		require.NoError(t, svc.RemoveInterest(ctx, spotID, userID))

		spots.AssertNotCalled(t, "IncrementInterested", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInterestService_ListInterested(t *testing.T) {
	spotID := uuid.New()
	u1 := uuid.New()
	u2 := uuid.New()
	ctx := context.Background()

	interests := new(MockInterestRepo)
	profiles := new(MockProfileService)
	interests.On("ListVisible", mock.Anything, spotID).Return([]model.SpotInterest{
		{SpotID: spotID, UserID: u1},
		{SpotID: spotID, UserID: u2},
	}, nil)
	profiles.On("GetBatch", mock.Anything, []uuid.UUID{u1, u2}).Return([]model.Profile{
		{ID: u1, DisplayName: "Ada"},
		{ID: u2, DisplayName: "Grace"},
	}, nil)

	svc := NewInterestService(interests, new(MockSpotRepo), profiles, zap.NewNop())
	out, err := svc.ListInterested(ctx, spotID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ada", out[0].DisplayName)
	assert.Equal(t, "Grace", out[1].DisplayName)
}
