package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	spotCoord = geo.Coordinate{Latitude: 37.7749, Longitude: -122.4194}
	nearCoord = geo.Coordinate{Latitude: 37.7749 + 0.00045, Longitude: -122.4194} // ~50m
	farCoord  = geo.Coordinate{Latitude: 37.8749, Longitude: -122.4194}           // ~11km
)

func checkingSession(sessionID, u1, u2 uuid.UUID, checkIns map[string]model.CheckInEntry) *model.MeetupSession {
	return &model.MeetupSession{
		ID:            sessionID,
		SpotID:        uuid.New(),
		InviteID:      uuid.New(),
		SpotLatitude:  spotCoord.Latitude,
		SpotLongitude: spotCoord.Longitude,
		Participants:  datatypes.NewJSONSlice([]uuid.UUID{u1, u2}),
		Status:        model.SessionStatusCheckingProximity,
		CheckInData:   datatypes.NewJSONType(checkIns),
	}
}

func TestProximityService_ReportLocation(t *testing.T) {
	sessionID := uuid.New()
	u1 := uuid.New()
	u2 := uuid.New()
	ctx := context.Background()

	t.Run("missing session", func(t *testing.T) {
		sessions := new(MockMeetupSessionRepo)
		sessions.On("GetByID", mock.Anything, sessionID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewProximityService(sessions, new(MockRewardService), zap.NewNop())
		_, err := svc.ReportLocation(ctx, sessionID, u1, nearCoord)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("non-participant gets the same not-found answer", func(t *testing.T) {
		sessions := new(MockMeetupSessionRepo)
		sessions.On("GetByID", mock.Anything, sessionID).
			Return(checkingSession(sessionID, u1, u2, nil), nil)

		svc := NewProximityService(sessions, new(MockRewardService), zap.NewNop())
		_, err := svc.ReportLocation(ctx, sessionID, uuid.New(), nearCoord)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("inside the radius without the other participant stays in progress", func(t *testing.T) {
		sess := checkingSession(sessionID, u1, u2, map[string]model.CheckInEntry{})
		merged := checkingSession(sessionID, u1, u2, map[string]model.CheckInEntry{
			u1.String(): {IsWithinRadius: true},
		})

		sessions := new(MockMeetupSessionRepo)
		rewards := new(MockRewardService)
		sessions.On("GetByID", mock.Anything, sessionID).Return(sess, nil).Once()
		sessions.On("StartProximityCheck", mock.Anything, sessionID).Return(nil)
		sessions.On("SetCheckIn", mock.Anything, sessionID, u1, mock.MatchedBy(func(e model.CheckInEntry) bool {
			return e.IsWithinRadius && e.CheckInTime != nil && e.Location != nil
		})).Return(nil)
		sessions.On("GetByID", mock.Anything, sessionID).Return(merged, nil).Once()

		svc := NewProximityService(sessions, rewards, zap.NewNop())
		out, err := svc.ReportLocation(ctx, sessionID, u1, nearCoord)
		require.NoError(t, err)
		assert.True(t, out.WithinRadius)
		assert.False(t, out.AllWithinRadius)
		assert.InDelta(t, 50.0, out.DistanceMeters, 1.0)
		rewards.AssertNotCalled(t, "IssueCompletionReward", mock.Anything, mock.Anything)
	})

	t.Run("full containment completes and issues the reward", func(t *testing.T) {
		sess := checkingSession(sessionID, u1, u2, map[string]model.CheckInEntry{
			u1.String(): {IsWithinRadius: true},
		})
		merged := checkingSession(sessionID, u1, u2, map[string]model.CheckInEntry{
			u1.String(): {IsWithinRadius: true},
			u2.String(): {IsWithinRadius: true},
		})
		completed := checkingSession(sessionID, u1, u2, merged.CheckInData.Data())
		completed.Status = model.SessionStatusCompleted

		sessions := new(MockMeetupSessionRepo)
		rewards := new(MockRewardService)
		sessions.On("GetByID", mock.Anything, sessionID).Return(sess, nil).Once()
		sessions.On("StartProximityCheck", mock.Anything, sessionID).Return(nil)
		sessions.On("SetCheckIn", mock.Anything, sessionID, u2, mock.Anything).Return(nil)
		sessions.On("GetByID", mock.Anything, sessionID).Return(merged, nil).Once()
		rewards.On("IssueCompletionReward", mock.Anything, merged).Return(nil)
		sessions.On("GetByID", mock.Anything, sessionID).Return(completed, nil).Once()

		svc := NewProximityService(sessions, rewards, zap.NewNop())
		out, err := svc.ReportLocation(ctx, sessionID, u2, nearCoord)
		require.NoError(t, err)
		assert.True(t, out.AllWithinRadius)
		assert.Equal(t, model.SessionStatusCompleted, out.Session.Status)
		rewards.AssertExpectations(t)
	})

	t.Run("losing the completion race is not an error", func(t *testing.T) {
		merged := checkingSession(sessionID, u1, u2, map[string]model.CheckInEntry{
			u1.String(): {IsWithinRadius: true},
			u2.String(): {IsWithinRadius: true},
		})

		sessions := new(MockMeetupSessionRepo)
		rewards := new(MockRewardService)
		sessions.On("GetByID", mock.Anything, sessionID).Return(merged, nil)
		sessions.On("StartProximityCheck", mock.Anything, sessionID).Return(nil)
		sessions.On("SetCheckIn", mock.Anything, sessionID, u2, mock.Anything).Return(nil)
		rewards.On("IssueCompletionReward", mock.Anything, merged).Return(ErrAlreadyCompleted)

		svc := NewProximityService(sessions, rewards, zap.NewNop())
		out, err := svc.ReportLocation(ctx, sessionID, u2, nearCoord)
		require.NoError(t, err)
		assert.True(t, out.AllWithinRadius)
	})

	t.Run("outside the radius keeps the earlier check-in time", func(t *testing.T) {
		earlier := time.Now().Add(-5 * time.Minute)
		sess := checkingSession(sessionID, u1, u2, map[string]model.CheckInEntry{
			u1.String(): {IsWithinRadius: true, CheckInTime: &earlier},
		})
		merged := checkingSession(sessionID, u1, u2, map[string]model.CheckInEntry{
			u1.String(): {IsWithinRadius: false, CheckInTime: &earlier},
		})

		sessions := new(MockMeetupSessionRepo)
		rewards := new(MockRewardService)
		sessions.On("GetByID", mock.Anything, sessionID).Return(sess, nil).Once()
		sessions.On("StartProximityCheck", mock.Anything, sessionID).Return(nil)
		sessions.On("SetCheckIn", mock.Anything, sessionID, u1, mock.MatchedBy(func(e model.CheckInEntry) bool {
			return !e.IsWithinRadius && e.CheckInTime != nil && e.CheckInTime.Equal(earlier)
		})).Return(nil)
		sessions.On("GetByID", mock.Anything, sessionID).Return(merged, nil).Once()

		svc := NewProximityService(sessions, rewards, zap.NewNop())
		out, err := svc.ReportLocation(ctx, sessionID, u1, farCoord)
		require.NoError(t, err)
		assert.False(t, out.WithinRadius)
		assert.False(t, out.AllWithinRadius)
		rewards.AssertNotCalled(t, "IssueCompletionReward", mock.Anything, mock.Anything)
	})

	t.Run("report on a completed session is a read", func(t *testing.T) {
		sess := checkingSession(sessionID, u1, u2, map[string]model.CheckInEntry{
			u1.String(): {IsWithinRadius: true},
			u2.String(): {IsWithinRadius: true},
		})
		sess.Status = model.SessionStatusCompleted

		sessions := new(MockMeetupSessionRepo)
		sessions.On("GetByID", mock.Anything, sessionID).Return(sess, nil)

		svc := NewProximityService(sessions, new(MockRewardService), zap.NewNop())
		out, err := svc.ReportLocation(ctx, sessionID, u1, nearCoord)
		require.NoError(t, err)
		assert.True(t, out.AllWithinRadius)
		sessions.AssertNotCalled(t, "SetCheckIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProximityService_GetActiveSession(t *testing.T) {
	userID := uuid.New()
	spotID := uuid.New()
	ctx := context.Background()

	t.Run("maps missing row to not found", func(t *testing.T) {
		sessions := new(MockMeetupSessionRepo)
		sessions.On("GetActiveForUser", mock.Anything, userID, spotID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewProximityService(sessions, new(MockRewardService), zap.NewNop())
		_, err := svc.GetActiveSession(ctx, userID, spotID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}
