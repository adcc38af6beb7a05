package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/stretchr/testify/mock"
)

type MockInviteRepo struct {
	mock.Mock
}

func (m *MockInviteRepo) CreateIdempotent(ctx context.Context, inv *model.Invite) (*model.Invite, bool, error) {
	args := m.Called(ctx, inv)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Invite), args.Bool(1), args.Error(2)
}

func (m *MockInviteRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Invite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invite), args.Error(1)
}

func (m *MockInviteRepo) Accept(ctx context.Context, id uuid.UUID, chatRoomID string) (bool, error) {
	args := m.Called(ctx, id, chatRoomID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInviteRepo) Decline(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockInviteRepo) DeletePending(ctx context.Context, id, senderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, id, senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInviteRepo) SetConfirmed(ctx context.Context, id uuid.UUID, sender bool) error {
	args := m.Called(ctx, id, sender)
	return args.Error(0)
}

func (m *MockInviteRepo) Promote(ctx context.Context, id uuid.UUID, confirmedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, confirmedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockInviteRepo) Complete(ctx context.Context, id uuid.UUID, meetupTime time.Time) error {
	args := m.Called(ctx, id, meetupTime)
	return args.Error(0)
}

func (m *MockInviteRepo) MarkExpired(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockInviteRepo) ListPendingForReceiver(ctx context.Context, receiverID uuid.UUID) ([]model.Invite, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invite), args.Error(1)
}

func (m *MockInviteRepo) ListAcceptedForUser(ctx context.Context, userID uuid.UUID) ([]model.Invite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invite), args.Error(1)
}

type MockSpotRepo struct {
	mock.Mock
}

func (m *MockSpotRepo) Create(ctx context.Context, s *model.Spot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSpotRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Spot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Spot), args.Error(1)
}

func (m *MockSpotRepo) ListActive(ctx context.Context) ([]model.Spot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Spot), args.Error(1)
}

func (m *MockSpotRepo) IncrementInterested(ctx context.Context, spotID uuid.UUID, delta int64) error {
	args := m.Called(ctx, spotID, delta)
	return args.Error(0)
}

type MockInterestRepo struct {
	mock.Mock
}

func (m *MockInterestRepo) Create(ctx context.Context, in *model.SpotInterest) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockInterestRepo) ListVisible(ctx context.Context, spotID uuid.UUID) ([]model.SpotInterest, error) {
	args := m.Called(ctx, spotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SpotInterest), args.Error(1)
}

func (m *MockInterestRepo) CountVisibleByUser(ctx context.Context, spotID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, spotID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInterestRepo) DeleteByUser(ctx context.Context, spotID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, spotID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInterestRepo) Hide(ctx context.Context, spotID uuid.UUID, userIDs []uuid.UUID) error {
	args := m.Called(ctx, spotID, userIDs)
	return args.Error(0)
}

type MockMeetupSessionRepo struct {
	mock.Mock
}

func (m *MockMeetupSessionRepo) EnsureForInvite(ctx context.Context, s *model.MeetupSession) (*model.MeetupSession, bool, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.MeetupSession), args.Bool(1), args.Error(2)
}

func (m *MockMeetupSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.MeetupSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MeetupSession), args.Error(1)
}

func (m *MockMeetupSessionRepo) GetActiveForUser(ctx context.Context, userID, spotID uuid.UUID) (*model.MeetupSession, error) {
	args := m.Called(ctx, userID, spotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MeetupSession), args.Error(1)
}

func (m *MockMeetupSessionRepo) SetCheckIn(ctx context.Context, sessionID, userID uuid.UUID, entry model.CheckInEntry) error {
	args := m.Called(ctx, sessionID, userID, entry)
	return args.Error(0)
}

func (m *MockMeetupSessionRepo) StartProximityCheck(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockMeetupSessionRepo) Complete(ctx context.Context, sessionID uuid.UUID, reward *model.Reward, completedAt time.Time) (bool, error) {
	args := m.Called(ctx, sessionID, reward, completedAt)
	return args.Bool(0), args.Error(1)
}

type MockMatchRepo struct {
	mock.Mock
}

func (m *MockMatchRepo) EnsureForInvite(ctx context.Context, sm *model.SpotMatch) (bool, error) {
	args := m.Called(ctx, sm)
	return args.Bool(0), args.Error(1)
}

func (m *MockMatchRepo) GetForUser(ctx context.Context, spotID, userID uuid.UUID) (*model.SpotMatch, error) {
	args := m.Called(ctx, spotID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SpotMatch), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepo) IncrementRewardTotals(ctx context.Context, userID uuid.UUID, points, meetups int64) error {
	args := m.Called(ctx, userID, points, meetups)
	return args.Error(0)
}

type MockRoomProvisioner struct {
	mock.Mock
}

func (m *MockRoomProvisioner) GetOrCreateRoom(ctx context.Context, user1ID, user2ID, spotID uuid.UUID) (string, error) {
	args := m.Called(ctx, user1ID, user2ID, spotID)
	return args.String(0), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) GetBatch(ctx context.Context, userIDs []uuid.UUID) ([]model.Profile, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n Notification) {
	m.Called(ctx, n)
}

type MockRewardService struct {
	mock.Mock
}

func (m *MockRewardService) IssueCompletionReward(ctx context.Context, sess *model.MeetupSession) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}
