package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/repo"
	"github.com/meetspot-io/meetspot/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ConfirmGoingOutput reports what a confirmation call observed. SessionID is
// set only once both parties have confirmed.
type ConfirmGoingOutput struct {
	Invite          *model.Invite `json:"invite"`
	MutualConfirmed bool          `json:"mutual_confirmed"`
	SessionID       *uuid.UUID    `json:"session_id,omitempty"`
	ChatRoomID      string        `json:"chat_room_id,omitempty"`
}

// ConfirmationService handles the dual-confirmation step between acceptance
// and the live meetup session.
//
// The concurrency story: each caller writes only their own flag, then re-reads
// the row to decide whether both flags are set. Promotion is a conditional
// update exactly one racing caller wins; the side effects that follow (session,
// match record, chat room, hiding interests) are all idempotent upserts, so
// the loser re-running them is harmless. Win/lose only decides who emits the
// match notification.
type ConfirmationService interface {
	ConfirmGoing(ctx context.Context, inviteID, userID uuid.UUID) (*ConfirmGoingOutput, error)
}

type confirmationService struct {
	invites   repo.InviteRepo
	sessions  repo.MeetupSessionRepo
	matches   repo.MatchRepo
	interests InterestService
	rooms     RoomProvisioner
	notifier  Notifier
	log       *zap.Logger
}

func NewConfirmationService(
	invites repo.InviteRepo,
	sessions repo.MeetupSessionRepo,
	matches repo.MatchRepo,
	interests InterestService,
	rooms RoomProvisioner,
	notifier Notifier,
	log *zap.Logger,
) ConfirmationService {
	return &confirmationService{
		invites:   invites,
		sessions:  sessions,
		matches:   matches,
		interests: interests,
		rooms:     rooms,
		notifier:  notifier,
		log:       log,
	}
}

func (s *confirmationService) ConfirmGoing(ctx context.Context, inviteID, userID uuid.UUID) (*ConfirmGoingOutput, error) {
	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, mapNotFound(err, ErrInviteNotFound)
	}
	if !inv.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}

	switch inv.Status {
	case model.InviteStatusAccepted, model.InviteStatusConfirmedGoing:
	default:
		return nil, ErrInviteNotConfirmable
	}
	if inv.Status == model.InviteStatusAccepted && inv.Expired(time.Now()) {
		if _, err := s.invites.MarkExpired(ctx, inviteID, time.Now()); err != nil {
			s.log.Warn("failed to mark invite expired", zap.Error(err),
				zap.String("invite_id", inviteID.String()))
		}
		return nil, ErrInviteExpired
	}

	if err := s.invites.SetConfirmed(ctx, inviteID, userID == inv.SenderID); err != nil {
		return nil, err
	}

	// Authoritative re-read: the merged row, not this caller's stale view,
	// decides whether both flags are set.
	merged, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, mapNotFound(err, ErrInviteNotFound)
	}
	if !merged.SenderConfirmed || !merged.ReceiverConfirmed {
		return &ConfirmGoingOutput{Invite: merged, MutualConfirmed: false}, nil
	}

	now := time.Now()
	won, err := s.invites.Promote(ctx, inviteID, now)
	if err != nil {
		return nil, err
	}

	sess, roomID, err := s.materializeMatch(ctx, merged, now)
	if err != nil {
		return nil, err
	}

	if won {
		telemetry.RecordMatchConfirmed(ctx)
		go s.notifyMatched(context.WithoutCancel(ctx), merged, sess.ID, roomID)
	}

	final, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, mapNotFound(err, ErrInviteNotFound)
	}
	return &ConfirmGoingOutput{
		Invite:          final,
		MutualConfirmed: true,
		SessionID:       &sess.ID,
		ChatRoomID:      roomID,
	}, nil
}

// materializeMatch runs the post-promotion side effects. Every step is an
// idempotent upsert keyed on the invite, so a retry after a partial failure
// converges instead of duplicating.
func (s *confirmationService) materializeMatch(ctx context.Context, inv *model.Invite, confirmedAt time.Time) (*model.MeetupSession, string, error) {
	roomID, err := s.rooms.GetOrCreateRoom(ctx, inv.SenderID, inv.ReceiverID, inv.SpotID)
	if err != nil {
		return nil, "", fmt.Errorf("provision chat room: %w", err)
	}

	snap := inv.SpotLocation.Data()
	sess, _, err := s.sessions.EnsureForInvite(ctx, &model.MeetupSession{
		SpotID:        inv.SpotID,
		InviteID:      inv.ID,
		SpotLatitude:  snap.Coordinate.Latitude,
		SpotLongitude: snap.Coordinate.Longitude,
		Participants:  datatypes.NewJSONSlice([]uuid.UUID{inv.SenderID, inv.ReceiverID}),
		Status:        model.SessionStatusBothConfirmed,
		CheckInData: datatypes.NewJSONType(map[string]model.CheckInEntry{
			inv.SenderID.String():   {},
			inv.ReceiverID.String(): {},
		}),
	})
	if err != nil {
		return nil, "", fmt.Errorf("ensure meetup session: %w", err)
	}

	if _, err := s.matches.EnsureForInvite(ctx, &model.SpotMatch{
		SpotID:      inv.SpotID,
		InviteID:    inv.ID,
		User1ID:     inv.SenderID,
		User2ID:     inv.ReceiverID,
		ChatRoomID:  roomID,
		Status:      model.MatchStatusMatched,
		ConfirmedAt: confirmedAt,
	}); err != nil {
		return nil, "", fmt.Errorf("ensure match record: %w", err)
	}

	if err := s.interests.HideMatched(ctx, inv.SpotID, []uuid.UUID{inv.SenderID, inv.ReceiverID}); err != nil {
		return nil, "", fmt.Errorf("hide matched interests: %w", err)
	}

	return sess, roomID, nil
}

func (s *confirmationService) notifyMatched(ctx context.Context, inv *model.Invite, sessionID uuid.UUID, roomID string) {
	for _, userID := range []uuid.UUID{inv.SenderID, inv.ReceiverID} {
		s.notifier.Notify(ctx, Notification{
			UserID:  userID,
			Kind:    NotificationMatchConfirmed,
			Title:   "It's a match",
			Message: fmt.Sprintf("You are both going to %s", inv.SpotTitle),
			Data: map[string]interface{}{
				"invite_id":    inv.ID,
				"spot_id":      inv.SpotID,
				"session_id":   sessionID,
				"chat_room_id": roomID,
			},
		})
	}
}
