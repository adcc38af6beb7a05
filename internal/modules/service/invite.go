package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/repo"
	"github.com/meetspot-io/meetspot/internal/pkg/geo"
	"github.com/meetspot-io/meetspot/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// inviteTTL bounds how long a pending invite stays actionable.
const inviteTTL = 24 * time.Hour

// InviteService owns the invite lifecycle up to mutual confirmation.
type InviteService interface {
	// Send creates an invite from sender to receiver for a spot. Duplicate
	// sends while a live invite exists for the same triple return the
	// existing invite instead of erroring.
	Send(ctx context.Context, spotID, senderID, receiverID uuid.UUID) (*model.Invite, error)
	// Respond lets the receiver accept or decline a pending invite. Accepting
	// provisions the pair's chat room.
	Respond(ctx context.Context, inviteID, userID uuid.UUID, accept bool) (*model.Invite, error)
	// Cancel lets the sender withdraw a still-pending invite.
	Cancel(ctx context.Context, inviteID, requesterID uuid.UUID) error
	Get(ctx context.Context, inviteID uuid.UUID) (*model.Invite, error)
	ListPending(ctx context.Context, receiverID uuid.UUID) ([]model.Invite, error)
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]model.Invite, error)
}

type inviteService struct {
	invites  repo.InviteRepo
	spots    repo.SpotRepo
	rooms    RoomProvisioner
	profiles ProfileService
	notifier Notifier
	log      *zap.Logger
}

func NewInviteService(
	invites repo.InviteRepo,
	spots repo.SpotRepo,
	rooms RoomProvisioner,
	profiles ProfileService,
	notifier Notifier,
	log *zap.Logger,
) InviteService {
	return &inviteService{
		invites:  invites,
		spots:    spots,
		rooms:    rooms,
		profiles: profiles,
		notifier: notifier,
		log:      log,
	}
}

func (s *inviteService) Send(ctx context.Context, spotID, senderID, receiverID uuid.UUID) (*model.Invite, error) {
	if senderID == receiverID {
		return nil, ErrSelfInvite
	}

	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}

	key := model.InviteDedupeKey(spotID, senderID, receiverID)
	inv := &model.Invite{
		SpotID:    spotID,
		SpotTitle: spot.Title,
		SpotLocation: datatypes.NewJSONType(model.SpotSnapshot{
			Address:    spot.Address,
			Coordinate: geo.Coordinate{Latitude: spot.Latitude, Longitude: spot.Longitude},
		}),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.InviteStatusPending,
		DedupeKey:  &key,
		ExpiresAt:  time.Now().Add(inviteTTL),
	}

	stored, created, err := s.invites.CreateIdempotent(ctx, inv)
	if err != nil {
		return nil, err
	}

	// A stale invite occupying the slot past its deadline is lazily expired
	// so the duplicate send becomes a fresh invite instead of a dead echo.
	if !created && stored.Status.Live() && stored.Status != model.InviteStatusConfirmedGoing &&
		stored.Expired(time.Now()) {
		if _, err := s.invites.MarkExpired(ctx, stored.ID, time.Now()); err != nil {
			return nil, err
		}
		stored, created, err = s.invites.CreateIdempotent(ctx, inv)
		if err != nil {
			return nil, err
		}
	}
	telemetry.RecordInviteSent(ctx, !created)

	if created {
		go s.notifyInvited(context.WithoutCancel(ctx), stored)
	}
	return stored, nil
}

func (s *inviteService) Respond(ctx context.Context, inviteID, userID uuid.UUID, accept bool) (*model.Invite, error) {
	inv, err := s.getInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if inv.ReceiverID != userID {
		return nil, ErrNotReceiver
	}
	if inv.Status != model.InviteStatusPending {
		return nil, ErrInviteNotRespondable
	}
	if inv.Expired(time.Now()) {
		if _, err := s.invites.MarkExpired(ctx, inviteID, time.Now()); err != nil {
			s.log.Warn("failed to mark invite expired", zap.Error(err),
				zap.String("invite_id", inviteID.String()))
		}
		return nil, ErrInviteExpired
	}

	if !accept {
		ok, err := s.invites.Decline(ctx, inviteID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInviteNotRespondable
		}
		go s.notifyResponded(context.WithoutCancel(ctx), inv, false)
		return s.getInvite(ctx, inviteID)
	}

	roomID, err := s.rooms.GetOrCreateRoom(ctx, inv.SenderID, inv.ReceiverID, inv.SpotID)
	if err != nil {
		return nil, fmt.Errorf("provision chat room: %w", err)
	}

	ok, err := s.invites.Accept(ctx, inviteID, roomID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInviteNotRespondable
	}

	go s.notifyResponded(context.WithoutCancel(ctx), inv, true)
	return s.getInvite(ctx, inviteID)
}

func (s *inviteService) Cancel(ctx context.Context, inviteID, requesterID uuid.UUID) error {
	inv, err := s.getInvite(ctx, inviteID)
	if err != nil {
		return err
	}
	if inv.SenderID != requesterID {
		return ErrNotSender
	}

	removed, err := s.invites.DeletePending(ctx, inviteID, requesterID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrInviteNotRespondable
	}
	return nil
}

func (s *inviteService) Get(ctx context.Context, inviteID uuid.UUID) (*model.Invite, error) {
	return s.getInvite(ctx, inviteID)
}

func (s *inviteService) ListPending(ctx context.Context, receiverID uuid.UUID) ([]model.Invite, error) {
	return s.invites.ListPendingForReceiver(ctx, receiverID)
}

func (s *inviteService) ListAccepted(ctx context.Context, userID uuid.UUID) ([]model.Invite, error) {
	return s.invites.ListAcceptedForUser(ctx, userID)
}

func (s *inviteService) getInvite(ctx context.Context, inviteID uuid.UUID) (*model.Invite, error) {
	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *inviteService) notifyInvited(ctx context.Context, inv *model.Invite) {
	senderName := s.displayName(ctx, inv.SenderID)
	s.notifier.Notify(ctx, Notification{
		UserID:  inv.ReceiverID,
		Kind:    NotificationSpotInvite,
		Title:   "New meetup invite",
		Message: fmt.Sprintf("%s invited you to meet at %s", senderName, inv.SpotTitle),
		Data: map[string]interface{}{
			"invite_id": inv.ID,
			"spot_id":   inv.SpotID,
			"sender_id": inv.SenderID,
		},
	})
}

func (s *inviteService) notifyResponded(ctx context.Context, inv *model.Invite, accepted bool) {
	receiverName := s.displayName(ctx, inv.ReceiverID)

	kind := NotificationInviteDeclined
	title := "Invite declined"
	message := fmt.Sprintf("%s declined your invite to %s", receiverName, inv.SpotTitle)
	if accepted {
		kind = NotificationInviteAccepted
		title = "Invite accepted"
		message = fmt.Sprintf("%s accepted your invite to %s", receiverName, inv.SpotTitle)
	}

	s.notifier.Notify(ctx, Notification{
		UserID:  inv.SenderID,
		Kind:    kind,
		Title:   title,
		Message: message,
		Data: map[string]interface{}{
			"invite_id": inv.ID,
			"spot_id":   inv.SpotID,
		},
	})
}

func (s *inviteService) displayName(ctx context.Context, userID uuid.UUID) string {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.log.Debug("profile lookup for notification failed", zap.Error(err),
			zap.String("user_id", userID.String()))
		return "Someone"
	}
	return p.DisplayName
}
