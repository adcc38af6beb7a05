package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InviteRepo interface {
	// CreateIdempotent inserts the invite unless the (spot, sender, receiver)
	// triple already holds a live invite, in which case the existing row is
	// returned. The unique dedupe_key index arbitrates concurrent duplicate
	// sends at the store, not in application code. The bool reports whether
	// this call created the row.
	CreateIdempotent(ctx context.Context, inv *model.Invite) (*model.Invite, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Invite, error)
	// Accept transitions pending -> accepted and stores the chat room id.
	// Returns false when the invite was no longer pending.
	Accept(ctx context.Context, id uuid.UUID, chatRoomID string) (bool, error)
	// Decline transitions pending -> declined and frees the dedupe slot.
	Decline(ctx context.Context, id uuid.UUID) (bool, error)
	// DeletePending removes a still-pending invite owned by senderID.
	DeletePending(ctx context.Context, id, senderID uuid.UUID) (int64, error)
	// SetConfirmed sets the caller's own confirmation flag in a single
	// column write. Monotonic: re-setting a true flag is a no-op.
	SetConfirmed(ctx context.Context, id uuid.UUID, sender bool) error
	// Promote transitions accepted -> confirmed_going, but only when both
	// flags are already true in the stored row. Exactly one of two racing
	// confirmation callers observes true.
	Promote(ctx context.Context, id uuid.UUID, confirmedAt time.Time) (bool, error)
	// Complete transitions confirmed_going -> completed, stamps the meetup
	// time and frees the dedupe slot.
	Complete(ctx context.Context, id uuid.UUID, meetupTime time.Time) error
	// MarkExpired lazily flips a pending or accepted invite past its
	// deadline to expired, freeing the dedupe slot.
	MarkExpired(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	ListPendingForReceiver(ctx context.Context, receiverID uuid.UUID) ([]model.Invite, error)
	ListAcceptedForUser(ctx context.Context, userID uuid.UUID) ([]model.Invite, error)
}

type inviteRepo struct {
	db *gorm.DB
}

func NewInviteRepo(db *gorm.DB) InviteRepo {
	return &inviteRepo{db: db}
}

func (r *inviteRepo) CreateIdempotent(ctx context.Context, inv *model.Invite) (*model.Invite, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedupe_key"}},
			DoNothing: true,
		}).
		Create(inv)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return inv, true, nil
	}

	// Lost the slot: another live invite owns the dedupe key.
	if inv.DedupeKey == nil {
		return nil, false, fmt.Errorf("invite dedupe key missing")
	}
	var existing model.Invite
	if err := r.db.WithContext(ctx).
		Where("dedupe_key = ?", *inv.DedupeKey).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *inviteRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Invite, error) {
	var inv model.Invite
	if err := r.db.WithContext(ctx).Where(&model.Invite{ID: id}).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inviteRepo) Accept(ctx context.Context, id uuid.UUID, chatRoomID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("id = ? AND status = ?", id, model.InviteStatusPending).
		Updates(map[string]interface{}{
			"status":       model.InviteStatusAccepted,
			"chat_room_id": chatRoomID,
			"updated_at":   time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

func (r *inviteRepo) Decline(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("id = ? AND status = ?", id, model.InviteStatusPending).
		Updates(map[string]interface{}{
			"status":     model.InviteStatusDeclined,
			"dedupe_key": nil,
			"updated_at": time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

func (r *inviteRepo) DeletePending(ctx context.Context, id, senderID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND sender_id = ? AND status = ?", id, senderID, model.InviteStatusPending).
		Delete(&model.Invite{})
	return res.RowsAffected, res.Error
}

func (r *inviteRepo) SetConfirmed(ctx context.Context, id uuid.UUID, sender bool) error {
	column := "receiver_confirmed"
	if sender {
		column = "sender_confirmed"
	}
	return r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			column:       true,
			"updated_at": time.Now(),
		}).Error
}

func (r *inviteRepo) Promote(ctx context.Context, id uuid.UUID, confirmedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("id = ? AND status = ? AND sender_confirmed AND receiver_confirmed",
			id, model.InviteStatusAccepted).
		Updates(map[string]interface{}{
			"status":       model.InviteStatusConfirmedGoing,
			"confirmed_at": confirmedAt,
			"updated_at":   time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

func (r *inviteRepo) Complete(ctx context.Context, id uuid.UUID, meetupTime time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("id = ? AND status = ?", id, model.InviteStatusConfirmedGoing).
		Updates(map[string]interface{}{
			"status":          model.InviteStatusCompleted,
			"both_checked_in": true,
			"meetup_time":     meetupTime,
			"dedupe_key":      nil,
			"updated_at":      time.Now(),
		}).Error
}

func (r *inviteRepo) MarkExpired(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("id = ? AND status IN ? AND expires_at < ?", id,
			[]model.InviteStatus{model.InviteStatusPending, model.InviteStatusAccepted}, now).
		Updates(map[string]interface{}{
			"status":     model.InviteStatusExpired,
			"dedupe_key": nil,
			"updated_at": now,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *inviteRepo) ListPendingForReceiver(ctx context.Context, receiverID uuid.UUID) ([]model.Invite, error) {
	var invites []model.Invite
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, model.InviteStatusPending).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (r *inviteRepo) ListAcceptedForUser(ctx context.Context, userID uuid.UUID) ([]model.Invite, error) {
	var invites []model.Invite
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?",
			userID, userID, model.InviteStatusAccepted).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}
