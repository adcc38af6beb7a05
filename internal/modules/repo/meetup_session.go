package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MeetupSessionRepo interface {
	// EnsureForInvite creates the session unless one already exists for the
	// invite; the unique invite_id index collapses racing promotion attempts
	// onto a single row. The bool reports whether this call created it.
	EnsureForInvite(ctx context.Context, s *model.MeetupSession) (*model.MeetupSession, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.MeetupSession, error)
	// GetActiveForUser returns the user's non-terminal session for a spot,
	// if any.
	GetActiveForUser(ctx context.Context, userID, spotID uuid.UUID) (*model.MeetupSession, error)
	// SetCheckIn merges a single participant's entry into the check-in map
	// with jsonb_set; the map is never rewritten wholesale from a stale
	// client-side read.
	SetCheckIn(ctx context.Context, sessionID, userID uuid.UUID, entry model.CheckInEntry) error
	// StartProximityCheck moves both_confirmed -> checking_proximity on the
	// first location report.
	StartProximityCheck(ctx context.Context, sessionID uuid.UUID) error
	// Complete performs the terminal transition and stores the reward
	// payload in one conditional write. False means the session was already
	// completed; this is the at-most-once guard for reward issuance.
	Complete(ctx context.Context, sessionID uuid.UUID, reward *model.Reward, completedAt time.Time) (bool, error)
}

type meetupSessionRepo struct {
	db *gorm.DB
}

func NewMeetupSessionRepo(db *gorm.DB) MeetupSessionRepo {
	return &meetupSessionRepo{db: db}
}

func (r *meetupSessionRepo) EnsureForInvite(ctx context.Context, s *model.MeetupSession) (*model.MeetupSession, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "invite_id"}},
			DoNothing: true,
		}).
		Create(s)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return s, true, nil
	}

	var existing model.MeetupSession
	if err := r.db.WithContext(ctx).
		Where("invite_id = ?", s.InviteID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *meetupSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.MeetupSession, error) {
	var s model.MeetupSession
	if err := r.db.WithContext(ctx).Where(&model.MeetupSession{ID: id}).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *meetupSessionRepo) GetActiveForUser(ctx context.Context, userID, spotID uuid.UUID) (*model.MeetupSession, error) {
	var s model.MeetupSession
	err := r.db.WithContext(ctx).
		Where("spot_id = ? AND status IN ? AND participants @> ?::jsonb",
			spotID,
			[]model.SessionStatus{model.SessionStatusBothConfirmed, model.SessionStatusCheckingProximity},
			fmt.Sprintf("[%q]", userID.String())).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *meetupSessionRepo) SetCheckIn(ctx context.Context, sessionID, userID uuid.UUID, entry model.CheckInEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal check-in entry: %w", err)
	}
	path := fmt.Sprintf("{%s}", userID)
	return r.db.WithContext(ctx).Model(&model.MeetupSession{}).
		Where("id = ?", sessionID).
		UpdateColumn("check_in_data",
			gorm.Expr("jsonb_set(COALESCE(check_in_data, '{}'::jsonb), ?::text[], ?::jsonb, true)",
				path, string(b))).Error
}

func (r *meetupSessionRepo) StartProximityCheck(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MeetupSession{}).
		Where("id = ? AND status = ?", sessionID, model.SessionStatusBothConfirmed).
		UpdateColumn("status", model.SessionStatusCheckingProximity).Error
}

func (r *meetupSessionRepo) Complete(ctx context.Context, sessionID uuid.UUID, reward *model.Reward, completedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.MeetupSession{}).
		Where("id = ? AND status <> ?", sessionID, model.SessionStatusCompleted).
		Updates(map[string]interface{}{
			"status":       model.SessionStatusCompleted,
			"rewards":      datatypes.NewJSONType(reward),
			"completed_at": completedAt,
		})
	return res.RowsAffected == 1, res.Error
}
