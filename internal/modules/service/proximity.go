package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/repo"
	"github.com/meetspot-io/meetspot/internal/pkg/geo"
	"github.com/meetspot-io/meetspot/internal/telemetry"
	"go.uber.org/zap"
)

// CheckInRadiusMeters is how close a participant must be to the spot for a
// location report to count as checked in.
const CheckInRadiusMeters = 200.0

// ReportLocationOutput tells the client where their report landed and whether
// it completed the meetup.
type ReportLocationOutput struct {
	Session         *model.MeetupSession `json:"session"`
	DistanceMeters  float64              `json:"distance_meters"`
	WithinRadius    bool                 `json:"within_radius"`
	AllWithinRadius bool                 `json:"all_within_radius"`
}

// ProximityService verifies that both participants are physically at the spot
// and triggers completion when they are.
type ProximityService interface {
	// ReportLocation records one participant's position. When the report puts
	// every participant inside the radius the session completes and rewards
	// are issued.
	ReportLocation(ctx context.Context, sessionID, userID uuid.UUID, coord geo.Coordinate) (*ReportLocationOutput, error)
	GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*model.MeetupSession, error)
	// GetActiveSession finds the caller's in-progress session for a spot.
	GetActiveSession(ctx context.Context, userID, spotID uuid.UUID) (*model.MeetupSession, error)
}

type proximityService struct {
	sessions repo.MeetupSessionRepo
	rewards  RewardService
	log      *zap.Logger
}

func NewProximityService(sessions repo.MeetupSessionRepo, rewards RewardService, log *zap.Logger) ProximityService {
	return &proximityService{sessions: sessions, rewards: rewards, log: log}
}

func (s *proximityService) ReportLocation(ctx context.Context, sessionID, userID uuid.UUID, coord geo.Coordinate) (*ReportLocationOutput, error) {
	sess, err := s.getForParticipant(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	distance := geo.Distance(coord, sess.SpotCoordinate())
	within := distance <= CheckInRadiusMeters
	telemetry.RecordCheckInDistance(ctx, distance, within)

	if sess.Status == model.SessionStatusCompleted {
		return &ReportLocationOutput{
			Session:         sess,
			DistanceMeters:  distance,
			WithinRadius:    within,
			AllWithinRadius: true,
		}, nil
	}

	entry := model.CheckInEntry{
		Location:       &coord,
		IsWithinRadius: within,
	}
	if within {
		now := time.Now()
		entry.CheckInTime = &now
	} else if prev, ok := sess.CheckInData.Data()[userID.String()]; ok {
		// An out-of-radius report keeps any earlier successful check-in time.
		entry.CheckInTime = prev.CheckInTime
	}

	if err := s.sessions.StartProximityCheck(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := s.sessions.SetCheckIn(ctx, sessionID, userID, entry); err != nil {
		return nil, err
	}

	// Re-read so the containment decision sees the other participant's
	// concurrent writes, not this caller's stale snapshot.
	merged, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, mapNotFound(err, ErrSessionNotFound)
	}

	all := merged.AllWithinRadius()
	if all && merged.Status != model.SessionStatusCompleted {
		err := s.rewards.IssueCompletionReward(ctx, merged)
		switch {
		case errors.Is(err, ErrAlreadyCompleted):
			// The other participant's report completed it first.
		case err != nil:
			return nil, err
		default:
			telemetry.RecordMeetupCompleted(ctx)
		}
		merged, err = s.sessions.GetByID(ctx, sessionID)
		if err != nil {
			return nil, mapNotFound(err, ErrSessionNotFound)
		}
	}

	return &ReportLocationOutput{
		Session:         merged,
		DistanceMeters:  distance,
		WithinRadius:    within,
		AllWithinRadius: all,
	}, nil
}

func (s *proximityService) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*model.MeetupSession, error) {
	return s.getForParticipant(ctx, sessionID, userID)
}

func (s *proximityService) GetActiveSession(ctx context.Context, userID, spotID uuid.UUID) (*model.MeetupSession, error) {
	sess, err := s.sessions.GetActiveForUser(ctx, userID, spotID)
	if err != nil {
		return nil, mapNotFound(err, ErrSessionNotFound)
	}
	return sess, nil
}

// getForParticipant resolves the session; a non-participant gets the same
// not-found answer as a missing session so session ids cannot be probed.
func (s *proximityService) getForParticipant(ctx context.Context, sessionID, userID uuid.UUID) (*model.MeetupSession, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, mapNotFound(err, ErrSessionNotFound)
	}
	if !sess.IsParticipant(userID) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
