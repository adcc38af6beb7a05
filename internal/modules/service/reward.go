package service

import (
	"context"
	"fmt"
	"time"

	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/repo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	rewardPoints = 50
	rewardBadge  = "meetup_master"
)

var rewardItems = []string{"special_gift_voucher"}

// RewardService owns the terminal completion transition. Issuance rides on the
// session's conditional status flip, so the reward for a given session is
// handed out at most once no matter how many location reports race into
// full containment.
type RewardService interface {
	IssueCompletionReward(ctx context.Context, sess *model.MeetupSession) error
}

type rewardService struct {
	sessions repo.MeetupSessionRepo
	invites  repo.InviteRepo
	users    repo.UserRepo
	notifier Notifier
	log      *zap.Logger
}

func NewRewardService(
	sessions repo.MeetupSessionRepo,
	invites repo.InviteRepo,
	users repo.UserRepo,
	notifier Notifier,
	log *zap.Logger,
) RewardService {
	return &rewardService{
		sessions: sessions,
		invites:  invites,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

func (s *rewardService) IssueCompletionReward(ctx context.Context, sess *model.MeetupSession) error {
	reward := &model.Reward{
		Points:  rewardPoints,
		Badge:   rewardBadge,
		Message: "Congratulations on meeting up in person!",
		Items:   rewardItems,
	}

	now := time.Now()
	won, err := s.sessions.Complete(ctx, sess.ID, reward, now)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if !won {
		return ErrAlreadyCompleted
	}

	// Past this point the guard has tripped: every remaining step must run,
	// and each is safe to apply exactly once because only the guard winner
	// reaches it.
	if err := s.invites.Complete(ctx, sess.InviteID, now); err != nil {
		return fmt.Errorf("complete invite: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, participant := range sess.Participants {
		g.Go(func() error {
			return s.users.IncrementRewardTotals(gctx, participant, rewardPoints, 1)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("apply reward totals: %w", err)
	}

	go s.notifyRewarded(context.WithoutCancel(ctx), sess, reward)
	return nil
}

func (s *rewardService) notifyRewarded(ctx context.Context, sess *model.MeetupSession, reward *model.Reward) {
	for _, participant := range sess.Participants {
		s.notifier.Notify(ctx, Notification{
			UserID:  participant,
			Kind:    NotificationMeetupReward,
			Title:   "Meetup complete",
			Message: fmt.Sprintf("You earned %d points and the %s badge", reward.Points, reward.Badge),
			Data: map[string]interface{}{
				"session_id": sess.ID,
				"spot_id":    sess.SpotID,
				"points":     reward.Points,
				"badge":      reward.Badge,
				"items":      reward.Items,
			},
		})
	}
}
