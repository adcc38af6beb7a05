package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/config"
	mq "github.com/meetspot-io/meetspot/internal/infra/queue"
	"go.uber.org/zap"
)

type NotificationKind string

const (
	NotificationSpotInvite     NotificationKind = "spot_invite"
	NotificationInviteAccepted NotificationKind = "invite_accepted"
	NotificationInviteDeclined NotificationKind = "invite_declined"
	NotificationMatchConfirmed NotificationKind = "match_confirmed"
	NotificationMeetupReward   NotificationKind = "meetup_reward"
)

type Notification struct {
	UserID  uuid.UUID              `json:"user_id"`
	Kind    NotificationKind       `json:"kind"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Notifier fans a notification out to the delivery pipeline. Delivery is
// best-effort: failures are logged and never surface to the caller, because
// the persisted state transition is the source of truth.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type queueNotifier struct {
	pub *mq.Publisher
	log *zap.Logger
	cfg *config.Config
}

func NewQueueNotifier(pub *mq.Publisher, log *zap.Logger, cfg *config.Config) Notifier {
	return &queueNotifier{pub: pub, log: log, cfg: cfg}
}

func (q *queueNotifier) Notify(ctx context.Context, n Notification) {
	err := q.pub.PublishJSON(ctx,
		q.cfg.RabbitMQ.ExchangeName.Notification,
		q.cfg.RabbitMQ.RoutingKey.NotificationPush,
		n)
	if err != nil {
		q.log.Warn("notification publish failed",
			zap.Error(err),
			zap.String("kind", string(n.Kind)),
			zap.String("user_id", n.UserID.String()))
	}
}
