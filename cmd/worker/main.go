// The worker drains the notification queue and hands payloads to the push
// gateway. Deliveries that fail are requeued.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/meetspot-io/meetspot/internal/bootstrap"
	"github.com/meetspot-io/meetspot/internal/config"
	mq "github.com/meetspot-io/meetspot/internal/infra/queue"
	"github.com/meetspot-io/meetspot/internal/modules/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/do"
	"go.uber.org/zap"
)

func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer log.Sync()

	conn := do.MustInvoke[*amqp.Connection](inj)

	consumer, err := mq.NewConsumer(conn, cfg.RabbitMQ.QueueName.NotificationPush, 10, log, cfg)
	if err != nil {
		log.Fatal("failed to create consumer", zap.Error(err))
	}
	defer consumer.Close()

	if err := consumer.Bind(cfg.RabbitMQ.ExchangeName.Notification, cfg.RabbitMQ.RoutingKey.NotificationPush); err != nil {
		log.Fatal("failed to bind queue", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("notification worker started",
		zap.String("queue", cfg.RabbitMQ.QueueName.NotificationPush))

	err = consumer.Handle(ctx, func(body []byte) error {
		var n service.Notification
		if err := sonic.Unmarshal(body, &n); err != nil {
			log.Warn("dropping malformed notification", zap.Error(err))
			return nil
		}

		// Push gateway integration lands here; for now delivery is the log line.
		log.Info("delivering notification",
			zap.String("user_id", n.UserID.String()),
			zap.String("kind", string(n.Kind)),
			zap.String("title", n.Title))
		return nil
	})
	if err != nil && ctx.Err() == nil {
		log.Fatal("consumer stopped", zap.Error(err))
	}

	if err := inj.Shutdown(); err != nil {
		log.Error("container shutdown failed", zap.Error(err))
	}
}
