package bootstrap

import (
	"crypto/tls"
	"strings"

	"github.com/meetspot-io/meetspot/internal/config"
	"github.com/meetspot-io/meetspot/internal/infra/cache"
	"github.com/meetspot-io/meetspot/internal/infra/db"
	"github.com/meetspot-io/meetspot/internal/infra/logger"
	mq "github.com/meetspot-io/meetspot/internal/infra/queue"
	"github.com/meetspot-io/meetspot/internal/modules/handler"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/repo"
	"github.com/meetspot-io/meetspot/internal/modules/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			_ = d.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto")

			_ = d.AutoMigrate(
				&model.User{},
				&model.Spot{},
				&model.SpotInterest{},
				&model.Invite{},
				&model.MeetupSession{},
				&model.SpotMatch{},
				&model.ChatRoom{},
			)
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg)
	})

	// RabbitMQ DialFunc for connection and reconnection
	do.Provide(inj, func(i *do.Injector) (mq.DialFunc, error) {
		cfg := do.MustInvoke[*config.Config](i)

		dialFn := func() (*amqp.Connection, error) {
			useTLS := cfg.RabbitMQ.EnableTLS || strings.HasPrefix(cfg.RabbitMQ.URL, "amqps://")

			if useTLS {
				tlsConfig := &tls.Config{
					MinVersion: tls.VersionTLS12,
				}
				url := cfg.RabbitMQ.URL
				if strings.HasPrefix(url, "amqp://") {
					url = strings.Replace(url, "amqp://", "amqps://", 1)
				}
				return amqp.DialTLS(url, tlsConfig)
			}

			return amqp.Dial(cfg.RabbitMQ.URL)
		}

		return dialFn, nil
	})

	// RabbitMQ Connection
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		dialFn := do.MustInvoke[mq.DialFunc](i)
		return dialFn()
	})

	// RabbitMQ Publisher
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		conn := do.MustInvoke[*amqp.Connection](i)
		log := do.MustInvoke[*zap.Logger](i)
		return mq.NewPublisher(conn, log, cfg)
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.SpotRepo, error) {
		return repo.NewSpotRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.InterestRepo, error) {
		return repo.NewInterestRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.InviteRepo, error) {
		return repo.NewInviteRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.MeetupSessionRepo, error) {
		return repo.NewMeetupSessionRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.MatchRepo, error) {
		return repo.NewMatchRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ChatRoomRepo, error) {
		return repo.NewChatRoomRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.Notifier, error) {
		return service.NewQueueNotifier(
			do.MustInvoke[*mq.Publisher](i),
			do.MustInvoke[*zap.Logger](i),
			do.MustInvoke[*config.Config](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProfileService, error) {
		return service.NewProfileService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.RoomProvisioner, error) {
		return service.NewRoomProvisioner(do.MustInvoke[repo.ChatRoomRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.SpotService, error) {
		return service.NewSpotService(do.MustInvoke[repo.SpotRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.InterestService, error) {
		return service.NewInterestService(
			do.MustInvoke[repo.InterestRepo](i),
			do.MustInvoke[repo.SpotRepo](i),
			do.MustInvoke[service.ProfileService](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.InviteService, error) {
		return service.NewInviteService(
			do.MustInvoke[repo.InviteRepo](i),
			do.MustInvoke[repo.SpotRepo](i),
			do.MustInvoke[service.RoomProvisioner](i),
			do.MustInvoke[service.ProfileService](i),
			do.MustInvoke[service.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ConfirmationService, error) {
		return service.NewConfirmationService(
			do.MustInvoke[repo.InviteRepo](i),
			do.MustInvoke[repo.MeetupSessionRepo](i),
			do.MustInvoke[repo.MatchRepo](i),
			do.MustInvoke[service.InterestService](i),
			do.MustInvoke[service.RoomProvisioner](i),
			do.MustInvoke[service.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.RewardService, error) {
		return service.NewRewardService(
			do.MustInvoke[repo.MeetupSessionRepo](i),
			do.MustInvoke[repo.InviteRepo](i),
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[service.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProximityService, error) {
		return service.NewProximityService(
			do.MustInvoke[repo.MeetupSessionRepo](i),
			do.MustInvoke[service.RewardService](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.SpotHandler, error) {
		return handler.NewSpotHandler(do.MustInvoke[service.SpotService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.InterestHandler, error) {
		return handler.NewInterestHandler(do.MustInvoke[service.InterestService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.InviteHandler, error) {
		return handler.NewInviteHandler(
			do.MustInvoke[service.InviteService](i),
			do.MustInvoke[service.ConfirmationService](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.MeetupHandler, error) {
		return handler.NewMeetupHandler(do.MustInvoke[service.ProximityService](i)), nil
	})
	return inj
}
