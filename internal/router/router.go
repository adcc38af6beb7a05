package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meetspot-io/meetspot/internal/config"
	"github.com/meetspot-io/meetspot/internal/middleware"
	"github.com/meetspot-io/meetspot/internal/modules/handler"
	"github.com/meetspot-io/meetspot/internal/modules/serializer"
)

type RouterDeps struct {
	Config          *config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	SpotHandler     *handler.SpotHandler
	InterestHandler *handler.InterestHandler
	InviteHandler   *handler.InviteHandler
	MeetupHandler   *handler.MeetupHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	serializer.SetLogger(d.Log)

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.UserAuth(d.DB))

		v1.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "pong"}) })

		spots := v1.Group("/spots")
		{
			spots.GET("", d.SpotHandler.ListSpots)
			spots.POST("", d.SpotHandler.CreateSpot)
			spots.GET("/nearby", d.SpotHandler.ListNearbySpots)
			spots.GET("/:spot_id", d.SpotHandler.GetSpot)

			spots.POST("/:spot_id/interest", d.InterestHandler.MarkInterested)
			spots.DELETE("/:spot_id/interest", d.InterestHandler.RemoveInterest)
			spots.GET("/:spot_id/interested", d.InterestHandler.ListInterested)
		}

		invites := v1.Group("/invites")
		{
			invites.POST("", d.InviteHandler.SendInvite)
			invites.GET("/pending", d.InviteHandler.ListPending)
			invites.GET("/accepted", d.InviteHandler.ListAccepted)
			invites.POST("/:invite_id/respond", d.InviteHandler.RespondInvite)
			invites.POST("/:invite_id/confirm", d.InviteHandler.ConfirmGoing)
			invites.DELETE("/:invite_id", d.InviteHandler.CancelInvite)
		}

		meetups := v1.Group("/meetups")
		{
			meetups.GET("/active", d.MeetupHandler.GetActiveSession)
			meetups.GET("/:session_id", d.MeetupHandler.GetSession)
			meetups.POST("/:session_id/location", d.MeetupHandler.ReportLocation)
		}
	}
	return r
}
