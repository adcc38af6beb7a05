package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/serializer"
)

// ActorKey is the context key the authenticated user is stored under.
const ActorKey = "actor"

// UserAuth authenticates requests with the X-User-Id header set by the
// identity gateway, resolves the user row and stores it in the context. The
// user_id attribute lands on the current span for telemetry filtering.
func UserAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx, authSpan := otel.Tracer("middleware").Start(ctx, "user_auth",
			trace.WithAttributes(attribute.String("middleware", "user_auth")))

		raw := c.GetHeader("X-User-Id")
		userID, err := uuid.Parse(raw)
		if raw == "" || err != nil {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		var user model.User
		if err := db.WithContext(ctx).Where(&model.User{ID: userID}).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				authSpan.SetAttributes(attribute.Bool("authenticated", false))
				authSpan.End()
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			authSpan.RecordError(err)
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		rootSpan := trace.SpanFromContext(c.Request.Context())
		if rootSpan.SpanContext().IsValid() {
			rootSpan.SetAttributes(attribute.String("user_id", user.ID.String()))
		}

		authSpan.SetAttributes(
			attribute.String("user_id", user.ID.String()),
			attribute.Bool("authenticated", true),
		)
		authSpan.End()

		c.Set(ActorKey, &user)
		c.Next()
	}
}

// Actor returns the authenticated user stored by UserAuth.
func Actor(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok
}
