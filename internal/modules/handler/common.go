package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meetspot-io/meetspot/internal/modules/serializer"
	"github.com/meetspot-io/meetspot/internal/modules/service"
)

// respondServiceErr maps service sentinels onto HTTP status codes. Anything
// unrecognized is treated as an internal error.
func respondServiceErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSelfInvite),
		errors.Is(err, service.ErrInviteNotRespondable),
		errors.Is(err, service.ErrInviteNotConfirmable):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), nil))
	case errors.Is(err, service.ErrSpotNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(err.Error(), nil))
	case errors.Is(err, service.ErrNotReceiver),
		errors.Is(err, service.ErrNotSender),
		errors.Is(err, service.ErrNotParticipant):
		c.JSON(http.StatusForbidden, serializer.ForbiddenErr(err.Error(), nil))
	case errors.Is(err, service.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, serializer.ConflictErr(err.Error(), nil))
	case errors.Is(err, service.ErrInviteExpired):
		c.JSON(http.StatusGone, serializer.GoneErr(err.Error(), nil))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}
