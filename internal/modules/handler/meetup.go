package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/middleware"
	"github.com/meetspot-io/meetspot/internal/modules/serializer"
	"github.com/meetspot-io/meetspot/internal/modules/service"
	"github.com/meetspot-io/meetspot/internal/pkg/geo"
)

type MeetupHandler struct {
	svc service.ProximityService
}

func NewMeetupHandler(s service.ProximityService) *MeetupHandler {
	return &MeetupHandler{svc: s}
}

type ReportLocationReq struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
}

func (h *MeetupHandler) ReportLocation(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid session id", err))
		return
	}
	req := ReportLocationReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	out, err := h.svc.ReportLocation(c.Request.Context(), sessionID, actor.ID,
		geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude})
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

func (h *MeetupHandler) GetSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid session id", err))
		return
	}
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	sess, err := h.svc.GetSession(c.Request.Context(), sessionID, actor.ID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: sess})
}

type GetActiveSessionReq struct {
	SpotID uuid.UUID `form:"spot_id" binding:"required"`
}

func (h *MeetupHandler) GetActiveSession(c *gin.Context) {
	req := GetActiveSessionReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	sess, err := h.svc.GetActiveSession(c.Request.Context(), actor.ID, req.SpotID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: sess})
}
