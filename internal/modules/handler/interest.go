package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/middleware"
	"github.com/meetspot-io/meetspot/internal/modules/serializer"
	"github.com/meetspot-io/meetspot/internal/modules/service"
)

type InterestHandler struct {
	svc service.InterestService
}

func NewInterestHandler(s service.InterestService) *InterestHandler {
	return &InterestHandler{svc: s}
}

func (h *InterestHandler) MarkInterested(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("spot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid spot id", err))
		return
	}
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	if err := h.svc.MarkInterested(c.Request.Context(), spotID, actor.ID); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "interested"})
}

func (h *InterestHandler) RemoveInterest(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("spot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid spot id", err))
		return
	}
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	if err := h.svc.RemoveInterest(c.Request.Context(), spotID, actor.ID); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "interest removed"})
}

func (h *InterestHandler) ListInterested(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("spot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid spot id", err))
		return
	}

	profiles, err := h.svc.ListInterested(c.Request.Context(), spotID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: profiles})
}
