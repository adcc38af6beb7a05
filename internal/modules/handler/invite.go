package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/middleware"
	"github.com/meetspot-io/meetspot/internal/modules/serializer"
	"github.com/meetspot-io/meetspot/internal/modules/service"
)

type InviteHandler struct {
	svc     service.InviteService
	confirm service.ConfirmationService
}

func NewInviteHandler(s service.InviteService, confirm service.ConfirmationService) *InviteHandler {
	return &InviteHandler{svc: s, confirm: confirm}
}

type SendInviteReq struct {
	SpotID     uuid.UUID `json:"spot_id" binding:"required"`
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
}

func (h *InviteHandler) SendInvite(c *gin.Context) {
	req := SendInviteReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	inv, err := h.svc.Send(c.Request.Context(), req.SpotID, actor.ID, req.ReceiverID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: inv})
}

type RespondInviteReq struct {
	Accept *bool `json:"accept" binding:"required"`
}

func (h *InviteHandler) RespondInvite(c *gin.Context) {
	inviteID, err := uuid.Parse(c.Param("invite_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid invite id", err))
		return
	}
	req := RespondInviteReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	inv, err := h.svc.Respond(c.Request.Context(), inviteID, actor.ID, *req.Accept)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: inv})
}

func (h *InviteHandler) CancelInvite(c *gin.Context) {
	inviteID, err := uuid.Parse(c.Param("invite_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid invite id", err))
		return
	}
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), inviteID, actor.ID); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "invite cancelled"})
}

func (h *InviteHandler) ConfirmGoing(c *gin.Context) {
	inviteID, err := uuid.Parse(c.Param("invite_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid invite id", err))
		return
	}
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	out, err := h.confirm.ConfirmGoing(c.Request.Context(), inviteID, actor.ID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

func (h *InviteHandler) ListPending(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	invites, err := h.svc.ListPending(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: invites})
}

func (h *InviteHandler) ListAccepted(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	invites, err := h.svc.ListAccepted(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: invites})
}
