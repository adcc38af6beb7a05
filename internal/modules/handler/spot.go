package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/serializer"
	"github.com/meetspot-io/meetspot/internal/modules/service"
	"github.com/meetspot-io/meetspot/internal/pkg/geo"
)

type SpotHandler struct {
	svc service.SpotService
}

func NewSpotHandler(s service.SpotService) *SpotHandler {
	return &SpotHandler{svc: s}
}

type CreateSpotReq struct {
	Title     string   `json:"title" binding:"required"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
}

func (h *SpotHandler) CreateSpot(c *gin.Context) {
	req := CreateSpotReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	spot, err := h.svc.Create(c.Request.Context(), &model.Spot{
		Title:     req.Title,
		Address:   req.Address,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		respondServiceErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: spot})
}

func (h *SpotHandler) ListSpots(c *gin.Context) {
	spots, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: spots})
}

type NearbySpotsReq struct {
	Latitude  *float64 `form:"latitude" binding:"required,latitude"`
	Longitude *float64 `form:"longitude" binding:"required,longitude"`
	RadiusKm  float64  `form:"radius_km"`
}

func (h *SpotHandler) ListNearbySpots(c *gin.Context) {
	req := NearbySpotsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if req.RadiusKm <= 0 {
		req.RadiusKm = 5
	}

	spots, err := h.svc.ListNearby(c.Request.Context(),
		geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude},
		req.RadiusKm*1000)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: spots})
}

func (h *SpotHandler) GetSpot(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("spot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid spot id", err))
		return
	}

	spot, err := h.svc.Get(c.Request.Context(), spotID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: spot})
}
