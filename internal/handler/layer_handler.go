package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/service"
	"github.com/jengzang/geofield-backend-go/pkg/response"
)

// LayerHandler handles HTTP requests for imported layers
type LayerHandler struct {
	service *service.LayerService
}

// NewLayerHandler creates a new layer handler
func NewLayerHandler(service *service.LayerService) *LayerHandler {
	return &LayerHandler{service: service}
}

type importLayerRequest struct {
	Name    string            `json:"name"`
	Visible *bool             `json:"visible"`
	Style   models.LayerStyle `json:"style"`
	GeoJSON json.RawMessage   `json:"geojson" binding:"required"`
}

// Import handles POST /api/v1/layers
func (h *LayerHandler) Import(c *gin.Context) {
	var req importLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	summary, err := h.service.Import(c.Request.Context(), service.ImportRequest{
		Name:    req.Name,
		GeoJSON: req.GeoJSON,
		Visible: visible,
		Style:   req.Style,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, summary)
}

// List handles GET /api/v1/layers
func (h *LayerHandler) List(c *gin.Context) {
	layers := h.service.List()
	response.Success(c, gin.H{
		"data":  layers,
		"count": len(layers),
	})
}

// Get handles GET /api/v1/layers/:id
func (h *LayerHandler) Get(c *gin.Context) {
	l, err := h.service.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, l)
}

// SetVisible handles PUT /api/v1/layers/:id/visibility
func (h *LayerHandler) SetVisible(c *gin.Context) {
	var req struct {
		Visible *bool `json:"visible" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	summary, err := h.service.SetVisible(c.Request.Context(), c.Param("id"), *req.Visible)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, summary)
}

// SetStyle handles PUT /api/v1/layers/:id/style
func (h *LayerHandler) SetStyle(c *gin.Context) {
	var style models.LayerStyle
	if err := c.ShouldBindJSON(&style); err != nil {
		badRequest(c, err)
		return
	}
	summary, err := h.service.SetStyle(c.Request.Context(), c.Param("id"), style)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, summary)
}

// Delete handles DELETE /api/v1/layers/:id
func (h *LayerHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}
