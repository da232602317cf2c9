package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/service"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
	"github.com/jengzang/geofield-backend-go/pkg/response"
)

// MeasurementHandler handles the interactive distance and area tool
type MeasurementHandler struct {
	service *service.MeasurementService
}

// NewMeasurementHandler creates a new measurement handler
func NewMeasurementHandler(service *service.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{service: service}
}

// Start handles POST /api/v1/measurements
func (h *MeasurementHandler) Start(c *gin.Context) {
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.service.Start(req.Mode)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, view)
}

// Get handles GET /api/v1/measurements/:id
func (h *MeasurementHandler) Get(c *gin.Context) {
	h.respond(c)(h.service.Get(c.Param("id")))
}

// AddVertex handles POST /api/v1/measurements/:id/vertices
func (h *MeasurementHandler) AddVertex(c *gin.Context) {
	var p struct {
		Lat *float64 `json:"lat" binding:"required"`
		Lon *float64 `json:"lon" binding:"required"`
	}
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c)(h.service.AddVertex(c.Param("id"), spatial.Point{Lat: *p.Lat, Lon: *p.Lon}))
}

// Undo handles POST /api/v1/measurements/:id/undo
func (h *MeasurementHandler) Undo(c *gin.Context) {
	h.respond(c)(h.service.Undo(c.Param("id")))
}

// Reset handles POST /api/v1/measurements/:id/reset
func (h *MeasurementHandler) Reset(c *gin.Context) {
	h.respond(c)(h.service.Reset(c.Param("id")))
}

// Finish handles POST /api/v1/measurements/:id/finish. The body carries the
// label, strike, dip and note of the record to create.
func (h *MeasurementHandler) Finish(c *gin.Context) {
	var draft models.Record
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&draft); err != nil {
			badRequest(c, err)
			return
		}
	}
	rec, err := h.service.Finish(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, rec)
}

// Cancel handles DELETE /api/v1/measurements/:id
func (h *MeasurementHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Cancel(id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

func (h *MeasurementHandler) respond(c *gin.Context) func(service.MeasurementView, error) {
	return func(view service.MeasurementView, err error) {
		if err != nil {
			fail(c, err)
			return
		}
		response.Success(c, view)
	}
}
