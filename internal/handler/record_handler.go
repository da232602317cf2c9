package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/service"
	"github.com/jengzang/geofield-backend-go/pkg/response"
)

// RecordHandler handles HTTP requests for field records
type RecordHandler struct {
	service *service.RecordService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(service *service.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "INVALID_REQUEST", "Invalid record ID")
		return 0, false
	}
	return id, true
}

// List handles GET /api/v1/records
func (h *RecordHandler) List(c *gin.Context) {
	var filter models.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.service.List(filter)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}

// Get handles GET /api/v1/records/:id
func (h *RecordHandler) Get(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	rec, err := h.service.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, rec)
}

// Tags handles GET /api/v1/records/:id/tags
func (h *RecordHandler) Tags(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	tags, err := h.service.Tags(id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"id": id, "tags": tags})
}

// Create handles POST /api/v1/records
func (h *RecordHandler) Create(c *gin.Context) {
	var rec models.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.service.Create(c.Request.Context(), rec)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, created)
}

// Import handles POST /api/v1/records/batch
func (h *RecordHandler) Import(c *gin.Context) {
	var records []models.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.service.Import(c.Request.Context(), records)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}

// Update handles PUT /api/v1/records/:id
func (h *RecordHandler) Update(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	var rec models.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, err)
		return
	}
	rec.ID = id
	updated, err := h.service.Update(c.Request.Context(), rec)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, updated)
}

// Delete handles DELETE /api/v1/records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// Export handles GET /api/v1/records/export?format=json|msgpack. The body is
// the raw encoded rows, not the envelope.
func (h *RecordHandler) Export(c *gin.Context) {
	data, contentType, err := h.service.Export(c.DefaultQuery("format", service.FormatJSON))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
