package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/geofield-backend-go/internal/heatmap"
	"github.com/jengzang/geofield-backend-go/internal/service"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
	"github.com/jengzang/geofield-backend-go/pkg/response"
)

// AnalysisHandler serves heatmap, density, grid and spatial queries
type AnalysisHandler struct {
	service *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// GetFilter handles GET /api/v1/analysis/filter
func (h *AnalysisHandler) GetFilter(c *gin.Context) {
	response.Success(c, gin.H{"filter": h.service.Filter()})
}

// SetFilter handles PUT /api/v1/analysis/filter
func (h *AnalysisHandler) SetFilter(c *gin.Context) {
	var req struct {
		Filter string `json:"filter"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	f, err := h.service.SetFilter(req.Filter)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"filter": f})
}

type heatmapQuery struct {
	Zoom      float64 `form:"zoom"`
	CenterLat float64 `form:"lat"`
	Radius    float64 `form:"radius"` // meters, 0 selects the zoom heuristic
}

// Heatmap handles GET /api/v1/analysis/heatmap
func (h *AnalysisHandler) Heatmap(c *gin.Context) {
	var q heatmapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	response.Success(c, h.service.Heatmap(heatmap.View{Zoom: q.Zoom, CenterLat: q.CenterLat}, q.Radius))
}

// Density handles GET /api/v1/analysis/density
func (h *AnalysisHandler) Density(c *gin.Context) {
	var q struct {
		Precision int `form:"precision"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	if q.Precision == 0 {
		q.Precision = heatmap.DefaultCellPrecision
	}
	cells := h.service.DensityCells(q.Precision)
	response.Success(c, gin.H{
		"data":  cells,
		"count": len(cells),
	})
}

type gridRequest struct {
	Boundary json.RawMessage `json:"boundary" binding:"required"`
	Spacing  float64         `json:"spacing"`
	Color    string          `json:"color"`
}

// Grid handles POST /api/v1/analysis/grid
func (h *AnalysisHandler) Grid(c *gin.Context) {
	var req gridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	boundary, err := spatial.NormalizeRingJSON(req.Boundary)
	if err != nil {
		fail(c, err)
		return
	}
	g, err := h.service.Grid(boundary, req.Spacing, req.Color)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, g)
}

// GridStats handles GET /api/v1/analysis/grid/stats
func (h *AnalysisHandler) GridStats(c *gin.Context) {
	response.Success(c, h.service.GridCacheStats())
}

// Within handles POST /api/v1/analysis/within
func (h *AnalysisHandler) Within(c *gin.Context) {
	var req struct {
		Boundary json.RawMessage `json:"boundary" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	boundary, err := spatial.NormalizeRingJSON(req.Boundary)
	if err != nil {
		fail(c, err)
		return
	}
	records, err := h.service.Within(boundary)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"data":  records,
		"count": len(records),
	})
}

// Nearest handles GET /api/v1/analysis/nearest
func (h *AnalysisHandler) Nearest(c *gin.Context) {
	var q struct {
		Lat *float64 `form:"lat" binding:"required"`
		Lon *float64 `form:"lon" binding:"required"`
		K   int      `form:"k"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	if q.K == 0 {
		q.K = 5
	}
	neighbors, err := h.service.Nearest(spatial.Point{Lat: *q.Lat, Lon: *q.Lon}, q.K)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"data":  neighbors,
		"count": len(neighbors),
	})
}

// Tags handles GET /api/v1/analysis/tags
func (h *AnalysisHandler) Tags(c *gin.Context) {
	response.Success(c, gin.H{"tags": h.service.AvailableTags()})
}

// Attitude handles GET /api/v1/analysis/attitude?tag=
func (h *AnalysisHandler) Attitude(c *gin.Context) {
	summary, err := h.service.Attitude(c.DefaultQuery("tag", heatmap.FilterAll))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, summary)
}
