package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/geofield-backend-go/internal/compass"
	"github.com/jengzang/geofield-backend-go/internal/projection"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
	"github.com/jengzang/geofield-backend-go/internal/tagging"
	"github.com/jengzang/geofield-backend-go/pkg/response"
)

// ToolsHandler exposes the stateless conversions
type ToolsHandler struct {
	transformer *projection.Transformer
}

// NewToolsHandler creates a tools handler projecting through t
func NewToolsHandler(t *projection.Transformer) *ToolsHandler {
	if t == nil {
		t = projection.Legacy()
	}
	return &ToolsHandler{transformer: t}
}

// Project handles GET /api/v1/tools/project?lat=&lon=
func (h *ToolsHandler) Project(c *gin.Context) {
	var q struct {
		Lat *float64 `form:"lat" binding:"required"`
		Lon *float64 `form:"lon" binding:"required"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.transformer.ToProjected(*q.Lon, *q.Lat)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

// Unproject handles GET /api/v1/tools/unproject?easting=&northing=&zone=
func (h *ToolsHandler) Unproject(c *gin.Context) {
	var q struct {
		Easting  *float64 `form:"easting" binding:"required"`
		Northing *float64 `form:"northing" binding:"required"`
		Zone     int      `form:"zone" binding:"required"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	lon, lat, err := h.transformer.ToGeographic(*q.Easting, *q.Northing, q.Zone)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, spatial.Point{Lat: lat, Lon: lon})
}

// Tags handles POST /api/v1/tools/tags
func (h *ToolsHandler) Tags(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	response.Success(c, gin.H{"tags": tagging.ExtractTags(req.Text)})
}

// Destination handles GET /api/v1/tools/destination?lat=&lon=&bearing=&distance=
func (h *ToolsHandler) Destination(c *gin.Context) {
	var q struct {
		Lat      *float64 `form:"lat" binding:"required"`
		Lon      *float64 `form:"lon" binding:"required"`
		Bearing  float64  `form:"bearing"`
		Distance float64  `form:"distance" binding:"gte=0"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	origin := spatial.Point{Lat: *q.Lat, Lon: *q.Lon}
	if err := spatial.ValidatePoint(origin); err != nil {
		fail(c, err)
		return
	}
	dest := spatial.DestinationPoint(origin, q.Bearing, q.Distance)
	response.Success(c, gin.H{
		"point":   dest,
		"bearing": spatial.NormalizeDegrees(q.Bearing),
		"strike":  compass.FormatStrike(q.Bearing),
	})
}

// Strike handles GET /api/v1/tools/strike?heading= and ?text=. The dip is
// taken from dip, or derived from device tilt given beta and gamma.
func (h *ToolsHandler) Strike(c *gin.Context) {
	var q struct {
		Heading *float64 `form:"heading"`
		Text    string   `form:"text"`
		Dip     *float64 `form:"dip"`
		Beta    *float64 `form:"beta"`
		Gamma   *float64 `form:"gamma"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	var heading float64
	switch {
	case q.Heading != nil:
		heading = *q.Heading
	case q.Text != "":
		v, err := compass.ParseStrike(q.Text)
		if err != nil {
			fail(c, err)
			return
		}
		heading = v
	default:
		response.BadRequest(c, "INVALID_REQUEST", "heading or text is required")
		return
	}

	out := gin.H{
		"heading": heading,
		"text":    compass.FormatStrike(heading),
	}
	if q.Dip == nil && q.Beta != nil && q.Gamma != nil {
		dip := compass.DipFromTilt(*q.Beta, *q.Gamma)
		q.Dip = &dip
	}
	if q.Dip != nil {
		out["dip"] = *q.Dip
		out["attitude"] = compass.FormatAttitude(heading, *q.Dip)
		out["dipDirection"] = compass.DipDirection(heading)
	}
	response.Success(c, out)
}
