package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/geofield-backend-go/internal/compass"
	"github.com/jengzang/geofield-backend-go/internal/engine"
	"github.com/jengzang/geofield-backend-go/internal/grid"
	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/projection"
	"github.com/jengzang/geofield-backend-go/internal/repository"
	"github.com/jengzang/geofield-backend-go/internal/service"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
	"github.com/jengzang/geofield-backend-go/pkg/response"
)

var errorCodes = []struct {
	err    error
	code   string
	status int
}{
	{projection.ErrInvalidCoordinate, "INVALID_COORDINATE", http.StatusBadRequest},
	{projection.ErrProjectionFailure, "PROJECTION_FAILURE", http.StatusBadRequest},
	{grid.ErrInvalidSpacing, "INVALID_SPACING", http.StatusBadRequest},
	{grid.ErrInvalidBoundary, "INVALID_BOUNDARY", http.StatusBadRequest},
	{grid.ErrGridTooDense, "GRID_TOO_DENSE", http.StatusBadRequest},
	{spatial.ErrAlreadyClosed, "ALREADY_CLOSED", http.StatusBadRequest},
	{spatial.ErrInvalidGeometry, "INVALID_GEOMETRY", http.StatusBadRequest},
	{spatial.ErrInvalidMode, "INVALID_MODE", http.StatusBadRequest},
	{models.ErrInvalidRecord, "INVALID_RECORD", http.StatusBadRequest},
	{compass.ErrInvalidStrike, "INVALID_STRIKE", http.StatusBadRequest},
	{engine.ErrUnknownTag, "UNKNOWN_TAG", http.StatusBadRequest},
	{engine.ErrMeasurementIncomplete, "MEASUREMENT_INCOMPLETE", http.StatusBadRequest},
	{engine.ErrDuplicateRecord, "DUPLICATE", http.StatusConflict},
	{engine.ErrDuplicateLayer, "DUPLICATE", http.StatusConflict},
	{service.ErrInvalidGeoJSON, "INVALID_GEOJSON", http.StatusBadRequest},
	{service.ErrUnsupportedFormat, "UNSUPPORTED_FORMAT", http.StatusBadRequest},
	{engine.ErrRecordNotFound, "NOT_FOUND", http.StatusNotFound},
	{engine.ErrLayerNotFound, "NOT_FOUND", http.StatusNotFound},
	{engine.ErrNoMeasurement, "NOT_FOUND", http.StatusNotFound},
	{repository.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
}

// ErrorCode returns the stable code and HTTP status for err
func ErrorCode(err error) (string, int) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code, e.status
		}
	}
	return "INTERNAL", http.StatusInternalServerError
}

// fail writes err in the response envelope
func fail(c *gin.Context, err error) {
	code, status := ErrorCode(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		response.InternalError(c, "internal error")
		return
	}
	response.Error(c, status, code, err.Error())
}

func badRequest(c *gin.Context, err error) {
	response.BadRequest(c, "INVALID_REQUEST", err.Error())
}
