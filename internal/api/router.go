package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/geofield-backend-go/internal/handler"
	"github.com/jengzang/geofield-backend-go/internal/middleware"
	"github.com/jengzang/geofield-backend-go/internal/service"
)

// Services are the dependencies of the router
type Services struct {
	Records      *service.RecordService
	Layers       *service.LayerService
	Measurements *service.MeasurementService
	Analysis     *service.AnalysisService
	Workspace    *service.Workspace
}

// RouterOptions tunes the middleware
type RouterOptions struct {
	RateLimit float64 // requests per second per client, 0 disables
	RateBurst int
}

// SetupRouter wires the handlers under /api/v1
func SetupRouter(svc Services, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	// CORS for the field client webview
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Geofield backend is running",
		})
	})

	records := handler.NewRecordHandler(svc.Records)
	layers := handler.NewLayerHandler(svc.Layers)
	measurements := handler.NewMeasurementHandler(svc.Measurements)
	analysis := handler.NewAnalysisHandler(svc.Analysis)
	tools := handler.NewToolsHandler(svc.Workspace.Config().Transformer)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(opts.RateLimit, opts.RateBurst))
	{
		rec := api.Group("/records")
		{
			rec.GET("", records.List)
			rec.POST("", records.Create)
			rec.POST("/batch", records.Import)
			rec.GET("/export", records.Export)
			rec.GET("/:id", records.Get)
			rec.PUT("/:id", records.Update)
			rec.DELETE("/:id", records.Delete)
			rec.GET("/:id/tags", records.Tags)
		}

		lay := api.Group("/layers")
		{
			lay.GET("", layers.List)
			lay.POST("", layers.Import)
			lay.GET("/:id", layers.Get)
			lay.PUT("/:id/visibility", layers.SetVisible)
			lay.PUT("/:id/style", layers.SetStyle)
			lay.DELETE("/:id", layers.Delete)
		}

		meas := api.Group("/measurements")
		{
			meas.POST("", measurements.Start)
			meas.GET("/:id", measurements.Get)
			meas.POST("/:id/vertices", measurements.AddVertex)
			meas.POST("/:id/undo", measurements.Undo)
			meas.POST("/:id/reset", measurements.Reset)
			meas.POST("/:id/finish", measurements.Finish)
			meas.DELETE("/:id", measurements.Cancel)
		}

		an := api.Group("/analysis")
		{
			an.GET("/filter", analysis.GetFilter)
			an.PUT("/filter", analysis.SetFilter)
			an.GET("/heatmap", analysis.Heatmap)
			an.GET("/density", analysis.Density)
			an.POST("/grid", analysis.Grid)
			an.GET("/grid/stats", analysis.GridStats)
			an.POST("/within", analysis.Within)
			an.GET("/nearest", analysis.Nearest)
			an.GET("/tags", analysis.Tags)
			an.GET("/attitude", analysis.Attitude)
		}

		tl := api.Group("/tools")
		{
			tl.GET("/project", tools.Project)
			tl.GET("/unproject", tools.Unproject)
			tl.POST("/tags", tools.Tags)
			tl.GET("/strike", tools.Strike)
			tl.GET("/destination", tools.Destination)
		}
	}

	return r
}
