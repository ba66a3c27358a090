package api

import (
	"github.com/gin-gonic/gin"

	"github.com/timmy/arbitrage/internal/api/handler"
	"github.com/timmy/arbitrage/internal/api/middleware"
	"github.com/timmy/arbitrage/internal/config"
	"github.com/timmy/arbitrage/internal/logger"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(lc handler.Lifecycle, cfg *config.Config, log *logger.Logger, version string) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler(version)
	viewHandler := handler.NewViewHandler(lc, 0)
	analysisHandler := handler.NewAnalysisHandler(lc)
	historyHandler := handler.NewHistoryHandler(lc)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		// View state
		v1.GET("/view", viewHandler.View)
		v1.GET("/events", viewHandler.Events)
		v1.POST("/home", historyHandler.Home)

		// Analyses
		v1.POST("/analyses", analysisHandler.Submit)
		v1.POST("/check-item", analysisHandler.CheckItem)

		// History
		v1.GET("/history", historyHandler.List)
		v1.POST("/history/:id/select", historyHandler.Select)
		v1.DELETE("/history/:id", historyHandler.Delete)
	}

	return r
}
