package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	eventH *EventHandler,
	profileH *ProfileHandler,
	metricH *MetricHandler,
	runH *RunHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.POST("/events", eventH.IngestEvent)

	r.GET("/profiles", profileH.GetProfile)
	r.GET("/profiles/:id/traits/history", profileH.GetTraitHistory)
	r.DELETE("/users/:id", profileH.EraseUser)

	orgs := r.Group("/organizations")
	orgs.GET("/:id/metric-suggestions", metricH.GetSuggestions)
	orgs.POST("/:id/cache/invalidate", metricH.InvalidateCache)

	runs := r.Group("/runs")
	runs.POST("", runH.StartRun)
	runs.GET("/:id", runH.GetRun)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
