package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmovs/decanting/internal/server/handlers"
	"github.com/farmovs/decanting/internal/server/middleware"
	"github.com/farmovs/decanting/internal/service/auth"
)

// New wires the Gin engine with required routes and middlewares. Everything
// under /api requires a valid session; registration, login, and the health
// probe stay open.
func New(recordHandler *handlers.RecordHandler, authHandler *handlers.AuthHandler, exportHandler *handlers.ExportHandler, authSvc *auth.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.RequireSession(authSvc, logger))

	api.POST("/records", recordHandler.Create)
	api.GET("/records", recordHandler.List)
	api.GET("/records/:id", recordHandler.Get)
	api.PUT("/records/:id", recordHandler.Update)
	api.DELETE("/records/:id", recordHandler.Delete)
	api.POST("/records/:id/restore", recordHandler.Restore)
	api.GET("/records/:id/qr.png", recordHandler.QRImage)
	api.GET("/records/:id/form.pdf", recordHandler.FormPDF)
	api.GET("/records/:id/qr.pdf", recordHandler.QRPDF)
	api.GET("/resolve", recordHandler.Resolve)
	api.POST("/export", exportHandler.Export)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
