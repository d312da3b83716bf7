package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace/internal/logging"
)

// NewRouter wires every handler under /api.
func NewRouter(log *zap.Logger, listings *ListingHandler, messages *MessageHandler, images *ImageHandler) *gin.Engine {
	r := gin.New()
	r.Use(logging.Middleware(log), gin.Recovery())
	r.MaxMultipartMemory = MaxPhotoSize + 1<<20

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	listings.RegisterRoutes(api)
	messages.RegisterRoutes(api)
	images.RegisterRoutes(api)

	return r
}
