package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace/internal/repository"
)

type ImageDownloader interface {
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// ImageHandler serves uploaded listing photos at their public URL.
type ImageHandler struct {
	Images ImageDownloader
	Log    *zap.Logger
}

func (h *ImageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/images/:key", h.GetImage)
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	key := c.Param("key")

	data, contentType, err := h.Images.Download(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		h.Log.Error("image download failed", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		return
	}

	c.Header("Content-Disposition", "inline; filename="+key)
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, contentType, data)
}
