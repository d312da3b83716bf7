package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace/internal/model"
	"marketplace/internal/service"
)

type MessageSender interface {
	Send(ctx context.Context, listingID, buyerEmail, text string) (*model.Message, error)
	List(ctx context.Context, listingID string) ([]model.Message, error)
}

// MessageRequestDTO is the contact form posted from a listing's detail view.
type MessageRequestDTO struct {
	BuyerEmail string `json:"buyer_email" form:"buyer_email"`
	Message    string `json:"message" form:"message"`
}

// MessageHandler ties the contact form to the MessageService.
type MessageHandler struct {
	messages MessageSender
	log      *zap.Logger
}

func NewMessageHandler(ms MessageSender, log *zap.Logger) *MessageHandler {
	return &MessageHandler{messages: ms, log: log}
}

// RegisterRoutes registers:
//
//	GET  /api/listings/:id/messages
//	POST /api/listings/:id/messages
func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/listings/:id/messages")
	{
		grp.GET("", h.GetMessages)
		grp.POST("", h.SendMessage)
	}
}

// SendMessage handles POST /api/listings/:id/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req MessageRequestDTO
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), c.Param("id"), req.BuyerEmail, req.Message)
	switch {
	case errors.Is(err, service.ErrInvalidBuyerEmail):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  service.NoticeInvalidBuyerEmail,
			"fields": gin.H{"buyer_email": service.NoticeInvalidBuyerEmail},
		})
		return
	case errors.Is(err, service.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	case err != nil:
		h.log.Error("message send failed", zap.String("listing_id", c.Param("id")), zap.Error(err))
		// the form keeps its values so the buyer can retry
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.NoticeMessageFailed})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"notice":  service.NoticeMessageSent,
		"message": msg,
		"form":    service.ResetForm(),
	})
}

// GetMessages handles GET /api/listings/:id/messages
func (h *MessageHandler) GetMessages(c *gin.Context) {
	msgs, err := h.messages.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		h.log.Error("message list failed", zap.String("listing_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	c.JSON(http.StatusOK, msgs)
}
