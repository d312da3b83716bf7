package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/internal/validation"
)

var (
	ErrInvalidBuyerEmail = errors.New("invalid buyer email")
	ErrListingNotFound   = errors.New("listing not found")
)

// MessageForm is the contact form state after a successful send.
type MessageForm struct {
	BuyerEmail string `json:"buyer_email"`
	Message    string `json:"message"`
}

// MessageService sends buyer messages to the seller of a listing.
type MessageService struct {
	messages MessageStore
	listings ListingStore
	log      *zap.Logger
}

func NewMessageService(messages MessageStore, listings ListingStore, log *zap.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		listings: listings,
		log:      log,
	}
}

// Send checks the buyer email, looks up the listing and stores a message
// addressed to its seller. A blank text falls back to the canned message.
func (s *MessageService) Send(ctx context.Context, listingID, buyerEmail, text string) (*model.Message, error) {
	if !validation.IsEmail(buyerEmail) {
		return nil, ErrInvalidBuyerEmail
	}

	listing, err := s.listing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("MessageService.Send: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		text = model.DefaultMessage
	}

	msg, err := s.messages.Insert(ctx, model.Message{
		ListingID:   listing.ID,
		BuyerEmail:  buyerEmail,
		SellerEmail: listing.SellerEmail,
		Message:     text,
	})
	if err != nil {
		s.log.Error("error sending message", zap.String("listing_id", listingID), zap.Error(err))
		return nil, fmt.Errorf("MessageService.Send: insert: %w", err)
	}
	return msg, nil
}

// ResetForm is the contact form state after a message went out.
func ResetForm() MessageForm {
	return MessageForm{Message: model.DefaultMessage}
}

// List returns the messages for a listing, newest first.
func (s *MessageService) List(ctx context.Context, listingID string) ([]model.Message, error) {
	if _, err := s.listing(ctx, listingID); err != nil {
		return nil, fmt.Errorf("MessageService.List: %w", err)
	}
	msgs, err := s.messages.FindByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("MessageService.List: %w", err)
	}
	return msgs, nil
}

func (s *MessageService) listing(ctx context.Context, id string) (*model.Listing, error) {
	l, err := s.listings.FetchByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("listing %s: %w", id, ErrListingNotFound)
	}
	return l, err
}
