// Package service holds the listing submission workflow, the browse catalog,
// category search and seller messaging.
package service

import (
	"context"
	"io"

	"marketplace/internal/model"
)

// ListingStore is the listings table.
type ListingStore interface {
	FetchAll(ctx context.Context) ([]model.Listing, error)
	FetchByID(ctx context.Context, id string) (*model.Listing, error)
	Insert(ctx context.Context, l model.Listing) (*model.Listing, error)
}

// MessageStore is the messages table.
type MessageStore interface {
	Insert(ctx context.Context, m model.Message) (*model.Message, error)
	FindByListing(ctx context.Context, listingID string) ([]model.Message, error)
}

// ImageStore is the object store holding listing photos.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
}
