package service

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"marketplace/internal/model"
)

// UploadedImage is a stored photo and the URL it is publicly served from.
type UploadedImage struct {
	Key string
	URL string
}

// ImageUploader stores draft photos under collision-resistant keys.
type ImageUploader struct {
	store   ImageStore
	baseURL string
}

// NewImageUploader returns an uploader whose public URLs are rooted at
// publicBaseURL.
func NewImageUploader(store ImageStore, publicBaseURL string) *ImageUploader {
	return &ImageUploader{
		store:   store,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// StorageKey derives a unique object key that keeps the file's extension.
func StorageKey(filename string) string {
	return uuid.NewString() + path.Ext(filename)
}

// PublicURL resolves the address an uploaded key is served from.
func (u *ImageUploader) PublicURL(key string) string {
	return u.baseURL + "/api/images/" + url.PathEscape(key)
}

func (u *ImageUploader) Upload(ctx context.Context, p *model.Photo) (*UploadedImage, error) {
	key := StorageKey(p.Filename)
	if err := u.store.Upload(ctx, key, p.Body, p.ContentType); err != nil {
		return nil, fmt.Errorf("ImageUploader.Upload: %s: %w", key, err)
	}
	return &UploadedImage{Key: key, URL: u.PublicURL(key)}, nil
}

// Discard deletes an uploaded image that ended up unreferenced.
func (u *ImageUploader) Discard(ctx context.Context, key string) error {
	if err := u.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("ImageUploader.Discard: %s: %w", key, err)
	}
	return nil
}
