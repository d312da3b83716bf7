package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marketplace/internal/model"
)

type ListingRepository struct {
	DB *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{DB: db}
}

const listingColumns = `id, title, description, price, category, seller_email, image_url, location, created_at`

// FetchAll returns every listing in the order the store yields them.
func (r *ListingRepository) FetchAll(ctx context.Context) ([]model.Listing, error) {
	var list []model.Listing
	if err := r.DB.SelectContext(ctx, &list, `SELECT `+listingColumns+` FROM listings`); err != nil {
		return nil, fmt.Errorf("ListingRepository.FetchAll: %w", err)
	}
	return list, nil
}

func (r *ListingRepository) FetchByID(ctx context.Context, id string) (*model.Listing, error) {
	var l model.Listing
	q := r.DB.Rebind(`SELECT ` + listingColumns + ` FROM listings WHERE id = ?`)
	if err := r.DB.GetContext(ctx, &l, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ListingRepository.FetchByID: listing %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("ListingRepository.FetchByID: %w", err)
	}
	return &l, nil
}

// Insert stores l and returns the created row with its generated id and
// creation time. l itself is not modified.
func (r *ListingRepository) Insert(ctx context.Context, l model.Listing) (*model.Listing, error) {
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO listings
			(id, title, description, price, category, seller_email, image_url, location, created_at)
		VALUES
			(:id, :title, :description, :price, :category, :seller_email, :image_url, :location, :created_at)
	`, l)
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.Insert: %w", err)
	}
	return &l, nil
}
