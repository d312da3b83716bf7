package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marketplace/internal/model"
)

type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert saves a message and returns it with its generated id and created_at.
func (r *MessageRepository) Insert(ctx context.Context, m model.Message) (*model.Message, error) {
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO messages (id, listing_id, buyer_email, seller_email, message, created_at)
		VALUES (:id, :listing_id, :buyer_email, :seller_email, :message, :created_at)
	`, m)
	if err != nil {
		return nil, fmt.Errorf("MessageRepository.Insert: %w", err)
	}
	return &m, nil
}

// FindByListing returns all messages for a listing, newest first.
func (r *MessageRepository) FindByListing(ctx context.Context, listingID string) ([]model.Message, error) {
	q := r.db.Rebind(`
		SELECT id, listing_id, buyer_email, seller_email, message, created_at
		FROM messages
		WHERE listing_id = ?
		ORDER BY created_at DESC
	`)
	var msgs []model.Message
	if err := r.db.SelectContext(ctx, &msgs, q, listingID); err != nil {
		return nil, fmt.Errorf("MessageRepository.FindByListing: %w", err)
	}
	return msgs, nil
}
