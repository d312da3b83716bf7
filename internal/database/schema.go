package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// The column types are accepted by both Postgres and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL,
		price        DOUBLE PRECISION NOT NULL,
		category     TEXT NOT NULL,
		seller_email TEXT NOT NULL,
		image_url    TEXT,
		location     TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS listings_category_idx ON listings (category)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id           TEXT PRIMARY KEY,
		listing_id   TEXT NOT NULL REFERENCES listings (id),
		buyer_email  TEXT NOT NULL,
		seller_email TEXT NOT NULL,
		message      TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS messages_listing_idx ON messages (listing_id)`,
}

// Migrate creates the listings and messages tables if they are missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database: migrate: %w", err)
		}
	}
	return nil
}
