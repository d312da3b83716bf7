package model

// DefaultLocation is stored when a listing is submitted without a location.
const DefaultLocation = "Palo Alto, CA"

type Listing struct {
	ID          string  `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Category    string  `db:"category" json:"category"`
	SellerEmail string  `db:"seller_email" json:"seller_email"`
	ImageURL    *string `db:"image_url" json:"image_url"` // nil when no photo was attached
	Location    string  `db:"location" json:"location"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}
