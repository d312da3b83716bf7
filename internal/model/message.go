package model

// DefaultMessage is the canned text a buyer starts from.
const DefaultMessage = "I'm interested in your item!"

// Message is a buyer's contact request for a listing.
// SellerEmail is copied from the listing at send time.
type Message struct {
	ID          string `db:"id" json:"id"`
	ListingID   string `db:"listing_id" json:"listing_id"`
	BuyerEmail  string `db:"buyer_email" json:"buyer_email"`
	SellerEmail string `db:"seller_email" json:"seller_email"`
	Message     string `db:"message" json:"message"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}
