package model

// Categories is the fixed, ordered list of listing categories.
var Categories = []string{
	"Vehicles", "Property Rentals", "Apparel", "Classifieds", "Electronics",
	"Entertainment", "Family", "Free Stuff", "Garden & Outdoor", "Hobbies",
	"Home Goods", "Home Improvement", "Home Sales", "Musical Instruments",
	"Office Supplies", "Pet Supplies", "Sporting Goods", "Toys & Games", "Buy and sell groups",
}

// Panels that are not categories.
const (
	PanelChooseListingType = "Choose listing type"
	PanelYourListings      = "Your listings"
	PanelSellerHelp        = "Seller help"
)

var Panels = []string{PanelChooseListingType, PanelYourListings, PanelSellerHelp}

const DefaultCategory = "Electronics"

func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

func IsPanel(name string) bool {
	for _, p := range Panels {
		if p == name {
			return true
		}
	}
	return false
}
