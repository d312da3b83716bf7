// Package validation checks listing drafts and contact emails before they
// reach the store.
package validation

import (
	"regexp"
	"strconv"
	"strings"

	"marketplace/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateDraft runs every field check and returns the accumulated errors
// keyed by field name. An empty map means the draft can be submitted.
func ValidateDraft(d model.Draft) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "Title is required"
	}

	switch {
	case d.Category == "":
		errs["category"] = "Category is required"
	case !model.IsCategory(d.Category):
		errs["category"] = "Invalid category"
	}

	if d.Price == "" {
		errs["price"] = "Price is required"
	} else if _, err := ParsePrice(d.Price); err != nil {
		errs["price"] = "Invalid price"
	}

	if strings.TrimSpace(d.Email) == "" {
		errs["email"] = "Email is required"
	} else if !IsEmail(d.Email) {
		errs["email"] = "Invalid email"
	}

	if strings.TrimSpace(d.Description) == "" {
		errs["description"] = "Description is required"
	}

	return errs
}

// ParsePrice coerces a submitted price to a number.
func ParsePrice(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
