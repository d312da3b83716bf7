package service

import (
	"strings"

	"github.com/xrash/smetrics"

	"marketplace/internal/model"
)

// suggestThreshold is the minimum Jaro-Winkler score for a "did you mean".
const suggestThreshold = 0.85

// BrowseState is the active category and panel of the browse surface.
type BrowseState struct {
	ActiveCategory  string `json:"active_category" form:"category"`
	ActivePanel     string `json:"active_panel" form:"panel"`
	SearchTerm      string `json:"search_term" form:"q"`
	ItemFormVisible bool   `json:"item_form_visible" form:"form"`
}

// NewBrowseState returns the initial state, switched to category when it
// names one of the fixed categories.
func NewBrowseState(category string) BrowseState {
	s := BrowseState{
		ActiveCategory: model.DefaultCategory,
		ActivePanel:    model.PanelChooseListingType,
	}
	if model.IsCategory(category) {
		s.ActiveCategory = category
		s.ActivePanel = category
	}
	return s
}

// Normalize replaces unknown category or panel values with the defaults.
func (s BrowseState) Normalize() BrowseState {
	if !model.IsCategory(s.ActiveCategory) {
		s.ActiveCategory = model.DefaultCategory
	}
	if !model.IsCategory(s.ActivePanel) && !model.IsPanel(s.ActivePanel) {
		s.ActivePanel = model.PanelChooseListingType
	}
	return s
}

// SelectCategory makes category the active category and panel.
func (s *BrowseState) SelectCategory(category string) {
	s.ActiveCategory = category
	s.ActivePanel = category
	s.ItemFormVisible = false
}

// FocusListing switches to the category of a newly created listing.
func (s *BrowseState) FocusListing(l *model.Listing) {
	s.SelectCategory(l.Category)
}

// SearchResult is the outcome of a category search.
type SearchResult struct {
	Matched    bool   `json:"matched"`
	Category   string `json:"category,omitempty"`
	Notice     string `json:"notice,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// SearchCategory returns the first category whose name contains term,
// ignoring case and surrounding whitespace.
func SearchCategory(term string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(term))
	for _, c := range model.Categories {
		if strings.Contains(strings.ToLower(c), needle) {
			return c, true
		}
	}
	return "", false
}

// ApplySearch switches to the matching category and clears the search
// term. Without a match the state is left untouched.
func (s *BrowseState) ApplySearch(term string) SearchResult {
	category, ok := SearchCategory(term)
	if !ok {
		return SearchResult{Notice: NoticeNoCategory, Suggestion: SuggestCategory(term)}
	}
	s.SelectCategory(category)
	s.SearchTerm = ""
	return SearchResult{Matched: true, Category: category}
}

// SuggestCategory returns the category closest to term, or "" when none is
// close enough.
func SuggestCategory(term string) string {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return ""
	}

	best, bestScore := "", 0.0
	for _, c := range model.Categories {
		score := smetrics.JaroWinkler(needle, strings.ToLower(c), 0.7, 4)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}
	return best
}
