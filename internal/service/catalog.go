package service

import (
	"context"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"marketplace/internal/model"
)

// GroupByCategory buckets listings by their category, keeping the order
// they were received in.
func GroupByCategory(listings []model.Listing) map[string][]model.Listing {
	grouped := map[string][]model.Listing{}
	for _, l := range listings {
		grouped[l.Category] = append(grouped[l.Category], l)
	}
	return grouped
}

// FilterByTitle keeps the listings whose title contains term, ignoring case.
// A blank term keeps everything.
func FilterByTitle(listings []model.Listing, term string) []model.Listing {
	if strings.TrimSpace(term) == "" {
		return listings
	}
	term = strings.ToLower(term)

	out := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Title), term) {
			out = append(out, l)
		}
	}
	return out
}

// Snapshot is one complete load of the listing collection.
type Snapshot struct {
	All        []model.Listing
	ByCategory map[string][]model.Listing
}

// Catalog holds the listing collection the browse view reads from. Each
// refresh replaces the whole snapshot in a single store.
type Catalog struct {
	listings ListingStore
	log      *zap.Logger
	current  atomic.Pointer[Snapshot]
}

func NewCatalog(listings ListingStore, log *zap.Logger) *Catalog {
	c := &Catalog{listings: listings, log: log}
	c.current.Store(&Snapshot{ByCategory: map[string][]model.Listing{}})
	return c
}

// Refresh reloads every listing and regroups them. On a fetch failure the
// previous snapshot stays in place.
func (c *Catalog) Refresh(ctx context.Context) {
	all, err := c.listings.FetchAll(ctx)
	if err != nil {
		c.log.Warn("listing refresh failed, keeping previous snapshot", zap.Error(err))
		return
	}
	c.current.Store(&Snapshot{All: all, ByCategory: GroupByCategory(all)})
	c.log.Debug("catalog refreshed", zap.Int("listings", len(all)))
}

func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// RefreshAfterSubmit is the post-submission hook of the sidebar form.
func (c *Catalog) RefreshAfterSubmit(ctx context.Context, _ *model.Listing) {
	c.Refresh(ctx)
}

// BrowseView is what the browse surface renders for a given state.
type BrowseView struct {
	State      BrowseState     `json:"state"`
	Categories []string        `json:"categories"`
	Panels     []string        `json:"panels"`
	ShowCards  bool            `json:"show_cards"`
	Listings   []model.Listing `json:"listings"`
}

// View renders state against the current snapshot. Listings are only shown
// when a category panel is active, filtered by the search term on title.
func (c *Catalog) View(state BrowseState) BrowseView {
	v := BrowseView{
		State:      state,
		Categories: model.Categories,
		Panels:     model.Panels,
		ShowCards:  model.IsPanel(state.ActivePanel) && !state.ItemFormVisible,
		Listings:   []model.Listing{},
	}
	if model.IsCategory(state.ActivePanel) && !state.ItemFormVisible {
		v.Listings = FilterByTitle(c.Snapshot().ByCategory[state.ActiveCategory], state.SearchTerm)
	}
	return v
}
