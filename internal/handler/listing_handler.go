package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/internal/service"
)

// MaxPhotoSize is the largest photo accepted with a listing.
const MaxPhotoSize = 5 << 20

type Submitter interface {
	Submit(ctx context.Context, d model.Draft, after service.AfterSubmit) (*service.Submission, error)
}

type ListingReader interface {
	FetchAll(ctx context.Context) ([]model.Listing, error)
	FetchByID(ctx context.Context, id string) (*model.Listing, error)
}

// ListingHandler serves browsing, listing detail and both listing
// creation surfaces.
type ListingHandler struct {
	Workflow Submitter
	Listings ListingReader
	Catalog  *service.Catalog
	Log      *zap.Logger
}

// RegisterRoutes registers the listing routes under rg.
func (h *ListingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.GetCategories)

	rg.GET("/browse", h.Browse)
	rg.GET("/browse/search", h.SearchCategory)
	rg.POST("/browse/listings", h.CreateFromSidebar)

	rg.GET("/listings", h.GetListings)
	rg.GET("/listings/:id", h.GetListingByID)
	rg.POST("/listings", h.CreateListing)
}

// GET /api/categories
func (h *ListingHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": model.Categories, "panels": model.Panels})
}

// GET /api/browse?category=...&panel=...&q=...
func (h *ListingHandler) Browse(c *gin.Context) {
	state := h.browseStateFromQuery(c)
	h.Catalog.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, h.Catalog.View(state))
}

// GET /api/browse/search?q=...
func (h *ListingHandler) SearchCategory(c *gin.Context) {
	state := h.browseStateFromQuery(c)
	term := state.SearchTerm

	res := state.ApplySearch(term)
	if !res.Matched {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      res.Notice,
			"suggestion": res.Suggestion,
			"state":      state,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "state": state})
}

// POST /api/browse/listings
//
// The sidebar form refreshes the grouped listings before navigating and
// focuses the new listing's category.
func (h *ListingHandler) CreateFromSidebar(c *gin.Context) {
	sub, ok := h.submit(c, h.Catalog.RefreshAfterSubmit)
	if !ok {
		return
	}

	state := service.NewBrowseState("")
	state.FocusListing(sub.Listing)

	c.Header("Location", sub.Navigation.Path)
	c.JSON(http.StatusCreated, gin.H{
		"listing":    sub.Listing,
		"navigation": sub.Navigation,
		"shared":     sub.Shared,
		"state":      state,
	})
}

// POST /api/listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	sub, ok := h.submit(c, nil)
	if !ok {
		return
	}

	c.Header("Location", sub.Navigation.Path)
	c.JSON(http.StatusCreated, gin.H{
		"listing":    sub.Listing,
		"navigation": sub.Navigation,
		"shared":     sub.Shared,
	})
}

// GET /api/listings?category=...&q=...
func (h *ListingHandler) GetListings(c *gin.Context) {
	list, err := h.Listings.FetchAll(c.Request.Context())
	if err != nil {
		// load failures leave the view empty
		h.Log.Warn("listing fetch failed", zap.Error(err))
		list = nil
	}

	if category := c.Query("category"); category != "" {
		list = service.GroupByCategory(list)[category]
	}
	list = service.FilterByTitle(list, c.Query("q"))
	if list == nil {
		list = []model.Listing{}
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/listings/:id
func (h *ListingHandler) GetListingByID(c *gin.Context) {
	listing, err := h.Listings.FetchByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		h.Log.Error("listing lookup failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load listing"})
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) submit(c *gin.Context, after service.AfterSubmit) (*service.Submission, bool) {
	var draft model.Draft
	if err := c.ShouldBind(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return nil, false
	}

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		fileHeader, err := c.FormFile("photo")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read photo"})
			return nil, false
		default:
			contentType := fileHeader.Header.Get("Content-Type")
			if !strings.HasPrefix(contentType, "image/") || fileHeader.Size > MaxPhotoSize {
				c.JSON(http.StatusBadRequest, gin.H{"error": "photo must be a JPEG, PNG, or WebP image up to 5MB"})
				return nil, false
			}

			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot open file"})
				return nil, false
			}
			defer file.Close()

			draft.Photo = &model.Photo{
				Filename:    fileHeader.Filename,
				ContentType: contentType,
				Size:        fileHeader.Size,
				Body:        file,
			}
		}
	}

	sub, err := h.Workflow.Submit(c.Request.Context(), draft, after)
	if err != nil {
		h.writeSubmitError(c, err)
		return nil, false
	}
	return sub, true
}

func (h *ListingHandler) writeSubmitError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
		return
	}

	var serr *service.SubmitError
	if errors.As(err, &serr) {
		switch serr.Stage {
		case service.StageUpload:
			c.JSON(http.StatusBadGateway, gin.H{"error": serr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":        serr.Error(),
				"after_upload": serr.AfterUpload,
				"cleaned_up":   serr.CleanedUp,
			})
		}
		return
	}

	h.Log.Error("listing submission failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create listing"})
}

func (h *ListingHandler) browseStateFromQuery(c *gin.Context) service.BrowseState {
	var state service.BrowseState
	if err := c.ShouldBindQuery(&state); err != nil {
		// unbound fields keep their defaults
		h.Log.Debug("browse query ignored", zap.String("query", c.Request.URL.RawQuery), zap.Error(err))
	}
	if state.ActivePanel == "" {
		s := service.NewBrowseState(state.ActiveCategory)
		s.SearchTerm = state.SearchTerm
		s.ItemFormVisible = state.ItemFormVisible
		return s
	}
	return state.Normalize()
}
