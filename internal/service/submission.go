package service

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"marketplace/internal/model"
	"marketplace/internal/validation"
)

// State is a step of a listing submission.
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateUploadingPhoto State = "uploading_photo"
	StateInserting      State = "inserting"
	StateRefreshingList State = "refreshing_list"
	StateNavigating     State = "navigating"
	StateDone           State = "done"
)

// Stage names the step a submission failed in.
type Stage int

const (
	StageUpload Stage = iota + 1
	StageInsert
)

func (s Stage) String() string {
	switch s {
	case StageUpload:
		return "upload"
	case StageInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// ValidationError carries the per-field errors of a rejected draft.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid draft: " + strings.Join(keys, ", ")
}

// SubmitError is a terminal failure after validation passed.
//
// AfterUpload is set when the photo was already stored when the insert
// failed. CleanedUp reports whether that photo was deleted again.
type SubmitError struct {
	Stage       Stage
	AfterUpload bool
	ImageKey    string
	CleanedUp   bool
	Err         error
}

func (e *SubmitError) Error() string {
	if e.Stage == StageUpload {
		return NoticeUploadFailed
	}
	return NoticeCreateFailed + e.Err.Error()
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Navigation is where the client goes after a successful submission.
type Navigation struct {
	ListingID string `json:"listing_id"`
	Category  string `json:"category"`
	Path      string `json:"path"`
}

// NavigationFor returns the detail view of l with its category as context.
func NavigationFor(l *model.Listing) Navigation {
	return Navigation{
		ListingID: l.ID,
		Category:  l.Category,
		Path:      "/listing/" + url.PathEscape(l.ID) + "?category=" + url.QueryEscape(l.Category),
	}
}

// Submission is the outcome of a successful workflow run. Shared is set
// when the result was produced by an identical submission already in flight.
type Submission struct {
	Listing    *model.Listing
	Navigation Navigation
	Shared     bool
}

// AfterSubmit runs once the listing is stored and before navigation.
type AfterSubmit func(ctx context.Context, created *model.Listing)

// SubmissionWorkflow validates a draft, uploads its photo, inserts the
// listing and hands the result to the calling surface.
type SubmissionWorkflow struct {
	listings ListingStore
	uploader *ImageUploader
	log      *zap.Logger
	inflight singleflight.Group
}

func NewSubmissionWorkflow(listings ListingStore, uploader *ImageUploader, log *zap.Logger) *SubmissionWorkflow {
	return &SubmissionWorkflow{
		listings: listings,
		uploader: uploader,
		log:      log,
	}
}

// Submit runs the workflow for d. Identical drafts without a photo that
// arrive while one is still inserting share its result instead of
// inserting twice. The after hook runs once per caller.
func (w *SubmissionWorkflow) Submit(ctx context.Context, d model.Draft, after AfterSubmit) (*Submission, error) {
	w.transition(StateValidating, d)
	if errs := validation.ValidateDraft(d); len(errs) > 0 {
		w.transition(StateIdle, d, zap.Any("errors", errs))
		return nil, &ValidationError{Fields: errs}
	}

	var (
		created *model.Listing
		shared  bool
		err     error
	)
	if d.Photo != nil {
		// each photo is its own upload, so these never share a result
		created, err = w.create(ctx, d)
	} else {
		var v interface{}
		// the shared insert must not fail because one waiting client left
		sharedCtx := context.WithoutCancel(ctx)
		v, err, shared = w.inflight.Do(submissionKey(d), func() (interface{}, error) {
			return w.create(sharedCtx, d)
		})
		if err == nil {
			created = v.(*model.Listing)
		}
	}
	if err != nil {
		return nil, err
	}

	listing := *created
	w.transition(StateRefreshingList, d, zap.String("listing_id", listing.ID), zap.Bool("shared", shared))
	if after != nil {
		after(ctx, &listing)
	}

	w.transition(StateNavigating, d, zap.String("listing_id", listing.ID))
	nav := NavigationFor(&listing)
	w.transition(StateDone, d, zap.String("path", nav.Path))

	return &Submission{Listing: &listing, Navigation: nav, Shared: shared}, nil
}

// create uploads the photo, if any, and inserts the listing.
func (w *SubmissionWorkflow) create(ctx context.Context, d model.Draft) (*model.Listing, error) {
	price, err := validation.ParsePrice(d.Price)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"price": "Invalid price"}}
	}

	var image *UploadedImage
	if d.Photo != nil {
		w.transition(StateUploadingPhoto, d)
		image, err = w.uploader.Upload(ctx, d.Photo)
		if err != nil {
			w.log.Warn("photo upload failed", zap.Error(err))
			w.transition(StateIdle, d)
			return nil, &SubmitError{Stage: StageUpload, Err: err}
		}
	}

	listing := model.Listing{
		Title:       d.Title,
		Description: d.Description,
		Price:       price,
		Category:    d.Category,
		SellerEmail: d.Email,
		Location:    listingLocation(d),
	}
	if image != nil {
		listing.ImageURL = &image.URL
	}

	w.transition(StateInserting, d)
	created, err := w.listings.Insert(ctx, listing)
	if err != nil {
		serr := &SubmitError{Stage: StageInsert, Err: err}
		if image != nil {
			serr.AfterUpload = true
			serr.ImageKey = image.Key
			if derr := w.uploader.Discard(ctx, image.Key); derr != nil {
				w.log.Warn("orphaned photo left in store", zap.String("key", image.Key), zap.Error(derr))
			} else {
				serr.CleanedUp = true
			}
		}
		w.log.Error("listing insert failed", zap.Error(err), zap.Bool("after_upload", serr.AfterUpload))
		w.transition(StateIdle, d)
		return nil, serr
	}
	return created, nil
}

func (w *SubmissionWorkflow) transition(s State, d model.Draft, fields ...zap.Field) {
	w.log.Debug("submission state",
		append([]zap.Field{zap.String("state", string(s)), zap.String("title", d.Title)}, fields...)...)
}

func listingLocation(d model.Draft) string {
	if strings.TrimSpace(d.Location) == "" {
		return model.DefaultLocation
	}
	return d.Location
}

// submissionKey identifies a photo-less draft for duplicate suppression.
// It covers every field that reaches the stored listing, unnormalized.
func submissionKey(d model.Draft) string {
	return strings.Join([]string{
		d.Email,
		d.Title,
		d.Category,
		d.Price,
		d.Description,
		listingLocation(d),
	}, "\x00")
}
