package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"marketplace/internal/model"
	"marketplace/internal/repository"
)

type fakeListingStore struct {
	mu        sync.Mutex
	rows      []model.Listing
	inserts   int
	insertErr error
	fetchErr  error
	// insertGate, when set, blocks Insert until it is closed.
	insertGate chan struct{}
	started    chan struct{}
}

func (f *fakeListingStore) FetchAll(ctx context.Context) ([]model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]model.Listing(nil), f.rows...), nil
}

func (f *fakeListingStore) FetchByID(ctx context.Context, id string) (*model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.rows {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, fmt.Errorf("fake: %w", repository.ErrNotFound)
}

func (f *fakeListingStore) Insert(ctx context.Context, l model.Listing) (*model.Listing, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.insertGate != nil {
		<-f.insertGate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	l.ID = fmt.Sprintf("listing-%d", len(f.rows)+1)
	l.CreatedAt = "2026-01-01T00:00:00Z"
	f.rows = append(f.rows, l)
	return &l, nil
}

type fakeImageStore struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	uploads   int
	uploadErr error
	deleteErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{blobs: map[string][]byte{}}
}

func (f *fakeImageStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.blobs[key] = data
	return nil
}

func (f *fakeImageStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.blobs[key]; !ok {
		return repository.ErrNotFound
	}
	delete(f.blobs, key)
	return nil
}

type fakeMessageStore struct {
	mu        sync.Mutex
	rows      []model.Message
	insertErr error
}

func (f *fakeMessageStore) Insert(ctx context.Context, m model.Message) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	m.ID = fmt.Sprintf("message-%d", len(f.rows)+1)
	f.rows = append(f.rows, m)
	return &m, nil
}

func (f *fakeMessageStore) FindByListing(ctx context.Context, listingID string) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Message
	for _, m := range f.rows {
		if m.ListingID == listingID {
			out = append(out, m)
		}
	}
	return out, nil
}

var errBackend = errors.New("backend unavailable")
