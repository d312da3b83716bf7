package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketplace/internal/model"
)

func newMessageFixture() (*MessageService, *fakeMessageStore) {
	listings := &fakeListingStore{rows: []model.Listing{
		{ID: "listing-1", Title: "Bike", Category: "Vehicles", SellerEmail: "a@b.com"},
	}}
	messages := &fakeMessageStore{}
	return NewMessageService(messages, listings, zap.NewNop()), messages
}

func TestMessageService_Send_invalidEmailCreatesNothing(t *testing.T) {
	t.Parallel()

	svc, store := newMessageFixture()

	for _, email := range []string{"", "not-an-email", "a@b"} {
		_, err := svc.Send(context.Background(), "listing-1", email, "hi")
		assert.ErrorIs(t, err, ErrInvalidBuyerEmail, email)
	}
	assert.Empty(t, store.rows)
}

func TestMessageService_Send_copiesSellerEmail(t *testing.T) {
	t.Parallel()

	svc, store := newMessageFixture()

	msg, err := svc.Send(context.Background(), "listing-1", "buyer@x.com", "Still available?")
	require.NoError(t, err)

	assert.Equal(t, "listing-1", msg.ListingID)
	assert.Equal(t, "buyer@x.com", msg.BuyerEmail)
	assert.Equal(t, "a@b.com", msg.SellerEmail)
	assert.Equal(t, "Still available?", msg.Message)
	assert.Len(t, store.rows, 1)
}

func TestMessageService_Send_blankTextUsesDefault(t *testing.T) {
	t.Parallel()

	svc, _ := newMessageFixture()

	msg, err := svc.Send(context.Background(), "listing-1", "buyer@x.com", "   ")
	require.NoError(t, err)
	assert.Equal(t, "I'm interested in your item!", msg.Message)
}

func TestMessageService_Send_unknownListing(t *testing.T) {
	t.Parallel()

	svc, store := newMessageFixture()

	_, err := svc.Send(context.Background(), "missing", "buyer@x.com", "hi")
	assert.ErrorIs(t, err, ErrListingNotFound)
	assert.Empty(t, store.rows)
}

func TestMessageService_Send_storeFailure(t *testing.T) {
	t.Parallel()

	svc, store := newMessageFixture()
	store.insertErr = errBackend

	_, err := svc.Send(context.Background(), "listing-1", "buyer@x.com", "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBackend))
	assert.False(t, errors.Is(err, ErrInvalidBuyerEmail))
}

func TestMessageService_List(t *testing.T) {
	t.Parallel()

	svc, _ := newMessageFixture()
	_, err := svc.Send(context.Background(), "listing-1", "buyer@x.com", "one")
	require.NoError(t, err)

	msgs, err := svc.List(context.Background(), "listing-1")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = svc.List(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestResetForm(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MessageForm{Message: model.DefaultMessage}, ResetForm())
}

// Bike listing is created from the sidebar, then contacted from its detail view.
func TestListingLifecycle_submitThenMessageSeller(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	listings := &fakeListingStore{}
	messages := &fakeMessageStore{}
	workflow := NewSubmissionWorkflow(listings, NewImageUploader(newFakeImageStore(), testBaseURL), zap.NewNop())
	msgSvc := NewMessageService(messages, listings, zap.NewNop())

	sub, err := workflow.Submit(ctx, bikeDraft(), nil)
	require.NoError(t, err)
	assert.Nil(t, sub.Listing.ImageURL)
	assert.Equal(t, "Palo Alto, CA", sub.Listing.Location)
	assert.Equal(t, sub.Listing.ID, sub.Navigation.ListingID)

	_, err = msgSvc.Send(ctx, sub.Navigation.ListingID, "not-an-email", model.DefaultMessage)
	assert.ErrorIs(t, err, ErrInvalidBuyerEmail)
	assert.Empty(t, messages.rows)

	msg, err := msgSvc.Send(ctx, sub.Navigation.ListingID, "buyer@x.com", model.DefaultMessage)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", msg.SellerEmail)
	assert.Equal(t, sub.Listing.ID, msg.ListingID)
}
