package service

import (
	"context"
	"testing"

	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingCreateValidation(t *testing.T) {
	svc := NewListingService(newFakeListingRepo())
	ctx := context.Background()

	tests := []struct {
		name    string
		seller  string
		kind    model.ListingKind
		title   string
		desc    string
		wantErr bool
	}{
		{"valid item", "u1", model.ListingKindItem, "bike", "red bike", false},
		{"valid gig", "u1", model.ListingKindGig, "tutoring", "calc 1", false},
		{"defaults kind to item", "u1", "", "bike", "red bike", false},
		{"unknown kind", "u1", "service", "bike", "red bike", true},
		{"empty title", "u1", model.ListingKindItem, "  ", "desc", true},
		{"empty description", "u1", model.ListingKindItem, "bike", "", true},
		{"missing seller", "", model.ListingKindItem, "bike", "desc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := svc.Create(ctx, tt.seller, tt.kind, tt.title, tt.desc, 100, "misc", nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.ListingStatusActive, l.Status)
			if tt.kind == "" {
				assert.Equal(t, model.ListingKindItem, l.Kind)
			}
		})
	}
}

func TestListingMarkSoldGuards(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewListingService(repo)
	ctx := context.Background()
	l := repo.add(model.Listing{SellerUID: "owner", Title: "desk", Description: "ok", Status: model.ListingStatusActive})

	_, err := svc.MarkSold(ctx, 9999, "owner", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.MarkSold(ctx, l.ID, "intruder", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	sold, err := svc.MarkSold(ctx, l.ID, "owner", strPtr("buyer"))
	require.NoError(t, err)
	assert.Equal(t, model.ListingStatusSold, sold.Status)

	_, err = svc.MarkSold(ctx, l.ID, "owner", strPtr("buyer"))
	assert.ErrorIs(t, err, ErrAlreadySold)
}

func TestListingReopenGuards(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewListingService(repo)
	ctx := context.Background()
	buyer := "buyer"
	l := repo.add(model.Listing{SellerUID: "owner", Title: "desk", Description: "ok", Status: model.ListingStatusSold, BuyerUID: &buyer})

	_, err := svc.Reopen(ctx, l.ID, "intruder")
	assert.ErrorIs(t, err, ErrForbidden)

	reopened, err := svc.Reopen(ctx, l.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, model.ListingStatusActive, reopened.Status)
	assert.Nil(t, reopened.BuyerUID)

	_, err = svc.Reopen(ctx, l.ID, "owner")
	assert.ErrorIs(t, err, ErrNotSold)
}

func TestListingUpdateOnlyOwner(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewListingService(repo)
	ctx := context.Background()
	l := repo.add(model.Listing{SellerUID: "owner", Title: "desk", Description: "ok", Status: model.ListingStatusActive})

	_, err := svc.Update(ctx, l.ID, "intruder", "desk v2", "still ok", 150, "misc", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, l.ID, "owner", "desk v2", "still ok", 150, "misc", nil)
	require.NoError(t, err)
	assert.Equal(t, "desk v2", updated.Title)
	assert.Equal(t, uint(150), updated.Price)
}
