package service

import (
	"context"
	"errors"
	"strings"

	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/keirara04/labmarket-backend/internal/repository"
	"gorm.io/gorm"
)

// ListingService is the authoritative store of each listing's sale status and
// buyer linkage. MarkSold and Reopen are only ever called through the
// transaction service so that sale-status transitions stay behind its guards.
type ListingService interface {
	Create(ctx context.Context, sellerUID string, kind model.ListingKind, title, description string, price uint, categorySlug string, imageURL *string) (*model.Listing, error)
	Update(ctx context.Context, id uint64, sellerUID, title, description string, price uint, categorySlug string, imageURL *string) (*model.Listing, error)
	Get(ctx context.Context, id uint64) (*model.Listing, error)
	List(ctx context.Context, limit, offset int, categorySlug string, kind model.ListingKind) ([]model.Listing, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error)
	MarkSold(ctx context.Context, id uint64, sellerUID string, buyerUID *string) (*model.Listing, error)
	Reopen(ctx context.Context, id uint64, sellerUID string) (*model.Listing, error)
	WithTx(tx *gorm.DB) ListingService
}

type listingService struct {
	repo repository.ListingRepository
}

func NewListingService(repo repository.ListingRepository) ListingService {
	return &listingService{repo: repo}
}

func (s *listingService) Create(ctx context.Context, sellerUID string, kind model.ListingKind, title, description string, price uint, categorySlug string, imageURL *string) (*model.Listing, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	categorySlug = strings.TrimSpace(categorySlug)
	if title == "" || len(title) > 120 {
		return nil, errors.New("invalid title")
	}
	if description == "" {
		return nil, errors.New("invalid description")
	}
	if kind == "" {
		kind = model.ListingKindItem
	}
	if kind != model.ListingKindItem && kind != model.ListingKindGig {
		return nil, errors.New("invalid kind")
	}
	if imageURL != nil && strings.HasPrefix(strings.TrimSpace(*imageURL), "data:") {
		return nil, errors.New("imageUrl must be a URL, not data URI")
	}

	l := &model.Listing{
		SellerUID:    sellerUID,
		Kind:         kind,
		Title:        title,
		Description:  description,
		Price:        price,
		CategorySlug: categorySlug,
		ImageURL:     imageURL,
		Status:       model.ListingStatusActive,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *listingService) Update(ctx context.Context, id uint64, sellerUID, title, description string, price uint, categorySlug string, imageURL *string) (*model.Listing, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.SellerUID != sellerUID {
		return nil, ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 120 {
		return nil, errors.New("invalid title")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.New("invalid description")
	}
	l.Title = title
	l.Description = description
	l.Price = price
	l.CategorySlug = strings.TrimSpace(categorySlug)
	if imageURL != nil {
		l.ImageURL = imageURL
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *listingService) Get(ctx context.Context, id uint64) (*model.Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *listingService) List(ctx context.Context, limit, offset int, categorySlug string, kind model.ListingKind) ([]model.Listing, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset, strings.TrimSpace(categorySlug), kind)
}

func (s *listingService) ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	return s.repo.ListBySeller(ctx, sellerUID)
}

// MarkSold transitions active -> sold. The status check and the write are one
// conditional UPDATE, so a listing can only ever be sold once per lifecycle;
// when zero rows match, the current record decides whether the caller gets
// NotFound, Forbidden or AlreadySold.
func (s *listingService) MarkSold(ctx context.Context, id uint64, sellerUID string, buyerUID *string) (*model.Listing, error) {
	n, err := s.repo.MarkSoldIfActive(ctx, id, sellerUID, buyerUID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		l, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if l.SellerUID != sellerUID {
			return nil, ErrForbidden
		}
		return nil, ErrAlreadySold
	}
	return s.Get(ctx, id)
}

// Reopen transitions sold -> active and clears the buyer linkage.
func (s *listingService) Reopen(ctx context.Context, id uint64, sellerUID string) (*model.Listing, error) {
	n, err := s.repo.ReopenIfSold(ctx, id, sellerUID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		l, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if l.SellerUID != sellerUID {
			return nil, ErrForbidden
		}
		return nil, ErrNotSold
	}
	return s.Get(ctx, id)
}

func (s *listingService) WithTx(tx *gorm.DB) ListingService {
	if tx == nil {
		return s
	}
	return &listingService{repo: s.repo.WithTx(tx)}
}
