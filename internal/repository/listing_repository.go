package repository

import (
	"context"
	"errors"

	"github.com/keirara04/labmarket-backend/internal/model"
	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(ctx context.Context, l *model.Listing) error
	FindByID(ctx context.Context, id uint64) (*model.Listing, error)
	Update(ctx context.Context, l *model.Listing) error
	List(ctx context.Context, limit, offset int, categorySlug string, kind model.ListingKind) ([]model.Listing, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error)
	MarkSoldIfActive(ctx context.Context, id uint64, sellerUID string, buyerUID *string) (int64, error)
	ReopenIfSold(ctx context.Context, id uint64, sellerUID string) (int64, error)
	WithTx(tx *gorm.DB) ListingRepository
	SetDB(db *gorm.DB)
}

type listingRepository struct {
	db *gorm.DB
}

var ErrDBNotReady = errors.New("database not initialized")

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, l *model.Listing) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var l model.Listing
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) Update(ctx context.Context, l *model.Listing) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *listingRepository) List(ctx context.Context, limit, offset int, categorySlug string, kind model.ListingKind) ([]model.Listing, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Model(&model.Listing{})
	if categorySlug != "" {
		q = q.Where("category_slug = ?", categorySlug)
	}
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var listings []model.Listing
	if err := q.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *listingRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var listings []model.Listing
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("id DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// MarkSoldIfActive flips an active listing to sold with a conditional UPDATE.
// RowsAffected == 0 means the listing was not active (or not owned by
// sellerUID); the caller decides which guard fired. Two concurrent calls can
// never both see RowsAffected == 1.
func (r *listingRepository) MarkSoldIfActive(ctx context.Context, id uint64, sellerUID string, buyerUID *string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND seller_uid = ? AND status = ?", id, sellerUID, model.ListingStatusActive).
		Updates(map[string]interface{}{
			"status":    model.ListingStatusSold,
			"buyer_uid": buyerUID,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ReopenIfSold returns a sold listing to active and clears the buyer linkage.
func (r *listingRepository) ReopenIfSold(ctx context.Context, id uint64, sellerUID string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND seller_uid = ? AND status = ?", id, sellerUID, model.ListingStatusSold).
		Updates(map[string]interface{}{
			"status":    model.ListingStatusActive,
			"buyer_uid": nil,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *listingRepository) WithTx(tx *gorm.DB) ListingRepository {
	if tx == nil {
		return r
	}
	return &listingRepository{db: tx}
}

func (r *listingRepository) SetDB(db *gorm.DB) {
	r.db = db
}
