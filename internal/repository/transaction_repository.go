package repository

import (
	"context"
	"errors"
	"time"

	"github.com/keirara04/labmarket-backend/internal/model"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	FindByID(ctx context.Context, id uint64) (*model.Transaction, error)
	FindPendingByListing(ctx context.Context, listingID uint64) (*model.Transaction, error)
	ConfirmIfPending(ctx context.Context, id uint64, buyerUID string, now time.Time) (int64, error)
	RejectIfPending(ctx context.Context, id uint64, buyerUID string, now time.Time) (int64, error)
	ListPendingByBuyer(ctx context.Context, buyerUID string) ([]model.Transaction, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Transaction, error)
	WithTx(tx *gorm.DB) TransactionRepository
	SetDB(db *gorm.DB)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint64) (*model.Transaction, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var t model.Transaction
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// FindPendingByListing returns nil without error when the listing has no
// pending transaction.
func (r *transactionRepository) FindPendingByListing(ctx context.Context, listingID uint64) (*model.Transaction, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var t model.Transaction
	if err := r.db.WithContext(ctx).
		Where("listing_id = ? AND status = ?", listingID, model.TransactionStatusPending).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ConfirmIfPending flips pending -> confirmed and releases the
// pending_listing_id uniqueness slot in the same UPDATE. RowsAffected == 0
// means the transaction was already terminal (or belongs to another buyer);
// two concurrent confirms can never both apply.
func (r *transactionRepository) ConfirmIfPending(ctx context.Context, id uint64, buyerUID string, now time.Time) (int64, error) {
	return r.resolveIfPending(ctx, id, buyerUID, model.TransactionStatusConfirmed, now)
}

// RejectIfPending flips pending -> rejected under the same guard.
func (r *transactionRepository) RejectIfPending(ctx context.Context, id uint64, buyerUID string, now time.Time) (int64, error) {
	return r.resolveIfPending(ctx, id, buyerUID, model.TransactionStatusRejected, now)
}

func (r *transactionRepository) resolveIfPending(ctx context.Context, id uint64, buyerUID string, status model.TransactionStatus, now time.Time) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ? AND buyer_uid = ? AND status = ?", id, buyerUID, model.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":             status,
			"pending_listing_id": nil,
			"resolved_at":        now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *transactionRepository) ListPendingByBuyer(ctx context.Context, buyerUID string) ([]model.Transaction, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("buyer_uid = ? AND status = ?", buyerUID, model.TransactionStatusPending).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *transactionRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Transaction, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *transactionRepository) WithTx(tx *gorm.DB) TransactionRepository {
	if tx == nil {
		return r
	}
	return &transactionRepository{db: tx}
}

func (r *transactionRepository) SetDB(db *gorm.DB) {
	r.db = db
}
