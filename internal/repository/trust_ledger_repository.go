package repository

import (
	"context"

	"github.com/keirara04/labmarket-backend/internal/model"
	"gorm.io/gorm"
)

type TrustLedgerRepository interface {
	Append(ctx context.Context, e *model.TrustLedgerEntry) error
	SumByUser(ctx context.Context, userUID string) (int64, error)
	ListByUser(ctx context.Context, userUID string) ([]model.TrustLedgerEntry, error)
	WithTx(tx *gorm.DB) TrustLedgerRepository
	SetDB(db *gorm.DB)
}

type trustLedgerRepository struct {
	db *gorm.DB
}

func NewTrustLedgerRepository(db *gorm.DB) TrustLedgerRepository {
	return &trustLedgerRepository{db: db}
}

// Append inserts one ledger entry. A second entry for the same
// (transaction, user, reason) triple violates the unique index and surfaces
// as gorm.ErrDuplicatedKey; entries are never updated in place.
func (r *trustLedgerRepository) Append(ctx context.Context, e *model.TrustLedgerEntry) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *trustLedgerRepository) SumByUser(ctx context.Context, userUID string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var sum *int64
	if err := r.db.WithContext(ctx).
		Model(&model.TrustLedgerEntry{}).
		Where("user_uid = ?", userUID).
		Select("SUM(delta)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *trustLedgerRepository) ListByUser(ctx context.Context, userUID string) ([]model.TrustLedgerEntry, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.TrustLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("user_uid = ?", userUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *trustLedgerRepository) WithTx(tx *gorm.DB) TrustLedgerRepository {
	if tx == nil {
		return r
	}
	return &trustLedgerRepository{db: tx}
}

func (r *trustLedgerRepository) SetDB(db *gorm.DB) {
	r.db = db
}
