package repository

import (
	"context"

	"github.com/keirara04/labmarket-backend/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *model.Review) error
	FindByTransaction(ctx context.Context, transactionID uint64) (*model.Review, error)
	ListBySubject(ctx context.Context, subjectUID string) ([]model.Review, error)
	AverageBySubject(ctx context.Context, subjectUID string) (*float64, int64, error)
	WithTx(tx *gorm.DB) ReviewRepository
	SetDB(db *gorm.DB)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review; a duplicate transaction_id violates the unique
// index and surfaces as gorm.ErrDuplicatedKey.
func (r *reviewRepository) Create(ctx context.Context, rv *model.Review) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepository) FindByTransaction(ctx context.Context, transactionID uint64) (*model.Review, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rv model.Review
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&rv).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepository) ListBySubject(ctx context.Context, subjectUID string) ([]model.Review, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Review
	if err := r.db.WithContext(ctx).
		Where("subject_uid = ?", subjectUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// AverageBySubject returns nil when the subject has no reviews.
func (r *reviewRepository) AverageBySubject(ctx context.Context, subjectUID string) (*float64, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var row struct {
		Avg *float64
		Cnt int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("subject_uid = ?", subjectUID).
		Select("AVG(rating) AS avg, COUNT(*) AS cnt").
		Scan(&row).Error; err != nil {
		return nil, 0, err
	}
	return row.Avg, row.Cnt, nil
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	if tx == nil {
		return r
	}
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) SetDB(db *gorm.DB) {
	r.db = db
}
