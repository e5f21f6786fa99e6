package service

import (
	"context"
	"errors"

	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/keirara04/labmarket-backend/internal/repository"
	"gorm.io/gorm"
)

// ReviewService reads the reviews written during confirm for profile display.
type ReviewService interface {
	GetByTransaction(ctx context.Context, transactionID uint64) (*model.Review, error)
	ListForSubject(ctx context.Context, subjectUID string) ([]model.Review, error)
	// AverageRating returns nil when the subject has no reviews yet.
	AverageRating(ctx context.Context, subjectUID string) (*float64, int64, error)
}

type reviewService struct {
	repo repository.ReviewRepository
}

func NewReviewService(repo repository.ReviewRepository) ReviewService {
	return &reviewService{repo: repo}
}

func (s *reviewService) GetByTransaction(ctx context.Context, transactionID uint64) (*model.Review, error) {
	rv, err := s.repo.FindByTransaction(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

func (s *reviewService) ListForSubject(ctx context.Context, subjectUID string) ([]model.Review, error) {
	if subjectUID == "" {
		return nil, errors.New("subject is required")
	}
	return s.repo.ListBySubject(ctx, subjectUID)
}

func (s *reviewService) AverageRating(ctx context.Context, subjectUID string) (*float64, int64, error) {
	if subjectUID == "" {
		return nil, 0, errors.New("subject is required")
	}
	return s.repo.AverageBySubject(ctx, subjectUID)
}
