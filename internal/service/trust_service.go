package service

import (
	"context"
	"errors"

	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/keirara04/labmarket-backend/internal/repository"
	"gorm.io/gorm"
)

// TrustService is the read surface of the LabCred ledger plus credit for
// out-of-core reasons. The sale_confirmed credit itself is written by the
// transaction service inside the confirm transaction so it cannot land
// without the review and status flip.
type TrustService interface {
	Score(ctx context.Context, userUID string) (int64, error)
	History(ctx context.Context, userUID string) ([]model.TrustLedgerEntry, error)
	Credit(ctx context.Context, userUID string, delta int64, reason string, transactionID uint64) error
}

type trustService struct {
	repo repository.TrustLedgerRepository
}

func NewTrustService(repo repository.TrustLedgerRepository) TrustService {
	return &trustService{repo: repo}
}

// Score is the sum of the user's ledger entries; 0 for a user with none.
func (s *trustService) Score(ctx context.Context, userUID string) (int64, error) {
	if userUID == "" {
		return 0, errors.New("user is required")
	}
	return s.repo.SumByUser(ctx, userUID)
}

func (s *trustService) History(ctx context.Context, userUID string) ([]model.TrustLedgerEntry, error) {
	if userUID == "" {
		return nil, errors.New("user is required")
	}
	return s.repo.ListByUser(ctx, userUID)
}

func (s *trustService) Credit(ctx context.Context, userUID string, delta int64, reason string, transactionID uint64) error {
	if userUID == "" || reason == "" {
		return errors.New("user and reason are required")
	}
	entry := &model.TrustLedgerEntry{
		UserUID:       userUID,
		Delta:         delta,
		Reason:        reason,
		TransactionID: transactionID,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCredit
		}
		return err
	}
	return nil
}
