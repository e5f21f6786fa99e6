package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/keirara04/labmarket-backend/internal/clock"
	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/keirara04/labmarket-backend/internal/repository"
	"gorm.io/gorm"
)

// SaleConfirmedCredit is the flat LabCred amount a seller earns per confirmed
// sale. Flat rather than price-proportional so fake high-priced listings
// cannot farm score.
const SaleConfirmedCredit = 10

// TransactionService drives the seller->buyer confirmation protocol. It is
// the only writer of transaction status and of listing sale-status
// transitions; every transition runs behind a guard that is applied
// atomically with its side effects.
type TransactionService interface {
	// Initiate marks the listing sold and, when a buyer is named, opens a
	// pending transaction for that buyer to confirm or reject. A nil buyer
	// ("sold offline") marks the listing sold with no transaction: an
	// unattributable sale can never mint trust score.
	Initiate(ctx context.Context, listingID uint64, sellerUID string, buyerUID *string) (*model.Transaction, *model.Listing, error)
	Confirm(ctx context.Context, transactionID uint64, actingUID string, rating int, comment string) (*model.Transaction, error)
	Reject(ctx context.Context, transactionID uint64, actingUID string) (*model.Transaction, error)
	// ReopenListing returns a sold listing to active. Refused while a pending
	// transaction exists; the buyer's reject is the only way out of a live
	// handshake.
	ReopenListing(ctx context.Context, listingID uint64, sellerUID string) (*model.Listing, error)
	ListPendingForBuyer(ctx context.Context, buyerUID string) ([]TransactionWithListing, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]TransactionWithListing, error)
}

type TransactionWithListing struct {
	Transaction model.Transaction
	Listing     *model.Listing
}

type transactionService struct {
	txm      repository.TxManager
	txRepo   repository.TransactionRepository
	listings ListingService
	reviews  repository.ReviewRepository
	ledger   repository.TrustLedgerRepository
	notify   NotificationService
	clock    clock.Clock
}

func NewTransactionService(
	txm repository.TxManager,
	txRepo repository.TransactionRepository,
	listings ListingService,
	reviews repository.ReviewRepository,
	ledger repository.TrustLedgerRepository,
	notify NotificationService,
	clk clock.Clock,
) TransactionService {
	return &transactionService{
		txm:      txm,
		txRepo:   txRepo,
		listings: listings,
		reviews:  reviews,
		ledger:   ledger,
		notify:   notify,
		clock:    clk,
	}
}

func (s *transactionService) Initiate(ctx context.Context, listingID uint64, sellerUID string, buyerUID *string) (*model.Transaction, *model.Listing, error) {
	if sellerUID == "" {
		return nil, nil, errors.New("seller is required")
	}
	if buyerUID != nil && *buyerUID == "" {
		buyerUID = nil
	}
	if buyerUID != nil && *buyerUID == sellerUID {
		return nil, nil, ErrInvalidBuyer
	}

	var (
		created *model.Transaction
		listing *model.Listing
	)
	err := s.txm.Do(ctx, func(tx *gorm.DB) error {
		var err error
		listing, err = s.listings.WithTx(tx).MarkSold(ctx, listingID, sellerUID, buyerUID)
		if err != nil {
			return err
		}
		if buyerUID == nil {
			return nil
		}
		pendingID := listingID
		created = &model.Transaction{
			ListingID:        listingID,
			SellerUID:        sellerUID,
			BuyerUID:         *buyerUID,
			Status:           model.TransactionStatusPending,
			PendingListingID: &pendingID,
		}
		if err := s.txRepo.WithTx(tx).Create(ctx, created); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicatePending
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if created != nil && s.notify != nil {
		s.notify.Notify(ctx, created.BuyerUID, "purchase_confirm_request",
			"Did you buy this?",
			fmt.Sprintf("%s marked %q as sold to you. Confirm the purchase to leave a rating.", sellerUID, listing.Title),
			&listingID, &created.ID)
	}
	return created, listing, nil
}

func (s *transactionService) Confirm(ctx context.Context, transactionID uint64, actingUID string, rating int, comment string) (*model.Transaction, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	t, err := s.get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if t.BuyerUID != actingUID {
		return nil, ErrForbidden
	}
	if t.Status != model.TransactionStatusPending {
		return nil, ErrAlreadyTerminal
	}

	now := s.clock.Now()
	err = s.txm.Do(ctx, func(tx *gorm.DB) error {
		// The guard and the three writes commit or roll back together; a
		// partial confirm would silently corrupt the seller's trust history.
		n, err := s.txRepo.WithTx(tx).ConfirmIfPending(ctx, transactionID, actingUID, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrAlreadyTerminal
		}
		rv := &model.Review{
			TransactionID: t.ID,
			Rating:        rating,
			Comment:       comment,
			AuthorUID:     t.BuyerUID,
			SubjectUID:    t.SellerUID,
		}
		if err := s.reviews.WithTx(tx).Create(ctx, rv); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReview
			}
			return err
		}
		entry := &model.TrustLedgerEntry{
			UserUID:       t.SellerUID,
			Delta:         SaleConfirmedCredit,
			Reason:        model.TrustReasonSaleConfirmed,
			TransactionID: t.ID,
		}
		if err := s.ledger.WithTx(tx).Append(ctx, entry); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCredit
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.Notify(ctx, t.SellerUID, "sale_confirmed",
			"Sale confirmed",
			fmt.Sprintf("%s confirmed the purchase. You earned %d LabCred.", t.BuyerUID, SaleConfirmedCredit),
			&t.ListingID, &t.ID)
	}
	return s.get(ctx, transactionID)
}

func (s *transactionService) Reject(ctx context.Context, transactionID uint64, actingUID string) (*model.Transaction, error) {
	t, err := s.get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if t.BuyerUID != actingUID {
		return nil, ErrForbidden
	}
	if t.Status != model.TransactionStatusPending {
		return nil, ErrAlreadyTerminal
	}

	now := s.clock.Now()
	err = s.txm.Do(ctx, func(tx *gorm.DB) error {
		n, err := s.txRepo.WithTx(tx).RejectIfPending(ctx, transactionID, actingUID, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrAlreadyTerminal
		}
		// The listing goes back on the market with the buyer linkage cleared.
		if _, err := s.listings.WithTx(tx).Reopen(ctx, t.ListingID, t.SellerUID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.Notify(ctx, t.SellerUID, "sale_rejected",
			"Sale not confirmed",
			fmt.Sprintf("%s did not confirm the purchase. The listing is active again.", t.BuyerUID),
			&t.ListingID, &t.ID)
	}
	return s.get(ctx, transactionID)
}

func (s *transactionService) ReopenListing(ctx context.Context, listingID uint64, sellerUID string) (*model.Listing, error) {
	var listing *model.Listing
	err := s.txm.Do(ctx, func(tx *gorm.DB) error {
		pending, err := s.txRepo.WithTx(tx).FindPendingByListing(ctx, listingID)
		if err != nil {
			return err
		}
		if pending != nil {
			return ErrDuplicatePending
		}
		listing, err = s.listings.WithTx(tx).Reopen(ctx, listingID, sellerUID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *transactionService) ListPendingForBuyer(ctx context.Context, buyerUID string) ([]TransactionWithListing, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	list, err := s.txRepo.ListPendingByBuyer(ctx, buyerUID)
	if err != nil {
		return nil, err
	}
	return s.withListings(ctx, list), nil
}

func (s *transactionService) ListBySeller(ctx context.Context, sellerUID string) ([]TransactionWithListing, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	list, err := s.txRepo.ListBySeller(ctx, sellerUID)
	if err != nil {
		return nil, err
	}
	return s.withListings(ctx, list), nil
}

func (s *transactionService) withListings(ctx context.Context, list []model.Transaction) []TransactionWithListing {
	resp := make([]TransactionWithListing, 0, len(list))
	for _, t := range list {
		l, _ := s.listings.Get(ctx, t.ListingID)
		resp = append(resp, TransactionWithListing{Transaction: t, Listing: l})
	}
	return resp
}

func (s *transactionService) get(ctx context.Context, transactionID uint64) (*model.Transaction, error) {
	t, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
