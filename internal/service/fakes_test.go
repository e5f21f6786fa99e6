package service

import (
	"context"
	"sync"
	"time"

	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/keirara04/labmarket-backend/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository fakes. They enforce the same uniqueness rules the real
// schema does (returning gorm.ErrDuplicatedKey) so the services' guard paths
// behave as they would against MySQL.

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (fakeTxManager) SetDB(*gorm.DB) {}

type fakeListingRepo struct {
	mu       sync.Mutex
	nextID   uint64
	listings map[uint64]*model.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{nextID: 1, listings: map[uint64]*model.Listing{}}
}

func (r *fakeListingRepo) add(l model.Listing) *model.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = r.nextID
	r.nextID++
	cp := l
	r.listings[cp.ID] = &cp
	return &cp
}

func (r *fakeListingRepo) Create(ctx context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = r.nextID
	r.nextID++
	cp := *l
	r.listings[cp.ID] = &cp
	return nil
}

func (r *fakeListingRepo) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.listings[cp.ID] = &cp
	return nil
}

func (r *fakeListingRepo) List(ctx context.Context, limit, offset int, categorySlug string, kind model.ListingKind) ([]model.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Listing
	for _, l := range r.listings {
		if categorySlug != "" && l.CategorySlug != categorySlug {
			continue
		}
		if kind != "" && l.Kind != kind {
			continue
		}
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeListingRepo) ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Listing
	for _, l := range r.listings {
		if l.SellerUID == sellerUID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) MarkSoldIfActive(ctx context.Context, id uint64, sellerUID string, buyerUID *string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok || l.SellerUID != sellerUID || l.Status != model.ListingStatusActive {
		return 0, nil
	}
	l.Status = model.ListingStatusSold
	l.BuyerUID = buyerUID
	return 1, nil
}

func (r *fakeListingRepo) ReopenIfSold(ctx context.Context, id uint64, sellerUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok || l.SellerUID != sellerUID || l.Status != model.ListingStatusSold {
		return 0, nil
	}
	l.Status = model.ListingStatusActive
	l.BuyerUID = nil
	return 1, nil
}

func (r *fakeListingRepo) WithTx(tx *gorm.DB) repository.ListingRepository { return r }
func (r *fakeListingRepo) SetDB(*gorm.DB)                                  {}

type fakeTransactionRepo struct {
	mu     sync.Mutex
	nextID uint64
	txs    map[uint64]*model.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{nextID: 1, txs: map[uint64]*model.Transaction{}}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.PendingListingID != nil {
		for _, existing := range r.txs {
			if existing.PendingListingID != nil && *existing.PendingListingID == *t.PendingListingID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now()
	cp := *t
	r.txs[cp.ID] = &cp
	return nil
}

func (r *fakeTransactionRepo) FindByID(ctx context.Context, id uint64) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTransactionRepo) FindPendingByListing(ctx context.Context, listingID uint64) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txs {
		if t.ListingID == listingID && t.Status == model.TransactionStatusPending {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) ConfirmIfPending(ctx context.Context, id uint64, buyerUID string, now time.Time) (int64, error) {
	return r.resolve(id, buyerUID, model.TransactionStatusConfirmed, now)
}

func (r *fakeTransactionRepo) RejectIfPending(ctx context.Context, id uint64, buyerUID string, now time.Time) (int64, error) {
	return r.resolve(id, buyerUID, model.TransactionStatusRejected, now)
}

func (r *fakeTransactionRepo) resolve(id uint64, buyerUID string, status model.TransactionStatus, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txs[id]
	if !ok || t.BuyerUID != buyerUID || t.Status != model.TransactionStatusPending {
		return 0, nil
	}
	t.Status = status
	t.PendingListingID = nil
	t.ResolvedAt = &now
	return 1, nil
}

func (r *fakeTransactionRepo) ListPendingByBuyer(ctx context.Context, buyerUID string) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaction
	for _, t := range r.txs {
		if t.BuyerUID == buyerUID && t.Status == model.TransactionStatusPending {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) ListBySeller(ctx context.Context, sellerUID string) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaction
	for _, t := range r.txs {
		if t.SellerUID == sellerUID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) WithTx(tx *gorm.DB) repository.TransactionRepository { return r }
func (r *fakeTransactionRepo) SetDB(*gorm.DB)                                      {}

type fakeReviewRepo struct {
	mu      sync.Mutex
	nextID  uint64
	reviews map[uint64]*model.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{nextID: 1, reviews: map[uint64]*model.Review{}}
}

func (r *fakeReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.TransactionID == rv.TransactionID {
			return gorm.ErrDuplicatedKey
		}
	}
	rv.ID = r.nextID
	r.nextID++
	rv.CreatedAt = time.Now()
	cp := *rv
	r.reviews[cp.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) FindByTransaction(ctx context.Context, transactionID uint64) (*model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.TransactionID == transactionID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReviewRepo) ListBySubject(ctx context.Context, subjectUID string) ([]model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Review
	for _, rv := range r.reviews {
		if rv.SubjectUID == subjectUID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) AverageBySubject(ctx context.Context, subjectUID string) (*float64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, cnt int64
	for _, rv := range r.reviews {
		if rv.SubjectUID == subjectUID {
			sum += int64(rv.Rating)
			cnt++
		}
	}
	if cnt == 0 {
		return nil, 0, nil
	}
	avg := float64(sum) / float64(cnt)
	return &avg, cnt, nil
}

func (r *fakeReviewRepo) WithTx(tx *gorm.DB) repository.ReviewRepository { return r }
func (r *fakeReviewRepo) SetDB(*gorm.DB)                                 {}

type fakeTrustLedgerRepo struct {
	mu      sync.Mutex
	nextID  uint64
	entries []model.TrustLedgerEntry
}

func newFakeTrustLedgerRepo() *fakeTrustLedgerRepo {
	return &fakeTrustLedgerRepo{nextID: 1}
}

func (r *fakeTrustLedgerRepo) Append(ctx context.Context, e *model.TrustLedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.TransactionID == e.TransactionID && existing.UserUID == e.UserUID && existing.Reason == e.Reason {
			return gorm.ErrDuplicatedKey
		}
	}
	e.ID = r.nextID
	r.nextID++
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeTrustLedgerRepo) SumByUser(ctx context.Context, userUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, e := range r.entries {
		if e.UserUID == userUID {
			sum += e.Delta
		}
	}
	return sum, nil
}

func (r *fakeTrustLedgerRepo) ListByUser(ctx context.Context, userUID string) ([]model.TrustLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.TrustLedgerEntry
	for _, e := range r.entries {
		if e.UserUID == userUID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTrustLedgerRepo) WithTx(tx *gorm.DB) repository.TrustLedgerRepository { return r }
func (r *fakeTrustLedgerRepo) SetDB(*gorm.DB)                                      {}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []model.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uint64(len(r.notifications) + 1)
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.notifications {
		if n.UserUID != userUID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.notifications {
		if r.notifications[i].UserUID == userUID && r.notifications[i].ReadAt == nil {
			r.notifications[i].ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cnt int64
	for _, n := range r.notifications {
		if n.UserUID == userUID && n.ReadAt == nil {
			cnt++
		}
	}
	return cnt, nil
}

func (r *fakeNotificationRepo) SetDB(*gorm.DB) {}
