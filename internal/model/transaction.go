package model

import "time"

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusRejected  TransactionStatus = "rejected"
)

// Transaction is one seller->buyer confirmation handshake for a listing.
// PendingListingID mirrors ListingID while the transaction is pending and is
// NULLed on the terminal transition; the unique index over it is what makes
// "at most one pending transaction per listing" hold under concurrent
// requests (MySQL has no partial unique indexes).
type Transaction struct {
	ID               uint64            `gorm:"primaryKey;autoIncrement"`
	ListingID        uint64            `gorm:"column:listing_id;index;not null"`
	SellerUID        string            `gorm:"column:seller_uid;size:128;index;not null"`
	BuyerUID         string            `gorm:"column:buyer_uid;size:128;index;not null"`
	Status           TransactionStatus `gorm:"column:status;size:16;not null"`
	PendingListingID *uint64           `gorm:"column:pending_listing_id;uniqueIndex:uk_transactions_pending_listing"`
	ResolvedAt       *time.Time        `gorm:"column:resolved_at"`
	CreatedAt        time.Time         `gorm:"autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
