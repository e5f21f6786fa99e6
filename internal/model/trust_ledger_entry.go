package model

import "time"

const TrustReasonSaleConfirmed = "sale_confirmed"

// TrustLedgerEntry is one append-only LabCred adjustment. A user's score is
// the sum of their deltas; entries are never updated in place. The unique
// index on (transaction_id, user_uid, reason) is the idempotency guard that
// makes a retried confirm unable to credit twice.
type TrustLedgerEntry struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	UserUID       string    `gorm:"column:user_uid;size:128;index;not null;uniqueIndex:uk_trust_ledger_credit"`
	Delta         int64     `gorm:"column:delta;not null"`
	Reason        string    `gorm:"column:reason;size:64;not null;uniqueIndex:uk_trust_ledger_credit"`
	TransactionID uint64    `gorm:"column:transaction_id;not null;uniqueIndex:uk_trust_ledger_credit"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (TrustLedgerEntry) TableName() string {
	return "trust_ledger_entries"
}
