package model

import "time"

// Review is the buyer's rating of the seller for one confirmed transaction.
// The unique index on transaction_id enforces the one-review-per-transaction
// rule at the persistence boundary.
type Review struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	TransactionID uint64    `gorm:"column:transaction_id;uniqueIndex:uk_reviews_transaction;not null"`
	Rating        int       `gorm:"column:rating;not null"`
	Comment       string    `gorm:"column:comment;type:text"`
	AuthorUID     string    `gorm:"column:author_uid;size:128;index;not null"`
	SubjectUID    string    `gorm:"column:subject_uid;size:128;index;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Review) TableName() string {
	return "reviews"
}
