package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs a function inside a single database transaction. The
// confirmation workflow needs its writes to land all-or-nothing across the
// transaction, review and trust-ledger tables, so services open the
// transaction here and rescope their repositories onto it via WithTx.
type TxManager interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
	SetDB(db *gorm.DB)
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if m.db == nil {
		return ErrDBNotReady
	}
	return m.db.WithContext(ctx).Transaction(fn)
}

func (m *txManager) SetDB(db *gorm.DB) {
	m.db = db
}
