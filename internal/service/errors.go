package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadySold      = errors.New("already sold")
	ErrNotSold          = errors.New("not sold")
	ErrDuplicatePending = errors.New("pending transaction already exists")
	ErrAlreadyTerminal  = errors.New("transaction already confirmed or rejected")
	ErrInvalidBuyer     = errors.New("invalid buyer")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrDuplicateCredit  = errors.New("trust credit already applied")
	ErrDuplicateReview  = errors.New("review already exists for transaction")
)
