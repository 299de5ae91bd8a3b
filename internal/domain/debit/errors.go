package debit

import "errors"

var (
	ErrDebitNotFound        = errors.New("debit not found")
	ErrInvalidAmount        = errors.New("payment amount must be positive and not exceed the remaining balance")
	ErrDebitNotActive       = errors.New("debit is not active")
	ErrDebitAlreadySettled  = errors.New("debit already settled")
	ErrDebitHasApplications = errors.New("debit has amounts applied by a live settlement")
	ErrApplicationNotFound  = errors.New("debit application not found")
	ErrInvalidKind          = errors.New("invalid debit kind")
)
