package settlement

import "errors"

var (
	ErrSettlementNotFound     = errors.New("settlement not found")
	ErrPeriodOverlap          = errors.New("settlement period overlaps another settlement for this driver")
	ErrIllegalTransition      = errors.New("illegal settlement status transition")
	ErrSettlementFrozen       = errors.New("settlement is frozen, its records can no longer change")
	ErrValidationIncomplete   = errors.New("settlement has expenses with pending validation")
	ErrPaymentDetailsRequired = errors.New("payment date and method are required to mark a settlement paid")
	ErrAdjustmentNotFound     = errors.New("adjustment not found")
	ErrDailyRecordNotFound    = errors.New("daily work record not found")
	ErrDailyRecordExists      = errors.New("daily work record already exists for this date")
	ErrValidationNotFound     = errors.New("expense validation not found")
	ErrExpenseNotFound        = errors.New("expense not found")
	ErrModelMismatch          = errors.New("operation does not apply to this compensation model")
)
