package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatus_TransitionTable(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusOpen, StatusInReview, true},
		{StatusOpen, StatusCancelled, true},
		{StatusOpen, StatusApproved, false},
		{StatusOpen, StatusPaid, false},
		{StatusInReview, StatusApproved, true},
		{StatusInReview, StatusCancelled, true},
		{StatusInReview, StatusPaid, false},
		{StatusInReview, StatusOpen, false},
		{StatusApproved, StatusPaid, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusInReview, false},
		{StatusPaid, StatusCancelled, false},
		{StatusPaid, StatusOpen, false},
		{StatusCancelled, StatusOpen, false},
		{StatusCancelled, StatusInReview, false},
	}
	for _, c := range cases {
		got := c.from.CanTransitionTo(c.to)
		assert.Equal(t, c.allowed, got, "%s -> %s", c.from, c.to)
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusPaid.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusOpen.IsTerminal())
	assert.False(t, StatusInReview.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
}

func TestSettlement_MutableAndFrozen(t *testing.T) {
	cases := []struct {
		status  Status
		mutable bool
		frozen  bool
	}{
		{StatusOpen, true, false},
		{StatusInReview, true, false},
		{StatusApproved, false, true},
		{StatusPaid, false, true},
		{StatusCancelled, false, false},
	}
	for _, c := range cases {
		s := Settlement{Status: c.status}
		assert.Equal(t, c.mutable, s.IsMutable(), "IsMutable %s", c.status)
		assert.Equal(t, c.frozen, s.IsFrozen(), "IsFrozen %s", c.status)
	}
}

func TestSettlement_ComputeNetTotal(t *testing.T) {
	s := Settlement{
		GrossTotal:      decimal.RequireFromString("1650"),
		AdjustmentsNet:  decimal.RequireFromString("-50"),
		DebitsApplied:   decimal.RequireFromString("300"),
		AdvancesTotal:   decimal.RequireFromString("200"),
		OtherDeductions: decimal.RequireFromString("100"),
	}

	assert.True(t, s.ComputeNetTotal().Equal(decimal.RequireFromString("1000")))
}

func TestExpenseValidation_CountableValue(t *testing.T) {
	original := decimal.RequireFromString("120.50")
	adjusted := decimal.RequireFromString("80")

	pending := ExpenseValidation{Status: ValidationPending, OriginalValue: original}
	assert.True(t, pending.CountableValue().IsZero())

	rejected := ExpenseValidation{Status: ValidationRejected, OriginalValue: original}
	assert.True(t, rejected.CountableValue().IsZero())

	approved := ExpenseValidation{Status: ValidationApproved, OriginalValue: original}
	assert.True(t, approved.CountableValue().Equal(original))

	adj := ExpenseValidation{Status: ValidationAdjusted, OriginalValue: original, ApprovedValue: &adjusted}
	assert.True(t, adj.CountableValue().Equal(adjusted))

	// Adjusted review may exceed the original value.
	higher := decimal.RequireFromString("200")
	adjUp := ExpenseValidation{Status: ValidationAdjusted, OriginalValue: original, ApprovedValue: &higher}
	assert.True(t, adjUp.CountableValue().Equal(higher))
}

func TestModelAndEnumValidity(t *testing.T) {
	assert.True(t, ModelCommission.Valid())
	assert.True(t, ModelPayroll.Valid())
	assert.False(t, Model("clt").Valid())

	assert.True(t, OriginTelemetry.Valid())
	assert.False(t, RecordOrigin("import").Valid())

	assert.True(t, AdjustmentCorrection.Valid())
	assert.False(t, AdjustmentKind("discount").Valid())

	assert.True(t, ValidationAdjusted.Valid())
	assert.False(t, ValidationStatus("ok").Valid())
}
