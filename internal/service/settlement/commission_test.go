package settlement

import (
	"testing"

	"github.com/frotaops/frota-backend-go/internal/domain/trip"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCommissionCalculator_ReferenceScenario(t *testing.T) {
	// Revenue 10,000; non-reimbursable 1,500; reimbursable 800; rate 10%.
	trips := []trip.Trip{
		{
			ID:           "t1",
			FreightValue: decPtr("6000"),
			Expenses: []trip.Expense{
				{Value: dec("1000"), Reimbursable: false},
				{Value: dec("500"), Reimbursable: true},
			},
		},
		{
			ID:           "t2",
			FreightValue: decPtr("4000"),
			Expenses: []trip.Expense{
				{Value: dec("500"), Reimbursable: false},
				{Value: dec("300"), Reimbursable: true},
			},
		},
	}

	calc := NewCommissionCalculator()
	totals := calc.Calculate(trips, dec("10"), dec("100"), dec("50"))

	assert.True(t, totals.Revenue.Equal(dec("10000")))
	assert.True(t, totals.NonReimbursable.Equal(dec("1500")))
	assert.True(t, totals.CommissionBase.Equal(dec("8500")))
	assert.True(t, totals.CommissionValue.Equal(dec("850")))
	assert.True(t, totals.ReimbursableTotal.Equal(dec("800")))
	// net = 850 + 800 - 100 - 50
	assert.True(t, totals.NetTotal.Equal(dec("1500")))
}

func TestCommissionCalculator_BaseIdentity(t *testing.T) {
	trips := []trip.Trip{
		{FreightValue: decPtr("1234.56"), Expenses: []trip.Expense{
			{Value: dec("234.56"), Reimbursable: false},
			{Value: dec("11.11"), Reimbursable: true},
		}},
		{FreightValue: nil, Expenses: []trip.Expense{
			{Value: dec("88.44"), Reimbursable: false},
		}},
	}

	totals := NewCommissionCalculator().Calculate(trips, dec("12.5"), decimal.Zero, decimal.Zero)

	assert.True(t, totals.CommissionBase.Equal(totals.Revenue.Sub(totals.NonReimbursable)))
}

func TestCommissionCalculator_Idempotent(t *testing.T) {
	trips := []trip.Trip{
		{FreightValue: decPtr("5000"), Expenses: []trip.Expense{
			{Value: dec("200"), Reimbursable: true},
			{Value: dec("350.75"), Reimbursable: false},
		}},
	}
	calc := NewCommissionCalculator()

	first := calc.Calculate(trips, dec("15"), dec("40"), dec("0"))
	second := calc.Calculate(trips, dec("15"), dec("40"), dec("0"))

	assert.Equal(t, first, second)
}

func TestCommissionCalculator_TripWithoutFreightContributesNoRevenue(t *testing.T) {
	trips := []trip.Trip{
		{FreightValue: nil, Expenses: []trip.Expense{
			{Value: dec("100"), Reimbursable: false},
		}},
	}

	totals := NewCommissionCalculator().Calculate(trips, dec("10"), decimal.Zero, decimal.Zero)

	assert.True(t, totals.Revenue.IsZero())
	assert.True(t, totals.CommissionBase.Equal(dec("-100")))
}

func TestCommissionCalculator_NegativeBaseIsNotClamped(t *testing.T) {
	trips := []trip.Trip{
		{FreightValue: decPtr("1000"), Expenses: []trip.Expense{
			{Value: dec("1500"), Reimbursable: false},
		}},
	}

	totals := NewCommissionCalculator().Calculate(trips, dec("10"), decimal.Zero, decimal.Zero)

	assert.True(t, totals.CommissionBase.Equal(dec("-500")))
	assert.True(t, totals.CommissionValue.Equal(dec("-50")))
	assert.True(t, totals.NetTotal.Equal(dec("-50")))
}

func TestCommissionCalculator_EmptyTripSet(t *testing.T) {
	totals := NewCommissionCalculator().Calculate(nil, dec("10"), dec("100"), dec("20"))

	assert.True(t, totals.Revenue.IsZero())
	assert.True(t, totals.CommissionBase.IsZero())
	assert.True(t, totals.CommissionValue.IsZero())
	assert.True(t, totals.NetTotal.Equal(dec("-120")))
}
