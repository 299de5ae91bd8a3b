package settlement

import (
	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/frotaops/frota-backend-go/internal/domain/trip"
	"github.com/shopspring/decimal"
)

// CommissionCalculator folds a period's trips into commission totals.
// Pure: no side effects, identical inputs always produce identical totals,
// so the engine can re-run it whenever inputs change before the freeze.
type CommissionCalculator struct {
}

func NewCommissionCalculator() *CommissionCalculator {
	return &CommissionCalculator{}
}

// Calculate derives the commission totals:
//
//	revenue         = sum of freight values over trips that carry one
//	non_reimbursable = sum of non-reimbursable expense values
//	commission_base = revenue - non_reimbursable (not clamped at zero)
//	commission      = base * percentage / 100
//	net             = commission + reimbursable - advances - deductions
//
// Expense values are the validation-resolved amounts, so rejected and
// still-pending expenses arrive here as zero.
func (c *CommissionCalculator) Calculate(
	trips []trip.Trip,
	percentage decimal.Decimal,
	advances decimal.Decimal,
	deductions decimal.Decimal,
) settlement.CommissionTotals {
	revenue := decimal.Zero
	nonReimbursable := decimal.Zero
	reimbursable := decimal.Zero

	for _, t := range trips {
		if t.FreightValue != nil {
			revenue = revenue.Add(*t.FreightValue)
		}
		for _, e := range t.Expenses {
			if e.Reimbursable {
				reimbursable = reimbursable.Add(e.Value)
			} else {
				nonReimbursable = nonReimbursable.Add(e.Value)
			}
		}
	}

	base := revenue.Sub(nonReimbursable)
	commission := base.Mul(percentage).Div(decimal.NewFromInt(100))
	net := commission.Add(reimbursable).Sub(advances).Sub(deductions)

	return settlement.CommissionTotals{
		Revenue:           revenue,
		NonReimbursable:   nonReimbursable,
		CommissionBase:    base,
		CommissionValue:   commission,
		ReimbursableTotal: reimbursable,
		NetTotal:          net,
	}
}
