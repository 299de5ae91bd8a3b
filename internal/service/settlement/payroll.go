package settlement

import (
	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/shopspring/decimal"
)

// PayrollCalculator folds daily work records into settlement sub-totals.
// Strictly additive: each day's value fields were computed at entry time,
// so rate-table changes never touch this aggregation.
type PayrollCalculator struct {
}

func NewPayrollCalculator() *PayrollCalculator {
	return &PayrollCalculator{}
}

// Aggregate sums the period's records. An empty period yields all-zero
// totals and zero worked days, not an error.
func (c *PayrollCalculator) Aggregate(records []settlement.DailyWorkRecord) settlement.PayrollTotals {
	totals := settlement.PayrollTotals{
		PerDiemTotal:  decimal.Zero,
		OvertimeHours: decimal.Zero,
		OvertimeValue: decimal.Zero,
		WeekendHours:  decimal.Zero,
		WeekendValue:  decimal.Zero,
		HolidayHours:  decimal.Zero,
		HolidayValue:  decimal.Zero,
		NightHours:    decimal.Zero,
		NightValue:    decimal.Zero,
		GrossTotal:    decimal.Zero,
	}

	for _, r := range records {
		totals.PerDiemTotal = totals.PerDiemTotal.Add(r.PerDiemValue)
		totals.OvertimeHours = totals.OvertimeHours.Add(r.OvertimeHours)
		totals.OvertimeValue = totals.OvertimeValue.Add(r.OvertimeValue)
		totals.NightHours = totals.NightHours.Add(r.NightHours)
		totals.NightValue = totals.NightValue.Add(r.NightValue)
		totals.GrossTotal = totals.GrossTotal.Add(r.DayTotal)

		if isWeekend(r.Weekday) {
			totals.WeekendHours = totals.WeekendHours.Add(r.TotalHours)
		}
		totals.WeekendValue = totals.WeekendValue.Add(r.WeekendValue)

		if r.Holiday {
			totals.HolidayHours = totals.HolidayHours.Add(r.TotalHours)
		}
		totals.HolidayValue = totals.HolidayValue.Add(r.HolidayValue)

		if r.TotalHours.Sign() > 0 {
			totals.WorkedDays++
		}
	}

	return totals
}

// isWeekend assumes weekday 0 = Sunday, 6 = Saturday.
func isWeekend(weekday int) bool {
	return weekday == 0 || weekday == 6
}
