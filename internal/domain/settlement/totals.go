package settlement

import "github.com/shopspring/decimal"

// CommissionTotals is the result of one commission computation pass.
// The base is not clamped: when expenses exceed revenue the driver owes
// money and the negative base is surfaced as-is.
type CommissionTotals struct {
	Revenue           decimal.Decimal `json:"revenue"`
	NonReimbursable   decimal.Decimal `json:"non_reimbursable"`
	CommissionBase    decimal.Decimal `json:"commission_base"`
	CommissionValue   decimal.Decimal `json:"commission_value"`
	ReimbursableTotal decimal.Decimal `json:"reimbursable_total"`
	NetTotal          decimal.Decimal `json:"net_total"`
}

// PayrollTotals is the additive aggregation of a period's daily records.
type PayrollTotals struct {
	PerDiemTotal  decimal.Decimal `json:"per_diem_total"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	OvertimeValue decimal.Decimal `json:"overtime_value"`
	WeekendHours  decimal.Decimal `json:"weekend_hours"`
	WeekendValue  decimal.Decimal `json:"weekend_value"`
	HolidayHours  decimal.Decimal `json:"holiday_hours"`
	HolidayValue  decimal.Decimal `json:"holiday_value"`
	NightHours    decimal.Decimal `json:"night_hours"`
	NightValue    decimal.Decimal `json:"night_value"`
	WorkedDays    int             `json:"worked_days"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
}
