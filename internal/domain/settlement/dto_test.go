package settlement

import (
	"testing"

	"github.com/frotaops/frota-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCommissionRequest() CreateSettlementRequest {
	rate := decimal.NewFromInt(10)
	return CreateSettlementRequest{
		DriverID:       "0198b2c0-1111-7000-8000-000000000001",
		PeriodStart:    "2025-01-01",
		PeriodEnd:      "2025-01-31",
		Model:          "commission",
		CommissionRate: &rate,
	}
}

func TestCreateSettlementRequest_Validate_Success(t *testing.T) {
	req := validCommissionRequest()
	assert.NoError(t, req.Validate())
}

func TestCreateSettlementRequest_Validate_CommissionRateRequired(t *testing.T) {
	req := validCommissionRequest()
	req.CommissionRate = nil

	err := req.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "commission_rate")
}

func TestCreateSettlementRequest_Validate_RateOutOfRange(t *testing.T) {
	req := validCommissionRequest()
	rate := decimal.NewFromInt(101)
	req.CommissionRate = &rate

	var errs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "commission_rate")
}

func TestCreateSettlementRequest_Validate_InvertedPeriod(t *testing.T) {
	req := validCommissionRequest()
	req.PeriodStart = "2025-02-01"
	req.PeriodEnd = "2025-01-01"

	var errs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "period")
}

func TestCreateSettlementRequest_Validate_PayrollWithoutRate(t *testing.T) {
	req := validCommissionRequest()
	req.Model = "payroll"
	req.CommissionRate = nil

	assert.NoError(t, req.Validate())
}

func TestTransitionRequest_Validate_PaidRequiresPaymentDetails(t *testing.T) {
	req := TransitionRequest{Target: "paid"}

	var errs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "payment")
}

func TestTransitionRequest_Validate_PaidWithDetails(t *testing.T) {
	date := "2025-02-05"
	method := "pix"
	req := TransitionRequest{Target: "paid", PaymentDate: &date, PaymentMethod: &method}

	assert.NoError(t, req.Validate())
}

func TestTransitionRequest_Validate_BackToOpenRejected(t *testing.T) {
	req := TransitionRequest{Target: "open"}

	var errs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "target")
}

func TestCreateAdjustmentRequest_Validate_SignRules(t *testing.T) {
	base := CreateAdjustmentRequest{
		Kind:          "bonus",
		Category:      "performance",
		Description:   "On-time delivery streak",
		Justification: "Agreed with operations",
	}

	bonus := base
	bonus.Value = decimal.NewFromInt(-50)
	var errs validator.ValidationErrors
	require.ErrorAs(t, bonus.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "value")

	penalty := base
	penalty.Kind = "penalty"
	penalty.Value = decimal.NewFromInt(50)
	require.ErrorAs(t, penalty.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "value")

	correction := base
	correction.Kind = "correction"
	correction.Value = decimal.NewFromInt(-120)
	assert.NoError(t, correction.Validate())
}

func TestReviewExpenseRequest_Validate(t *testing.T) {
	adjusted := ReviewExpenseRequest{Status: "adjusted"}
	var errs validator.ValidationErrors
	require.ErrorAs(t, adjusted.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "approved_value")

	rejected := ReviewExpenseRequest{Status: "rejected"}
	require.ErrorAs(t, rejected.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "justification")

	approved := ReviewExpenseRequest{Status: "approved"}
	assert.NoError(t, approved.Validate())

	pending := ReviewExpenseRequest{Status: "pending"}
	require.ErrorAs(t, pending.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "status")
}

func TestCreateDailyRecordRequest_DayTotal(t *testing.T) {
	req := CreateDailyRecordRequest{
		Date:          "2025-01-10",
		TotalHours:    decimal.NewFromInt(10),
		NormalHours:   decimal.NewFromInt(8),
		OvertimeHours: decimal.NewFromInt(2),
		PerDiemValue:  decimal.NewFromFloat(120.50),
		OvertimeValue: decimal.NewFromFloat(45.00),
		WeekendValue:  decimal.Zero,
		HolidayValue:  decimal.Zero,
		NightValue:    decimal.NewFromFloat(12.30),
		Origin:        "manual",
	}

	require.NoError(t, req.Validate())
	assert.True(t, req.DayTotal().Equal(decimal.NewFromFloat(177.80)))
}

func TestCreateDailyRecordRequest_Validate_HolidayNameRequired(t *testing.T) {
	req := CreateDailyRecordRequest{
		Date:    "2025-01-01",
		Holiday: true,
		Origin:  "manual",
	}

	var errs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "holiday_name")
}
