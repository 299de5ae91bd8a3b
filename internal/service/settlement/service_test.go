package settlement

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/frotaops/frota-backend-go/internal/domain/debit"
	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/frotaops/frota-backend-go/internal/pkg/database"
	"github.com/frotaops/frota-backend-go/internal/pkg/events"
	"github.com/frotaops/frota-backend-go/internal/repository/postgresql"
	debitService "github.com/frotaops/frota-backend-go/internal/service/debit"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSettlementDB *database.DB

func settlementTestInit(t *testing.T) {
	if testSettlementDB != nil {
		return
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database integration tests")
	}

	var err error
	testSettlementDB, err = database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
}

func truncateSettlementTables(t *testing.T, ctx context.Context) {
	tables := []string{
		"expense_validations", "settlement_adjustments", "settlement_daily_records",
		"settlement_debit_applications", "settlements", "trip_expenses", "trips",
		"debits", "drivers",
	}

	for _, table := range tables {
		_, err := testSettlementDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			continue
		}
	}
}

func createTestDriver(t *testing.T, ctx context.Context) string {
	var driverID string
	uniqueCode := fmt.Sprintf("TST-%d", time.Now().UnixNano()%100000000)
	err := testSettlementDB.QueryRow(ctx, `
		INSERT INTO drivers (id, name, code, default_model, active, hired_at, created_at, updated_at)
		VALUES (uuidv7(), 'Test Driver', $1, 'commission', true, '2024-03-01', NOW(), NOW())
		RETURNING id
	`, uniqueCode).Scan(&driverID)
	require.NoError(t, err)
	return driverID
}

func createTestTrip(t *testing.T, ctx context.Context, driverID, startedAt string, freight decimal.Decimal) string {
	var tripID string
	err := testSettlementDB.QueryRow(ctx, `
		INSERT INTO trips (id, driver_id, origin, destination, started_at, ended_at, freight_value)
		VALUES (uuidv7(), $1, 'Santos', 'Campinas', $2, $2, $3)
		RETURNING id
	`, driverID, startedAt, freight).Scan(&tripID)
	require.NoError(t, err)
	return tripID
}

func createTestExpense(t *testing.T, ctx context.Context, tripID string, value decimal.Decimal, reimbursable bool) string {
	var expenseID string
	err := testSettlementDB.QueryRow(ctx, `
		INSERT INTO trip_expenses (id, trip_id, description, value, reimbursable)
		VALUES (uuidv7(), $1, 'Toll', $2, $3)
		RETURNING id
	`, tripID, value, reimbursable).Scan(&expenseID)
	require.NoError(t, err)
	return expenseID
}

// authedContext injects JWT claims the way the verifier middleware does,
// so operations that record an author can run in tests.
func authedContext(t *testing.T, ctx context.Context) context.Context {
	tok := jwt.New()
	require.NoError(t, tok.Set("user_id", "0193e0f0-0000-7000-8000-000000000001"))
	require.NoError(t, tok.Set("type", "access"))
	return jwtauth.NewContext(ctx, tok, nil)
}

func newTestServicesWithHub(t *testing.T) (settlement.SettlementService, debit.DebitService, *events.Hub) {
	driverRepo := postgresql.NewDriverRepository(testSettlementDB)
	tripRepo := postgresql.NewTripRepository(testSettlementDB)
	debitRepo := postgresql.NewDebitRepository(testSettlementDB)
	settlementRepo := postgresql.NewSettlementRepository(testSettlementDB)
	hub := events.NewHub()

	debitSvc := debitService.NewDebitService(testSettlementDB, debitRepo, driverRepo, settlementRepo, hub)
	settlementSvc := NewSettlementService(testSettlementDB, settlementRepo, driverRepo, tripRepo, debitRepo, debitSvc, hub)
	return settlementSvc, debitSvc, hub
}

func newTestServices(t *testing.T) (settlement.SettlementService, debit.DebitService) {
	settlementSvc, debitSvc, _ := newTestServicesWithHub(t)
	return settlementSvc, debitSvc
}

func TestSettlementService_Create_PeriodOverlap(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, _ := newTestServices(t)
	driverID := createTestDriver(t, ctx)

	rate := decimal.NewFromInt(10)
	req := settlement.CreateSettlementRequest{
		DriverID:       driverID,
		PeriodStart:    "2025-01-01",
		PeriodEnd:      "2025-01-31",
		Model:          "commission",
		CommissionRate: &rate,
	}

	first, err := settlementSvc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "open", first.Status)
	assert.NotEmpty(t, first.Code)

	// Any intersection with a live settlement is rejected.
	req.PeriodStart = "2025-01-15"
	req.PeriodEnd = "2025-02-15"
	_, err = settlementSvc.Create(ctx, req)
	assert.ErrorIs(t, err, settlement.ErrPeriodOverlap)

	// An adjacent period is fine.
	req.PeriodStart = "2025-02-01"
	req.PeriodEnd = "2025-02-28"
	_, err = settlementSvc.Create(ctx, req)
	assert.NoError(t, err)
}

func TestSettlementService_Transition_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, _ := newTestServices(t)
	driverID := createTestDriver(t, ctx)

	rate := decimal.NewFromInt(10)
	created, err := settlementSvc.Create(ctx, settlement.CreateSettlementRequest{
		DriverID:       driverID,
		PeriodStart:    "2025-03-01",
		PeriodEnd:      "2025-03-31",
		Model:          "commission",
		CommissionRate: &rate,
	})
	require.NoError(t, err)

	// open -> paid is not a legal step
	_, err = settlementSvc.Transition(ctx, created.ID, settlement.TransitionRequest{Target: "approved"})
	assert.ErrorIs(t, err, settlement.ErrIllegalTransition)

	inReview, err := settlementSvc.Transition(ctx, created.ID, settlement.TransitionRequest{Target: "in_review"})
	require.NoError(t, err)
	assert.Equal(t, "in_review", inReview.Status)

	approved, err := settlementSvc.Transition(ctx, created.ID, settlement.TransitionRequest{Target: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)

	// Frozen settlements reject recalculation.
	_, err = settlementSvc.Recalculate(ctx, created.ID)
	assert.ErrorIs(t, err, settlement.ErrSettlementFrozen)

	date := "2025-04-05"
	method := "pix"
	paid, err := settlementSvc.Transition(ctx, created.ID, settlement.TransitionRequest{
		Target: "paid", PaymentDate: &date, PaymentMethod: &method,
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)

	// paid is terminal
	_, err = settlementSvc.Transition(ctx, created.ID, settlement.TransitionRequest{Target: "cancelled"})
	assert.ErrorIs(t, err, settlement.ErrIllegalTransition)
}

func TestSettlementService_CancelReversesDebitApplications(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, debitSvc := newTestServices(t)
	driverID := createTestDriver(t, ctx)

	rate := decimal.NewFromInt(10)
	stmt, err := settlementSvc.Create(ctx, settlement.CreateSettlementRequest{
		DriverID:       driverID,
		PeriodStart:    "2025-05-01",
		PeriodEnd:      "2025-05-31",
		Model:          "commission",
		CommissionRate: &rate,
	})
	require.NoError(t, err)

	registered, err := debitSvc.Register(ctx, debit.RegisterDebitRequest{
		DriverID:       driverID,
		Kind:           "fuel_advance",
		Description:    "Fuel card advance",
		OriginalAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	applied, err := debitSvc.ApplyPayment(ctx, registered.ID, debit.ApplyPaymentRequest{
		SettlementID: stmt.ID,
		Amount:       decimal.NewFromInt(400),
	})
	require.NoError(t, err)
	assert.True(t, applied.Balance.Equal(decimal.NewFromInt(600)))

	afterApply, err := settlementSvc.Get(ctx, stmt.ID)
	require.NoError(t, err)
	assert.True(t, afterApply.DebitsApplied.Equal(decimal.NewFromInt(400)))

	cancelled, err := settlementSvc.Transition(ctx, stmt.ID, settlement.TransitionRequest{Target: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	// The earmarked amount is released back to the debit.
	reverted, err := debitSvc.Get(ctx, registered.ID)
	require.NoError(t, err)
	assert.True(t, reverted.Balance.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "active", reverted.Status)
}

func TestSettlementService_AddDailyRecord_ModelMismatch(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, _ := newTestServices(t)
	driverID := createTestDriver(t, ctx)

	rate := decimal.NewFromInt(10)
	stmt, err := settlementSvc.Create(ctx, settlement.CreateSettlementRequest{
		DriverID:       driverID,
		PeriodStart:    "2025-06-01",
		PeriodEnd:      "2025-06-30",
		Model:          "commission",
		CommissionRate: &rate,
	})
	require.NoError(t, err)

	_, err = settlementSvc.AddDailyRecord(ctx, stmt.ID, settlement.CreateDailyRecordRequest{
		Date:         "2025-06-10",
		TotalHours:   decimal.NewFromInt(8),
		NormalHours:  decimal.NewFromInt(8),
		PerDiemValue: decimal.NewFromInt(100),
		Origin:       "manual",
	})
	assert.ErrorIs(t, err, settlement.ErrModelMismatch)
}

func TestSettlementService_PayrollAggregation(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, _ := newTestServices(t)
	driverID := createTestDriver(t, ctx)

	stmt, err := settlementSvc.Create(ctx, settlement.CreateSettlementRequest{
		DriverID:    driverID,
		PeriodStart: "2025-07-01",
		PeriodEnd:   "2025-07-31",
		Model:       "payroll",
	})
	require.NoError(t, err)

	_, err = settlementSvc.AddDailyRecord(ctx, stmt.ID, settlement.CreateDailyRecordRequest{
		Date:          "2025-07-07", // Monday
		TotalHours:    decimal.NewFromInt(10),
		NormalHours:   decimal.NewFromInt(8),
		OvertimeHours: decimal.NewFromInt(2),
		PerDiemValue:  decimal.NewFromInt(120),
		OvertimeValue: decimal.NewFromInt(50),
		Origin:        "manual",
	})
	require.NoError(t, err)

	_, err = settlementSvc.AddDailyRecord(ctx, stmt.ID, settlement.CreateDailyRecordRequest{
		Date:         "2025-07-12", // Saturday
		TotalHours:   decimal.NewFromInt(6),
		NormalHours:  decimal.NewFromInt(6),
		PerDiemValue: decimal.NewFromInt(120),
		WeekendValue: decimal.NewFromInt(80),
		Origin:       "manual",
	})
	require.NoError(t, err)

	result, err := settlementSvc.Get(ctx, stmt.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.WorkedDays)
	assert.True(t, result.PerDiemTotal.Equal(decimal.NewFromInt(240)))
	assert.True(t, result.OvertimeValue.Equal(decimal.NewFromInt(50)))
	assert.True(t, result.WeekendValue.Equal(decimal.NewFromInt(80)))
	assert.True(t, result.GrossTotal.Equal(decimal.NewFromInt(370)))
	assert.True(t, result.NetTotal.Equal(decimal.NewFromInt(370)))
}

func TestSettlementService_Create_ConcurrentOverlap(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, _ := newTestServices(t)
	driverID := createTestDriver(t, ctx)

	rate := decimal.NewFromInt(10)
	req := settlement.CreateSettlementRequest{
		DriverID:       driverID,
		PeriodStart:    "2025-09-01",
		PeriodEnd:      "2025-09-30",
		Model:          "commission",
		CommissionRate: &rate,
	}

	// The driver row lock serializes the two creations; exactly one wins.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = settlementSvc.Create(ctx, req)
		}(i)
	}
	wg.Wait()

	var succeeded, overlapped int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, settlement.ErrPeriodOverlap):
			overlapped++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, overlapped)
}

func TestDebitService_CancelBlockedBySettlementApplication(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, debitSvc := newTestServices(t)
	driverID := createTestDriver(t, ctx)

	rate := decimal.NewFromInt(10)
	stmt, err := settlementSvc.Create(ctx, settlement.CreateSettlementRequest{
		DriverID:       driverID,
		PeriodStart:    "2025-10-01",
		PeriodEnd:      "2025-10-31",
		Model:          "commission",
		CommissionRate: &rate,
	})
	require.NoError(t, err)

	registered, err := debitSvc.Register(ctx, debit.RegisterDebitRequest{
		DriverID:       driverID,
		Kind:           "loan",
		Description:    "Tire advance",
		OriginalAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	_, err = debitSvc.ApplyPayment(ctx, registered.ID, debit.ApplyPaymentRequest{
		SettlementID: stmt.ID,
		Amount:       decimal.NewFromInt(400),
	})
	require.NoError(t, err)

	// A debit a live settlement netted against cannot be cancelled.
	_, err = debitSvc.Cancel(ctx, registered.ID)
	assert.ErrorIs(t, err, debit.ErrDebitHasApplications)

	// Cancelling the settlement releases the application and keeps
	// the cancellation path itself working.
	_, err = settlementSvc.Transition(ctx, stmt.ID, settlement.TransitionRequest{Target: "cancelled"})
	require.NoError(t, err)

	cancelled, err := debitSvc.Cancel(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
}

func TestSettlementService_Transition_PendingExpenseBlocksReview(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, _ := newTestServices(t)
	driverID := createTestDriver(t, ctx)

	rate := decimal.NewFromInt(10)
	stmt, err := settlementSvc.Create(ctx, settlement.CreateSettlementRequest{
		DriverID:       driverID,
		PeriodStart:    "2025-08-01",
		PeriodEnd:      "2025-08-31",
		Model:          "commission",
		CommissionRate: &rate,
	})
	require.NoError(t, err)

	tripID := createTestTrip(t, ctx, driverID, "2025-08-10", decimal.NewFromInt(1000))
	expenseID := createTestExpense(t, ctx, tripID, decimal.NewFromInt(100), true)

	// An expense with no validation row counts as pending.
	_, err = settlementSvc.Transition(ctx, stmt.ID, settlement.TransitionRequest{Target: "in_review"})
	assert.ErrorIs(t, err, settlement.ErrValidationIncomplete)

	authed := authedContext(t, ctx)
	_, err = settlementSvc.ReviewExpense(authed, stmt.ID, expenseID, settlement.ReviewExpenseRequest{Status: "approved"})
	require.NoError(t, err)

	inReview, err := settlementSvc.Transition(ctx, stmt.ID, settlement.TransitionRequest{Target: "in_review"})
	require.NoError(t, err)
	assert.Equal(t, "in_review", inReview.Status)

	// Approved toll reimburses in full: 10% of 1000 plus the 100 expense.
	result, err := settlementSvc.Get(ctx, stmt.ID)
	require.NoError(t, err)
	assert.True(t, result.ReimbursableTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.GrossTotal.Equal(decimal.NewFromInt(200)))
}

func TestSettlementService_FrozenRejectsChildMutations(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, _ := newTestServices(t)
	driverID := createTestDriver(t, ctx)

	stmt, err := settlementSvc.Create(ctx, settlement.CreateSettlementRequest{
		DriverID:    driverID,
		PeriodStart: "2025-11-01",
		PeriodEnd:   "2025-11-30",
		Model:       "payroll",
	})
	require.NoError(t, err)

	record, err := settlementSvc.AddDailyRecord(ctx, stmt.ID, settlement.CreateDailyRecordRequest{
		Date:         "2025-11-10",
		TotalHours:   decimal.NewFromInt(8),
		NormalHours:  decimal.NewFromInt(8),
		PerDiemValue: decimal.NewFromInt(120),
		Origin:       "manual",
	})
	require.NoError(t, err)

	_, err = settlementSvc.Transition(ctx, stmt.ID, settlement.TransitionRequest{Target: "in_review"})
	require.NoError(t, err)
	_, err = settlementSvc.Transition(ctx, stmt.ID, settlement.TransitionRequest{Target: "approved"})
	require.NoError(t, err)

	authed := authedContext(t, ctx)
	_, err = settlementSvc.CreateAdjustment(authed, stmt.ID, settlement.CreateAdjustmentRequest{
		Kind:          "bonus",
		Description:   "Late bonus",
		Justification: "Agreed after the freeze",
		Value:         decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, settlement.ErrSettlementFrozen)

	_, err = settlementSvc.AddDailyRecord(ctx, stmt.ID, settlement.CreateDailyRecordRequest{
		Date:         "2025-11-11",
		TotalHours:   decimal.NewFromInt(8),
		NormalHours:  decimal.NewFromInt(8),
		PerDiemValue: decimal.NewFromInt(120),
		Origin:       "manual",
	})
	assert.ErrorIs(t, err, settlement.ErrSettlementFrozen)

	err = settlementSvc.DeleteDailyRecord(ctx, stmt.ID, record.ID)
	assert.ErrorIs(t, err, settlement.ErrSettlementFrozen)
}

func TestSettlementService_ReviewExpense_Overwrite(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, _ := newTestServices(t)
	driverID := createTestDriver(t, ctx)

	rate := decimal.NewFromInt(10)
	stmt, err := settlementSvc.Create(ctx, settlement.CreateSettlementRequest{
		DriverID:       driverID,
		PeriodStart:    "2025-08-01",
		PeriodEnd:      "2025-08-31",
		Model:          "commission",
		CommissionRate: &rate,
	})
	require.NoError(t, err)

	tripID := createTestTrip(t, ctx, driverID, "2025-08-12", decimal.NewFromInt(1000))
	expenseID := createTestExpense(t, ctx, tripID, decimal.NewFromInt(100), true)

	authed := authedContext(t, ctx)

	approvedValue := decimal.NewFromInt(80)
	first, err := settlementSvc.ReviewExpense(authed, stmt.ID, expenseID, settlement.ReviewExpenseRequest{
		Status:        "adjusted",
		ApprovedValue: &approvedValue,
	})
	require.NoError(t, err)
	assert.Equal(t, "adjusted", first.Status)

	afterAdjust, err := settlementSvc.Get(ctx, stmt.ID)
	require.NoError(t, err)
	assert.True(t, afterAdjust.ReimbursableTotal.Equal(decimal.NewFromInt(80)))
	assert.True(t, afterAdjust.GrossTotal.Equal(decimal.NewFromInt(180)))

	// A second review replaces the first decision, never duplicates it.
	second, err := settlementSvc.ReviewExpense(authed, stmt.ID, expenseID, settlement.ReviewExpenseRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "approved", second.Status)

	validations, err := settlementSvc.ListExpenseValidations(ctx, stmt.ID)
	require.NoError(t, err)
	require.Len(t, validations, 1)
	assert.Equal(t, "approved", validations[0].Status)
	require.NotNil(t, validations[0].ApprovedValue)
	assert.True(t, validations[0].ApprovedValue.Equal(decimal.NewFromInt(100)))

	afterApprove, err := settlementSvc.Get(ctx, stmt.ID)
	require.NoError(t, err)
	assert.True(t, afterApprove.GrossTotal.Equal(decimal.NewFromInt(200)))
}

func TestSettlementService_ReviewExpense_OutsideSettlementScope(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, _ := newTestServices(t)
	driverID := createTestDriver(t, ctx)
	otherDriverID := createTestDriver(t, ctx)

	rate := decimal.NewFromInt(10)
	stmt, err := settlementSvc.Create(ctx, settlement.CreateSettlementRequest{
		DriverID:       driverID,
		PeriodStart:    "2025-08-01",
		PeriodEnd:      "2025-08-31",
		Model:          "commission",
		CommissionRate: &rate,
	})
	require.NoError(t, err)

	authed := authedContext(t, ctx)

	// Another driver's expense is not this settlement's to review.
	otherTrip := createTestTrip(t, ctx, otherDriverID, "2025-08-10", decimal.NewFromInt(500))
	otherExpense := createTestExpense(t, ctx, otherTrip, decimal.NewFromInt(50), true)
	_, err = settlementSvc.ReviewExpense(authed, stmt.ID, otherExpense, settlement.ReviewExpenseRequest{Status: "approved"})
	assert.ErrorIs(t, err, settlement.ErrExpenseNotFound)

	// Neither is one from a trip outside the period.
	lateTrip := createTestTrip(t, ctx, driverID, "2025-09-05", decimal.NewFromInt(500))
	lateExpense := createTestExpense(t, ctx, lateTrip, decimal.NewFromInt(50), true)
	_, err = settlementSvc.ReviewExpense(authed, stmt.ID, lateExpense, settlement.ReviewExpenseRequest{Status: "approved"})
	assert.ErrorIs(t, err, settlement.ErrExpenseNotFound)
}

func TestSettlementService_EventsFollowCommittedState(t *testing.T) {
	ctx := context.Background()
	settlementTestInit(t)
	truncateSettlementTables(t, ctx)

	settlementSvc, _, hub := newTestServicesWithHub(t)
	driverID := createTestDriver(t, ctx)

	ch, cleanup := hub.Subscribe(events.SettlementStateChanged)
	defer cleanup()
	drain := func() []events.Event {
		var got []events.Event
		for {
			select {
			case ev := <-ch:
				got = append(got, ev)
			default:
				return got
			}
		}
	}

	rate := decimal.NewFromInt(10)
	stmt, err := settlementSvc.Create(ctx, settlement.CreateSettlementRequest{
		DriverID:       driverID,
		PeriodStart:    "2025-12-01",
		PeriodEnd:      "2025-12-31",
		Model:          "commission",
		CommissionRate: &rate,
	})
	require.NoError(t, err)

	// A rejected transition leaves no trace on the hub.
	_, err = settlementSvc.Transition(ctx, stmt.ID, settlement.TransitionRequest{Target: "approved"})
	require.ErrorIs(t, err, settlement.ErrIllegalTransition)
	assert.Empty(t, drain())

	_, err = settlementSvc.Transition(ctx, stmt.ID, settlement.TransitionRequest{Target: "in_review"})
	require.NoError(t, err)

	got := drain()
	require.Len(t, got, 1)
	payload, ok := got[0].Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "open", payload["from"])
	assert.Equal(t, "in_review", payload["to"])
}
