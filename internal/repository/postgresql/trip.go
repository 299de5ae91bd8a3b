package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/frotaops/frota-backend-go/internal/domain/trip"
	"github.com/frotaops/frota-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type tripRepository struct {
	db *database.DB
}

func NewTripRepository(db *database.DB) trip.TripRepository {
	return &tripRepository{db: db}
}

// ListForSettlement loads the driver's trips inside [periodStart, periodEnd]
// with each expense value resolved against the settlement's validations:
// original when approved, the reviewer's figure when adjusted, zero when
// rejected or still unreviewed.
func (r *tripRepository) ListForSettlement(ctx context.Context, driverID string, periodStart, periodEnd time.Time, settlementID string) ([]trip.Trip, error) {
	q := GetQuerier(ctx, r.db)

	tripQuery := `
		SELECT id, driver_id, origin, destination, started_at, ended_at, freight_value
		FROM trips
		WHERE driver_id = $1
		  AND started_at::date BETWEEN $2 AND $3
		ORDER BY started_at ASC
	`

	rows, err := q.Query(ctx, tripQuery, driverID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []trip.Trip
	tripIdx := make(map[string]int)
	for rows.Next() {
		var t trip.Trip
		err := rows.Scan(&t.ID, &t.DriverID, &t.Origin, &t.Destination, &t.StartedAt, &t.EndedAt, &t.FreightValue)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		tripIdx[t.ID] = len(trips)
		trips = append(trips, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return trips, nil
	}

	expenseQuery := `
		SELECT e.id, e.trip_id, e.description, e.value,
			CASE
				WHEN ev.status = 'approved' THEN e.value
				WHEN ev.status = 'adjusted' THEN COALESCE(ev.approved_value, 0)
				ELSE 0
			END AS resolved_value,
			e.reimbursable,
			COALESCE(ev.status, 'pending') AS validation_status
		FROM trip_expenses e
		JOIN trips t ON e.trip_id = t.id
		LEFT JOIN expense_validations ev
			ON ev.expense_id = e.id AND ev.settlement_id = $4
		WHERE t.driver_id = $1
		  AND t.started_at::date BETWEEN $2 AND $3
		ORDER BY e.created_at ASC
	`

	expRows, err := q.Query(ctx, expenseQuery, driverID, periodStart, periodEnd, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip expenses: %w", err)
	}
	defer expRows.Close()

	for expRows.Next() {
		var e trip.Expense
		err := expRows.Scan(&e.ID, &e.TripID, &e.Description, &e.OriginalValue, &e.Value, &e.Reimbursable, &e.ValidationStatus)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip expense: %w", err)
		}
		if idx, ok := tripIdx[e.TripID]; ok {
			trips[idx].Expenses = append(trips[idx].Expenses, e)
		}
	}
	if err = expRows.Err(); err != nil {
		return nil, err
	}

	return trips, nil
}

func (r *tripRepository) GetExpenseForSettlement(ctx context.Context, expenseID, driverID string, periodStart, periodEnd time.Time) (trip.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.trip_id, e.description, e.value, e.value, e.reimbursable
		FROM trip_expenses e
		JOIN trips t ON e.trip_id = t.id
		WHERE e.id = $1
		  AND t.driver_id = $2
		  AND t.started_at::date BETWEEN $3 AND $4
	`

	var e trip.Expense
	err := q.QueryRow(ctx, query, expenseID, driverID, periodStart, periodEnd).Scan(
		&e.ID, &e.TripID, &e.Description, &e.OriginalValue, &e.Value, &e.Reimbursable,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return trip.Expense{}, settlement.ErrExpenseNotFound
		}
		return trip.Expense{}, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}
