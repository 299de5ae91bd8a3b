package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/frotaops/frota-backend-go/internal/domain/driver"
	"github.com/frotaops/frota-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type driverRepository struct {
	db *database.DB
}

func NewDriverRepository(db *database.DB) driver.DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) Create(ctx context.Context, d driver.Driver) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO drivers (id, name, code, default_model, active, hired_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, code, default_model, active, hired_at, created_at, updated_at
	`

	var created driver.Driver
	err := q.QueryRow(ctx, query,
		d.ID, d.Name, d.Code, d.DefaultModel, d.Active, d.HiredAt,
	).Scan(
		&created.ID, &created.Name, &created.Code, &created.DefaultModel,
		&created.Active, &created.HiredAt, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_drivers_code") {
			return driver.Driver{}, driver.ErrDriverCodeExists
		}
		return driver.Driver{}, fmt.Errorf("failed to create driver: %w", err)
	}

	return created, nil
}

func (r *driverRepository) GetByID(ctx context.Context, id string) (driver.Driver, error) {
	return r.getByID(ctx, id, false)
}

func (r *driverRepository) GetByIDForUpdate(ctx context.Context, id string) (driver.Driver, error) {
	return r.getByID(ctx, id, true)
}

func (r *driverRepository) getByID(ctx context.Context, id string, forUpdate bool) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, code, default_model, active, hired_at, created_at, updated_at
		FROM drivers
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var d driver.Driver
	err := q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Code, &d.DefaultModel,
		&d.Active, &d.HiredAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return driver.Driver{}, driver.ErrDriverNotFound
		}
		return driver.Driver{}, fmt.Errorf("failed to get driver: %w", err)
	}

	return d, nil
}

func (r *driverRepository) List(ctx context.Context, activeOnly bool) ([]driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, code, default_model, active, hired_at, created_at, updated_at
		FROM drivers
	`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []driver.Driver
	for rows.Next() {
		var d driver.Driver
		err := rows.Scan(
			&d.ID, &d.Name, &d.Code, &d.DefaultModel,
			&d.Active, &d.HiredAt, &d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}
