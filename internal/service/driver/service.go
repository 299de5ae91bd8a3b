package driver

import (
	"context"
	"time"

	"github.com/frotaops/frota-backend-go/internal/domain/driver"
	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
	"github.com/frotaops/frota-backend-go/internal/pkg/utils"
	"github.com/google/uuid"
)

type DriverServiceImpl struct {
	driverRepo driver.DriverRepository
}

func NewDriverService(driverRepo driver.DriverRepository) driver.DriverService {
	return &DriverServiceImpl{driverRepo: driverRepo}
}

func (s *DriverServiceImpl) Create(ctx context.Context, req driver.CreateDriverRequest) (driver.DriverResponse, error) {
	if err := req.Validate(); err != nil {
		return driver.DriverResponse{}, err
	}

	hiredAt, _ := time.Parse("2006-01-02", req.HiredAt)

	created, err := s.driverRepo.Create(ctx, driver.Driver{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         req.Name,
		Code:         utils.DriverCode(req.Name, hiredAt),
		DefaultModel: settlement.Model(req.DefaultModel),
		Active:       true,
		HiredAt:      hiredAt,
	})
	if err != nil {
		return driver.DriverResponse{}, err
	}

	return mapToDriverResponse(created), nil
}

func (s *DriverServiceImpl) Get(ctx context.Context, id string) (driver.DriverResponse, error) {
	found, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return driver.DriverResponse{}, err
	}
	return mapToDriverResponse(found), nil
}

func (s *DriverServiceImpl) List(ctx context.Context, activeOnly bool) ([]driver.DriverResponse, error) {
	drivers, err := s.driverRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	result := make([]driver.DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		result = append(result, mapToDriverResponse(d))
	}
	return result, nil
}

func mapToDriverResponse(d driver.Driver) driver.DriverResponse {
	return driver.DriverResponse{
		ID:           d.ID,
		Name:         d.Name,
		Code:         d.Code,
		DefaultModel: string(d.DefaultModel),
		Active:       d.Active,
		HiredAt:      d.HiredAt.Format("2006-01-02"),
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
	}
}
