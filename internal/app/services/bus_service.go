package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rkurane/collegebus/internal/app/models"
	"github.com/rkurane/collegebus/internal/app/models/dto"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
	"github.com/rkurane/collegebus/internal/pkg/validation"
)

// BusService handles bus fleet operations
type BusService struct {
	busStore BusStore
	logger   zerolog.Logger
}

// NewBusService creates a new BusService
func NewBusService(busStore BusStore, logger zerolog.Logger) *BusService {
	return &BusService{
		busStore: busStore,
		logger:   logger,
	}
}

func (s *BusService) validate(req dto.BusRequest) (*models.Bus, error) {
	busNumber, err := validation.BusNumber(req.BusNumber)
	if err != nil {
		return nil, err
	}

	capacity, err := validation.Capacity(req.Capacity)
	if err != nil {
		return nil, err
	}

	return &models.Bus{
		BusNumber:   busNumber,
		DriverName:  strings.TrimSpace(req.DriverName),
		DriverPhone: strings.TrimSpace(req.DriverPhone),
		Capacity:    capacity,
		Route:       strings.TrimSpace(req.Route),
	}, nil
}

// Create validates and inserts a new bus, returning its assigned ID.
// Uniqueness is pre-checked for a friendly message; the unique constraint on
// bus_number backstops the race between check and insert.
func (s *BusService) Create(ctx context.Context, req dto.BusRequest) (*models.Bus, error) {
	bus, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	taken, err := s.busStore.NumberExists(ctx, bus.BusNumber, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateBusNumber
	}

	if err := s.busStore.Create(ctx, bus); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("busID", bus.ID).Str("busNumber", bus.BusNumber).Msg("Bus created")
	return bus, nil
}

// GetByID retrieves a single bus
func (s *BusService) GetByID(ctx context.Context, id int64) (*models.Bus, error) {
	return s.busStore.GetByID(ctx, id)
}

// List retrieves all buses
func (s *BusService) List(ctx context.Context) ([]*models.Bus, error) {
	return s.busStore.List(ctx)
}

// Update validates and overwrites all mutable fields of an existing bus
func (s *BusService) Update(ctx context.Context, id int64, req dto.BusRequest) error {
	bus, err := s.validate(req)
	if err != nil {
		return err
	}
	bus.ID = id

	exists, err := s.busStore.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrBusNotFound
	}

	taken, err := s.busStore.NumberExists(ctx, bus.BusNumber, id)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrDuplicateBusNumber
	}

	if err := s.busStore.Update(ctx, bus); err != nil {
		return err
	}

	s.logger.Info().Int64("busID", id).Msg("Bus updated")
	return nil
}

// Delete removes a bus; assigned students are detached by the schema
func (s *BusService) Delete(ctx context.Context, id int64) error {
	if err := s.busStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("busID", id).Msg("Bus deleted")
	return nil
}
