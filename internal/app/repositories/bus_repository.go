package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rkurane/collegebus/internal/app/models"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
	"github.com/rkurane/collegebus/internal/pkg/dberrors"
)

// BusRepository handles database operations for buses
type BusRepository struct {
	db *pgxpool.Pool
}

// NewBusRepository creates a new bus repository
func NewBusRepository(db *pgxpool.Pool) *BusRepository {
	return &BusRepository{
		db: db,
	}
}

// Create inserts a new bus and fills in its generated ID
func (r *BusRepository) Create(ctx context.Context, bus *models.Bus) error {
	query := `
		INSERT INTO buses (bus_number, driver_name, driver_phone, capacity, route)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		bus.BusNumber,
		bus.DriverName,
		bus.DriverPhone,
		bus.Capacity,
		bus.Route,
	).Scan(&bus.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "buses_bus_number_key") {
			return apperrors.ErrDuplicateBusNumber
		}
		return fmt.Errorf("error creating bus: %w", err)
	}

	return nil
}

// GetByID retrieves a bus by its ID
func (r *BusRepository) GetByID(ctx context.Context, id int64) (*models.Bus, error) {
	query := `
		SELECT id, bus_number, driver_name, driver_phone, capacity, route, created_at, updated_at
		FROM buses
		WHERE id = $1
	`

	var bus models.Bus
	err := r.db.QueryRow(ctx, query, id).Scan(
		&bus.ID,
		&bus.BusNumber,
		&bus.DriverName,
		&bus.DriverPhone,
		&bus.Capacity,
		&bus.Route,
		&bus.CreatedAt,
		&bus.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBusNotFound
		}
		return nil, fmt.Errorf("error retrieving bus: %w", err)
	}

	return &bus, nil
}

// List retrieves all buses, newest first
func (r *BusRepository) List(ctx context.Context) ([]*models.Bus, error) {
	query := `
		SELECT id, bus_number, driver_name, driver_phone, capacity, route, created_at, updated_at
		FROM buses
		ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing buses: %w", err)
	}
	defer rows.Close()

	buses := make([]*models.Bus, 0)
	for rows.Next() {
		var bus models.Bus
		err := rows.Scan(
			&bus.ID,
			&bus.BusNumber,
			&bus.DriverName,
			&bus.DriverPhone,
			&bus.Capacity,
			&bus.Route,
			&bus.CreatedAt,
			&bus.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning bus: %w", err)
		}
		buses = append(buses, &bus)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buses: %w", err)
	}

	return buses, nil
}

// Update modifies an existing bus
func (r *BusRepository) Update(ctx context.Context, bus *models.Bus) error {
	query := `
		UPDATE buses
		SET bus_number = $1, driver_name = $2, driver_phone = $3, capacity = $4, route = $5, updated_at = NOW()
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		bus.BusNumber,
		bus.DriverName,
		bus.DriverPhone,
		bus.Capacity,
		bus.Route,
		bus.ID,
	)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "buses_bus_number_key") {
			return apperrors.ErrDuplicateBusNumber
		}
		return fmt.Errorf("error updating bus: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBusNotFound
	}

	return nil
}

// Delete removes a bus. Students assigned to it fall back to no bus via the
// ON DELETE SET NULL foreign key.
func (r *BusRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting bus: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBusNotFound
	}

	return nil
}

// NumberExists checks whether another bus already uses the given number.
// excludeID is skipped so updates do not collide with the bus itself.
func (r *BusRepository) NumberExists(ctx context.Context, busNumber string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM buses WHERE bus_number = $1 AND id != $2
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, busNumber, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking bus number: %w", err)
	}

	return exists, nil
}

// Exists checks whether a bus with the given ID exists
func (r *BusRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM buses WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking bus: %w", err)
	}

	return exists, nil
}
