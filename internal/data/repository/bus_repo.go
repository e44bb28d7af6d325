package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BusFilter narrows FindAll and CountAll. Zero values mean no filter.
type BusFilter struct {
	RouteID    *uuid.UUID
	ActiveOnly bool
}

type BusRepository interface {
	Create(ctx context.Context, bus *entity.Bus) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bus, error)
	FindAll(ctx context.Context, limit, offset int, filter BusFilter) ([]*entity.Bus, error)
	CountAll(ctx context.Context, filter BusFilter) (int64, error)
	Update(ctx context.Context, bus *entity.Bus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type busRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBusRepository(db database.PgxIface, log *zap.Logger) BusRepository {
	return &busRepository{
		db:  db,
		log: log.With(zap.String("repository", "bus")),
	}
}

const busColumns = `id, name, bus_number, coach_layout, route_id, fare, departure_time,
		       is_active, created_at, updated_at, deleted_at`

func scanBus(row pgx.Row) (*entity.Bus, error) {
	var bus entity.Bus
	err := row.Scan(
		&bus.ID,
		&bus.Name,
		&bus.BusNumber,
		&bus.CoachLayout,
		&bus.RouteID,
		&bus.Fare,
		&bus.DepartureTime,
		&bus.IsActive,
		&bus.CreatedAt,
		&bus.UpdatedAt,
		&bus.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bus, nil
}

func (r *busRepository) Create(ctx context.Context, bus *entity.Bus) error {
	query := `
		INSERT INTO buses (id, name, bus_number, coach_layout, route_id, fare,
		                   departure_time, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		bus.ID,
		bus.Name,
		bus.BusNumber,
		bus.CoachLayout,
		bus.RouteID,
		bus.Fare,
		bus.DepartureTime,
		bus.IsActive,
		bus.CreatedAt,
		bus.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return fmt.Errorf("bus number %s already exists", bus.BusNumber)
		}
		r.log.Error("Failed to create bus",
			zap.Error(err),
			zap.String("bus_number", bus.BusNumber),
		)
		return fmt.Errorf("create bus %s: %w", bus.BusNumber, err)
	}

	return nil
}

func (r *busRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bus, error) {
	query := `SELECT ` + busColumns + ` FROM buses WHERE id = $1 AND deleted_at IS NULL`

	bus, err := scanBus(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find bus by ID",
			zap.Error(err),
			zap.String("bus_id", id.String()),
		)
		return nil, fmt.Errorf("find bus by ID %s: %w", id.String(), err)
	}

	return bus, nil
}

// whereBus appends the filter conditions and returns the next placeholder index
func whereBus(qb *strings.Builder, filter BusFilter, args []any) ([]any, int) {
	qb.WriteString(" WHERE deleted_at IS NULL")
	argCount := len(args) + 1

	if filter.RouteID != nil {
		qb.WriteString(fmt.Sprintf(" AND route_id = $%d", argCount))
		args = append(args, *filter.RouteID)
		argCount++
	}
	if filter.ActiveOnly {
		qb.WriteString(" AND is_active")
	}

	return args, argCount
}

func (r *busRepository) FindAll(ctx context.Context, limit, offset int, filter BusFilter) ([]*entity.Bus, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + busColumns + ` FROM buses`)

	args, argCount := whereBus(&queryBuilder, filter, nil)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY departure_time, bus_number LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all buses",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all buses limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var buses []*entity.Bus
	for rows.Next() {
		bus, err := scanBus(rows)
		if err != nil {
			r.log.Error("Failed to scan bus row", zap.Error(err))
			return nil, fmt.Errorf("scan bus row: %w", err)
		}
		buses = append(buses, bus)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate bus rows: %w", err)
	}

	return buses, nil
}

func (r *busRepository) CountAll(ctx context.Context, filter BusFilter) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM buses`)

	args, _ := whereBus(&queryBuilder, filter, nil)

	var count int64
	if err := r.db.QueryRow(ctx, queryBuilder.String(), args...).Scan(&count); err != nil {
		r.log.Error("Failed to count buses", zap.Error(err))
		return 0, fmt.Errorf("count buses: %w", err)
	}

	return count, nil
}

func (r *busRepository) Update(ctx context.Context, bus *entity.Bus) error {
	query := `
		UPDATE buses
		SET name = $2, bus_number = $3, coach_layout = $4, route_id = $5,
		    fare = $6, departure_time = $7, is_active = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		bus.ID,
		bus.Name,
		bus.BusNumber,
		bus.CoachLayout,
		bus.RouteID,
		bus.Fare,
		bus.DepartureTime,
		bus.IsActive,
		bus.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return fmt.Errorf("bus number %s already exists", bus.BusNumber)
		}
		r.log.Error("Failed to update bus",
			zap.Error(err),
			zap.String("bus_id", bus.ID.String()),
		)
		return fmt.Errorf("update bus %s: %w", bus.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bus %s not found", bus.ID.String())
	}

	return nil
}

func (r *busRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE buses SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete bus",
			zap.Error(err),
			zap.String("bus_id", id.String()),
		)
		return fmt.Errorf("delete bus %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bus %s not found", id.String())
	}

	return nil
}
