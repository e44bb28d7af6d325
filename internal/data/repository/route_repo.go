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

type RouteRepository interface {
	Create(ctx context.Context, route *entity.Route) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Route, error)
	FindAll(ctx context.Context, limit, offset int, search *string) ([]*entity.Route, error)
	CountAll(ctx context.Context, search *string) (int64, error)
	Update(ctx context.Context, route *entity.Route) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type routeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRouteRepository(db database.PgxIface, log *zap.Logger) RouteRepository {
	return &routeRepository{
		db:  db,
		log: log.With(zap.String("repository", "route")),
	}
}

const routeColumns = `id, route_name, route_code, boarding_points, created_at, updated_at, deleted_at`

func scanRoute(row pgx.Row) (*entity.Route, error) {
	var route entity.Route
	err := row.Scan(
		&route.ID,
		&route.RouteName,
		&route.RouteCode,
		&route.BoardingPoints,
		&route.CreatedAt,
		&route.UpdatedAt,
		&route.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) Create(ctx context.Context, route *entity.Route) error {
	query := `
		INSERT INTO routes (id, route_name, route_code, boarding_points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		route.ID,
		route.RouteName,
		route.RouteCode,
		route.BoardingPoints,
		route.CreatedAt,
		route.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return fmt.Errorf("route code %s already exists", route.RouteCode)
		}
		r.log.Error("Failed to create route",
			zap.Error(err),
			zap.String("route_code", route.RouteCode),
		)
		return fmt.Errorf("create route %s: %w", route.RouteCode, err)
	}

	return nil
}

func (r *routeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1 AND deleted_at IS NULL`

	route, err := scanRoute(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find route by ID",
			zap.Error(err),
			zap.String("route_id", id.String()),
		)
		return nil, fmt.Errorf("find route by ID %s: %w", id.String(), err)
	}

	return route, nil
}

func whereRoute(qb *strings.Builder, search *string) ([]any, int) {
	qb.WriteString(" WHERE deleted_at IS NULL")
	args := []any{}
	argCount := 1

	if search != nil && *search != "" {
		qb.WriteString(fmt.Sprintf(" AND (route_name ILIKE $%d OR route_code ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*search+"%")
		argCount++
	}

	return args, argCount
}

func (r *routeRepository) FindAll(ctx context.Context, limit, offset int, search *string) ([]*entity.Route, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + routeColumns + ` FROM routes`)

	args, argCount := whereRoute(&queryBuilder, search)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY route_name LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all routes",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
			zap.Stringp("search", search),
		)
		return nil, fmt.Errorf("find all routes limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var routes []*entity.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			r.log.Error("Failed to scan route row", zap.Error(err))
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate route rows: %w", err)
	}

	return routes, nil
}

func (r *routeRepository) CountAll(ctx context.Context, search *string) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM routes`)

	args, _ := whereRoute(&queryBuilder, search)

	var count int64
	if err := r.db.QueryRow(ctx, queryBuilder.String(), args...).Scan(&count); err != nil {
		r.log.Error("Failed to count routes", zap.Error(err))
		return 0, fmt.Errorf("count routes: %w", err)
	}

	return count, nil
}

func (r *routeRepository) Update(ctx context.Context, route *entity.Route) error {
	query := `
		UPDATE routes
		SET route_name = $2, route_code = $3, boarding_points = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		route.ID,
		route.RouteName,
		route.RouteCode,
		route.BoardingPoints,
		route.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return fmt.Errorf("route code %s already exists", route.RouteCode)
		}
		r.log.Error("Failed to update route",
			zap.Error(err),
			zap.String("route_id", route.ID.String()),
		)
		return fmt.Errorf("update route %s: %w", route.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("route %s not found", route.ID.String())
	}

	return nil
}

func (r *routeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE routes SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete route",
			zap.Error(err),
			zap.String("route_id", id.String()),
		)
		return fmt.Errorf("delete route %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("route %s not found", id.String())
	}

	return nil
}
