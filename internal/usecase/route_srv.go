package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/dto/response"
	"bus-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RouteService interface {
	GetRoutes(ctx context.Context, req *request.PaginatedRequest, search *string) (*response.PaginatedResponse[response.RouteResponse], error)
	GetRouteByID(ctx context.Context, routeID string) (*response.RouteResponse, error)
	CreateRoute(ctx context.Context, req *request.RouteRequest) (*response.RouteResponse, error)
	UpdateRoute(ctx context.Context, routeID string, req *request.RouteUpdateRequest) (*response.RouteResponse, error)
	DeleteRoute(ctx context.Context, routeID string) error
}

type routeService struct {
	routeRepo repository.RouteRepository
	log       *zap.Logger
}

func NewRouteService(routeRepo repository.RouteRepository, log *zap.Logger) RouteService {
	return &routeService{
		routeRepo: routeRepo,
		log:       log.With(zap.String("service", "route")),
	}
}

func (s *routeService) GetRoutes(ctx context.Context, req *request.PaginatedRequest, search *string) (*response.PaginatedResponse[response.RouteResponse], error) {
	limit, offset := req.Limit(), req.Offset()

	routes, err := s.routeRepo.FindAll(ctx, limit, offset, search)
	if err != nil {
		s.log.Error("Failed to list routes", zap.Error(err))
		return nil, fmt.Errorf("failed to get routes")
	}

	total, err := s.routeRepo.CountAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to count routes", zap.Error(err))
		return nil, fmt.Errorf("failed to get routes")
	}

	data := make([]response.RouteResponse, 0, len(routes))
	for _, route := range routes {
		data = append(data, response.RouteToResponse(route))
	}

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}

func (s *routeService) GetRouteByID(ctx context.Context, routeID string) (*response.RouteResponse, error) {
	route, err := s.findRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	resp := response.RouteToResponse(route)
	return &resp, nil
}

func (s *routeService) CreateRoute(ctx context.Context, req *request.RouteRequest) (*response.RouteResponse, error) {
	req.RouteName = strings.TrimSpace(req.RouteName)
	req.RouteCode = strings.ToUpper(strings.TrimSpace(req.RouteCode))
	req.BoardingPoints = cleanPoints(req.BoardingPoints)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	route := &entity.Route{
		Base:           entity.NewBase(time.Now()),
		RouteName:      req.RouteName,
		RouteCode:      req.RouteCode,
		BoardingPoints: req.BoardingPoints,
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}

	s.log.Info("Route created",
		zap.String("route_id", route.ID.String()),
		zap.String("route_code", route.RouteCode))

	resp := response.RouteToResponse(route)
	return &resp, nil
}

func (s *routeService) UpdateRoute(ctx context.Context, routeID string, req *request.RouteUpdateRequest) (*response.RouteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	route, err := s.findRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if req.RouteName != nil {
		route.RouteName = strings.TrimSpace(*req.RouteName)
	}
	if req.RouteCode != nil {
		route.RouteCode = strings.ToUpper(strings.TrimSpace(*req.RouteCode))
	}
	if req.BoardingPoints != nil {
		route.BoardingPoints = cleanPoints(req.BoardingPoints)
	}
	route.UpdatedAt = time.Now()

	if err := s.routeRepo.Update(ctx, route); err != nil {
		return nil, err
	}

	s.log.Info("Route updated", zap.String("route_id", routeID))

	resp := response.RouteToResponse(route)
	return &resp, nil
}

func (s *routeService) DeleteRoute(ctx context.Context, routeID string) error {
	route, err := s.findRoute(ctx, routeID)
	if err != nil {
		return err
	}

	if err := s.routeRepo.Delete(ctx, route.ID); err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}

	s.log.Info("Route deleted", zap.String("route_id", routeID))
	return nil
}

func (s *routeService) findRoute(ctx context.Context, routeID string) (*entity.Route, error) {
	id, err := uuid.Parse(routeID)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID")
	}

	route, err := s.routeRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find route", zap.Error(err), zap.String("route_id", routeID))
		return nil, fmt.Errorf("failed to get route")
	}
	if route == nil {
		return nil, fmt.Errorf("route not found")
	}

	return route, nil
}

// cleanPoints trims boarding points and drops blanks and duplicates
func cleanPoints(points []string) []string {
	if points == nil {
		return nil
	}
	out := make([]string, 0, len(points))
	seen := make(map[string]bool, len(points))
	for _, p := range points {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
