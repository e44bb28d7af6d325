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
	"bus-ticketing/internal/seatmap"
	"bus-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BusService interface {
	GetBuses(ctx context.Context, req *request.PaginatedRequest, routeID *string, activeOnly bool) (*response.PaginatedResponse[response.BusResponse], error)
	GetBusByID(ctx context.Context, busID string) (*response.BusDetailResponse, error)
	CreateBus(ctx context.Context, req *request.BusRequest) (*response.BusResponse, error)
	UpdateBus(ctx context.Context, busID string, req *request.BusUpdateRequest) (*response.BusResponse, error)
	DeleteBus(ctx context.Context, busID string) error
}

type busService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBusService(repo *repository.Repository, log *zap.Logger) BusService {
	return &busService{
		repo: repo,
		log:  log.With(zap.String("service", "bus")),
	}
}

func (s *busService) GetBuses(ctx context.Context, req *request.PaginatedRequest, routeID *string, activeOnly bool) (*response.PaginatedResponse[response.BusResponse], error) {
	filter := repository.BusFilter{ActiveOnly: activeOnly}
	if routeID != nil && *routeID != "" {
		id, err := uuid.Parse(*routeID)
		if err != nil {
			return nil, fmt.Errorf("invalid route ID")
		}
		filter.RouteID = &id
	}

	limit, offset := req.Limit(), req.Offset()

	buses, err := s.repo.Bus.FindAll(ctx, limit, offset, filter)
	if err != nil {
		s.log.Error("Failed to list buses", zap.Error(err))
		return nil, fmt.Errorf("failed to get buses")
	}

	total, err := s.repo.Bus.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count buses", zap.Error(err))
		return nil, fmt.Errorf("failed to get buses")
	}

	data := make([]response.BusResponse, 0, len(buses))
	for _, bus := range buses {
		data = append(data, response.BusToResponse(bus, seatCount(bus.CoachLayout)))
	}

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}

func (s *busService) GetBusByID(ctx context.Context, busID string) (*response.BusDetailResponse, error) {
	bus, err := s.findBus(ctx, busID)
	if err != nil {
		return nil, err
	}

	detail := &response.BusDetailResponse{
		BusResponse: response.BusToResponse(bus, seatCount(bus.CoachLayout)),
	}

	if bus.RouteID != nil {
		route, err := s.repo.Route.FindByID(ctx, *bus.RouteID)
		if err != nil {
			s.log.Error("Failed to load bus route", zap.Error(err), zap.String("bus_id", busID))
			return nil, fmt.Errorf("failed to get bus")
		}
		if route != nil {
			r := response.RouteToResponse(route)
			detail.Route = &r
		}
	}

	return detail, nil
}

func (s *busService) CreateBus(ctx context.Context, req *request.BusRequest) (*response.BusResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.BusNumber = strings.TrimSpace(req.BusNumber)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	catalog, err := seatmap.LookupCatalog(req.CoachLayout)
	if err != nil {
		return nil, err
	}

	routeID, err := s.resolveRoute(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}

	bus := &entity.Bus{
		Base:          entity.NewBase(time.Now()),
		Name:          req.Name,
		BusNumber:     req.BusNumber,
		CoachLayout:   catalog.Name,
		RouteID:       routeID,
		Fare:          req.Fare,
		DepartureTime: req.DepartureTime,
		IsActive:      true,
	}
	if req.IsActive != nil {
		bus.IsActive = *req.IsActive
	}

	if err := s.repo.Bus.Create(ctx, bus); err != nil {
		return nil, err
	}

	s.log.Info("Bus created",
		zap.String("bus_id", bus.ID.String()),
		zap.String("bus_number", bus.BusNumber),
		zap.String("coach_layout", bus.CoachLayout))

	resp := response.BusToResponse(bus, catalog.Len())
	return &resp, nil
}

func (s *busService) UpdateBus(ctx context.Context, busID string, req *request.BusUpdateRequest) (*response.BusResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bus, err := s.findBus(ctx, busID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		bus.Name = strings.TrimSpace(*req.Name)
	}
	if req.BusNumber != nil {
		bus.BusNumber = strings.TrimSpace(*req.BusNumber)
	}
	if req.CoachLayout != nil {
		catalog, err := seatmap.LookupCatalog(*req.CoachLayout)
		if err != nil {
			return nil, err
		}
		bus.CoachLayout = catalog.Name
	}
	if req.RouteID != nil {
		routeID, err := s.resolveRoute(ctx, req.RouteID)
		if err != nil {
			return nil, err
		}
		bus.RouteID = routeID
	}
	if req.Fare != nil {
		bus.Fare = *req.Fare
	}
	if req.DepartureTime != nil {
		bus.DepartureTime = *req.DepartureTime
	}
	if req.IsActive != nil {
		bus.IsActive = *req.IsActive
	}
	bus.UpdatedAt = time.Now()

	if err := s.repo.Bus.Update(ctx, bus); err != nil {
		return nil, err
	}

	s.log.Info("Bus updated", zap.String("bus_id", busID))

	resp := response.BusToResponse(bus, seatCount(bus.CoachLayout))
	return &resp, nil
}

func (s *busService) DeleteBus(ctx context.Context, busID string) error {
	bus, err := s.findBus(ctx, busID)
	if err != nil {
		return err
	}

	if err := s.repo.Bus.Delete(ctx, bus.ID); err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
	}

	s.log.Info("Bus deleted", zap.String("bus_id", busID))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *busService) findBus(ctx context.Context, busID string) (*entity.Bus, error) {
	id, err := uuid.Parse(busID)
	if err != nil {
		return nil, fmt.Errorf("invalid bus ID")
	}

	bus, err := s.repo.Bus.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find bus", zap.Error(err), zap.String("bus_id", busID))
		return nil, fmt.Errorf("failed to get bus")
	}
	if bus == nil {
		return nil, fmt.Errorf("bus not found")
	}

	return bus, nil
}

// resolveRoute checks that the route exists; an empty id detaches the bus
func (s *busService) resolveRoute(ctx context.Context, routeID *string) (*uuid.UUID, error) {
	if routeID == nil || *routeID == "" {
		return nil, nil
	}

	id, err := uuid.Parse(*routeID)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID")
	}

	route, err := s.repo.Route.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find route", zap.Error(err), zap.String("route_id", *routeID))
		return nil, fmt.Errorf("failed to get route")
	}
	if route == nil {
		return nil, fmt.Errorf("route not found")
	}

	return &id, nil
}

func seatCount(layout string) int {
	catalog, err := seatmap.LookupCatalog(layout)
	if err != nil {
		return 0
	}
	return catalog.Len()
}
