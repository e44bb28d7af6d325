package usecase

import (
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Bus     BusService
	Route   RouteService
	Booking BookingService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo.User, repo.Session, log),
		Bus:     NewBusService(repo, log),
		Route:   NewRouteService(repo.Route, log),
		Booking: NewBookingService(repo, config, log),
	}
}
