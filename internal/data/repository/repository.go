package repository

import (
	"bus-ticketing/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Bus     BusRepository
	Route   RouteRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Bus:     NewBusRepository(db, log),
		Route:   NewRouteRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
