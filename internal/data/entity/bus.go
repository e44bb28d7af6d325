package entity

import "github.com/google/uuid"

type Bus struct {
	Base
	Name          string     `db:"name"`
	BusNumber     string     `db:"bus_number"`
	CoachLayout   string     `db:"coach_layout"` // compact, standard, extended
	RouteID       *uuid.UUID `db:"route_id"`
	Fare          float64    `db:"fare"`
	DepartureTime string     `db:"departure_time"` // HH:MM
	IsActive      bool       `db:"is_active"`
}
