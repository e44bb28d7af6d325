package response

import (
	"time"

	"bus-ticketing/internal/data/entity"
)

type BusResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	BusNumber     string    `json:"busNumber"`
	CoachLayout   string    `json:"coachLayout"`
	SeatCount     int       `json:"seatCount"`
	RouteID       *string   `json:"routeId,omitempty"`
	Fare          float64   `json:"fare"`
	DepartureTime string    `json:"departureTime"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

type BusDetailResponse struct {
	BusResponse
	Route *RouteResponse `json:"route,omitempty"`
}

type RouteResponse struct {
	ID             string    `json:"id"`
	RouteName      string    `json:"routeName"`
	RouteCode      string    `json:"routeCode"`
	BoardingPoints []string  `json:"boardingPoints"`
	CreatedAt      time.Time `json:"createdAt"`
}

func BusToResponse(bus *entity.Bus, seatCount int) BusResponse {
	resp := BusResponse{
		ID:            bus.ID.String(),
		Name:          bus.Name,
		BusNumber:     bus.BusNumber,
		CoachLayout:   bus.CoachLayout,
		SeatCount:     seatCount,
		Fare:          bus.Fare,
		DepartureTime: bus.DepartureTime,
		IsActive:      bus.IsActive,
		CreatedAt:     bus.CreatedAt,
	}
	if bus.RouteID != nil {
		id := bus.RouteID.String()
		resp.RouteID = &id
	}
	return resp
}

func RouteToResponse(route *entity.Route) RouteResponse {
	points := route.BoardingPoints
	if points == nil {
		points = []string{}
	}
	return RouteResponse{
		ID:             route.ID.String(),
		RouteName:      route.RouteName,
		RouteCode:      route.RouteCode,
		BoardingPoints: points,
		CreatedAt:      route.CreatedAt,
	}
}
