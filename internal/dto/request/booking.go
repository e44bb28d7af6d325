package request

import "bus-ticketing/internal/seatmap"

type SeatRequest struct {
	SeatNumber string `json:"seatNumber" validate:"required,max=8"`
	Gender     string `json:"gender" validate:"required,oneof=Male Female"`
}

// CreateBookingRequest books one or more seats for one passenger. The
// passenger fields are inlined in the JSON body.
type CreateBookingRequest struct {
	BusID      string `json:"busId" validate:"required,uuid"`
	TravelDate string `json:"travelDate" validate:"required,datetime=2006-01-02"`
	seatmap.Passenger
	Discount float64       `json:"discount"`
	Seats    []SeatRequest `json:"seats" validate:"required,min=1,dive"`
}
