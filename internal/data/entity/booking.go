package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is one seat on one bus for one travel date. Seats booked together
// share an OrderID.
type Booking struct {
	Base
	OrderID       string        `db:"order_id"`
	BusID         uuid.UUID     `db:"bus_id"`
	TravelDate    time.Time     `db:"travel_date"`
	SeatNumber    string        `db:"seat_number"`
	Gender        string        `db:"gender"`
	PassengerName string        `db:"passenger_name"`
	Mobile        string        `db:"mobile"`
	Age           int           `db:"age"`
	BoardingPoint string        `db:"boarding_point"`
	DroppingPoint string        `db:"dropping_point"`
	PerSeatFare   float64       `db:"per_seat_fare"`
	GrossPay      float64       `db:"gross_pay"`
	Discount      float64       `db:"discount"`
	NetPay        float64       `db:"net_pay"`
	Status        BookingStatus `db:"status"`
	CounterID     uuid.UUID     `db:"counter_id"`
}
