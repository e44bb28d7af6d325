package response

import (
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/seatmap"
)

// DateLayout is the wire format of travel dates.
const DateLayout = "2006-01-02"

// BookingResponse is the canonical flat shape: one record per booked seat.
type BookingResponse struct {
	ID            string               `json:"id"`
	OrderID       string               `json:"orderId"`
	SeatNumber    string               `json:"seatNumber"`
	Gender        string               `json:"gender"`
	BusID         string               `json:"busId"`
	TravelDate    string               `json:"travelDate"`
	PassengerName string               `json:"passengerName"`
	Mobile        string               `json:"mobile"`
	Age           int                  `json:"age"`
	BoardingPoint string               `json:"boardingPoint"`
	DroppingPoint string               `json:"droppingPoint"`
	PerSeatFare   float64              `json:"perSeatFare"`
	GrossPay      float64              `json:"grossPay"`
	Discount      float64              `json:"discount"`
	NetPay        float64              `json:"netPay"`
	Status        entity.BookingStatus `json:"status"`
	CounterID     string               `json:"counterId"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// OrderResponse is returned when seats are booked together.
type OrderResponse struct {
	OrderID    string            `json:"orderId"`
	BusID      string            `json:"busId"`
	TravelDate string            `json:"travelDate"`
	Quote      seatmap.FareQuote `json:"quote"`
	Bookings   []BookingResponse `json:"bookings"`
}

// SeatConflictResponse is the data of a 409 reply.
type SeatConflictResponse struct {
	Seats []string `json:"seats"`
}

type SeatMapResponse struct {
	BusID       string               `json:"busId"`
	TravelDate  string               `json:"travelDate"`
	CoachLayout string               `json:"coachLayout"`
	Seats       []seatmap.SeatRecord `json:"seats"`
	Orphans     []seatmap.SeatID     `json:"orphans,omitempty"`
	Available   int                  `json:"available"`
	Booked      int                  `json:"booked"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		OrderID:       b.OrderID,
		SeatNumber:    b.SeatNumber,
		Gender:        b.Gender,
		BusID:         b.BusID.String(),
		TravelDate:    b.TravelDate.Format(DateLayout),
		PassengerName: b.PassengerName,
		Mobile:        b.Mobile,
		Age:           b.Age,
		BoardingPoint: b.BoardingPoint,
		DroppingPoint: b.DroppingPoint,
		PerSeatFare:   b.PerSeatFare,
		GrossPay:      b.GrossPay,
		Discount:      b.Discount,
		NetPay:        b.NetPay,
		Status:        b.Status,
		CounterID:     b.CounterID.String(),
		CreatedAt:     b.CreatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
