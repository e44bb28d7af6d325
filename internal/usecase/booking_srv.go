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
	"bus-ticketing/pkg/ticket"
	"bus-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeatConflictError reports seats that another booking already holds. When it
// is returned nothing was booked.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return "seats already booked: " + strings.Join(e.Seats, ", ")
}

type BookingService interface {
	GetBusBookings(ctx context.Context, busID, date string) ([]response.BookingResponse, error)
	GetSeatMap(ctx context.Context, busID, date string) (*response.SeatMapResponse, error)
	CreateBooking(ctx context.Context, counterID string, req *request.CreateBookingRequest) (*response.OrderResponse, error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string) error
	GetTicket(ctx context.Context, bookingID string) (*ticket.Ticket, error)
}

type bookingService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewBookingService(repo *repository.Repository, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "booking")),
		now:    time.Now,
	}
}

// GetBusBookings lists the confirmed bookings of a bus on a travel date
func (s *bookingService) GetBusBookings(ctx context.Context, busID, date string) ([]response.BookingResponse, error) {
	bus, travelDate, err := s.busAndDate(ctx, busID, date)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.FindConfirmedByBusAndDate(ctx, bus.ID, travelDate)
	if err != nil {
		s.log.Error("Failed to list bus bookings", zap.Error(err), zap.String("bus_id", busID))
		return nil, fmt.Errorf("failed to get bookings")
	}

	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) GetSeatMap(ctx context.Context, busID, date string) (*response.SeatMapResponse, error) {
	bus, travelDate, err := s.busAndDate(ctx, busID, date)
	if err != nil {
		return nil, err
	}

	catalog, err := seatmap.LookupCatalog(bus.CoachLayout)
	if err != nil {
		s.log.Error("Bus has unknown coach layout",
			zap.String("bus_id", busID),
			zap.String("coach_layout", bus.CoachLayout))
		return nil, fmt.Errorf("failed to get seat map")
	}

	bookings, err := s.repo.Booking.FindConfirmedByBusAndDate(ctx, bus.ID, travelDate)
	if err != nil {
		s.log.Error("Failed to list bus bookings", zap.Error(err), zap.String("bus_id", busID))
		return nil, fmt.Errorf("failed to get seat map")
	}

	booked := make(map[seatmap.SeatID]seatmap.Gender, len(bookings))
	for _, b := range bookings {
		booked[seatmap.SeatID(b.SeatNumber)] = seatmap.Gender(b.Gender)
	}

	layout := seatmap.BuildLayout(catalog, booked, nil)
	if len(layout.Orphans) > 0 {
		s.log.Warn("Booked seats outside coach layout",
			zap.String("bus_id", busID),
			zap.String("coach_layout", catalog.Name),
			zap.Any("seats", layout.Orphans))
	}

	counts := layout.Counts()
	return &response.SeatMapResponse{
		BusID:       bus.ID.String(),
		TravelDate:  travelDate.Format(response.DateLayout),
		CoachLayout: catalog.Name,
		Seats:       layout.Seats,
		Orphans:     layout.Orphans,
		Available:   counts[seatmap.Available],
		Booked:      counts[seatmap.Booked],
	}, nil
}

// CreateBooking books every requested seat for one passenger in a single
// transaction. Either all seats are booked or none.
func (s *bookingService) CreateBooking(ctx context.Context, counterID string, req *request.CreateBookingRequest) (*response.OrderResponse, error) {
	// 1. Validate request and passenger
	req.Passenger = req.Passenger.Normalize()
	for i := range req.Seats {
		req.Seats[i].SeatNumber = strings.ToUpper(strings.TrimSpace(req.Seats[i].SeatNumber))
		if g, err := seatmap.ParseGender(req.Seats[i].Gender); err == nil {
			req.Seats[i].Gender = string(g)
		}
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if maxSeats := s.config.Booking.MaxSeats; maxSeats > 0 && len(req.Seats) > maxSeats {
		return nil, fmt.Errorf("validation failed: seats: At most %d seats per booking", maxSeats)
	}

	counterUUID, err := uuid.Parse(counterID)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: invalid counter")
	}

	// 2. Bus and travel date
	bus, travelDate, err := s.busAndDate(ctx, req.BusID, req.TravelDate)
	if err != nil {
		return nil, err
	}
	if !bus.IsActive {
		return nil, fmt.Errorf("cannot book an inactive bus")
	}
	if travelDate.Before(s.today()) {
		return nil, fmt.Errorf("cannot book for a past travel date")
	}

	// 3. Seats must exist on this coach and appear once
	catalog, err := seatmap.LookupCatalog(bus.CoachLayout)
	if err != nil {
		s.log.Error("Bus has unknown coach layout", zap.String("bus_id", req.BusID))
		return nil, fmt.Errorf("failed to create booking")
	}
	seen := make(map[string]bool, len(req.Seats))
	for _, seat := range req.Seats {
		if !catalog.Contains(seatmap.SeatID(seat.SeatNumber)) {
			return nil, fmt.Errorf("invalid seat %s for %s coach", seat.SeatNumber, catalog.Name)
		}
		if seen[seat.SeatNumber] {
			return nil, fmt.Errorf("validation failed: seats: Seat %s selected twice", seat.SeatNumber)
		}
		seen[seat.SeatNumber] = true
	}

	// 4. Fare
	quote := seatmap.Quote(bus.Fare, len(req.Seats), req.Discount)
	if err := seatmap.ValidateQuote(quote); err != nil {
		return nil, err
	}
	n := len(req.Seats)
	netPerSeat := seatmap.SplitNetPay(quote.NetPay, n)
	discountPerSeat := req.Discount / float64(n)

	// 5. One row per seat sharing the order id
	orderID := utils.GenerateOrderID()
	now := s.now()
	bookings := make([]*entity.Booking, 0, n)
	for _, seat := range req.Seats {
		bookings = append(bookings, &entity.Booking{
			Base:          entity.NewBase(now),
			OrderID:       orderID,
			BusID:         bus.ID,
			TravelDate:    travelDate,
			SeatNumber:    seat.SeatNumber,
			Gender:        seat.Gender,
			PassengerName: req.Name,
			Mobile:        req.Mobile,
			Age:           req.Age,
			BoardingPoint: req.BoardingPoint,
			DroppingPoint: req.DroppingPoint,
			PerSeatFare:   quote.PerSeatFare,
			GrossPay:      quote.PerSeatFare,
			Discount:      discountPerSeat,
			NetPay:        netPerSeat,
			Status:        entity.BookingStatusConfirmed,
			CounterID:     counterUUID,
		})
	}

	taken, err := s.repo.Booking.CreateBatch(ctx, bookings)
	if err != nil {
		s.log.Error("Failed to create booking", zap.Error(err), zap.String("order_id", orderID))
		return nil, fmt.Errorf("failed to create booking")
	}
	if len(taken) > 0 {
		s.log.Info("Booking rejected, seats taken",
			zap.String("bus_id", req.BusID),
			zap.String("travel_date", req.TravelDate),
			zap.Strings("seats", taken))
		return nil, &SeatConflictError{Seats: taken}
	}

	s.log.Info("Booking created",
		zap.String("order_id", orderID),
		zap.String("bus_id", req.BusID),
		zap.String("travel_date", req.TravelDate),
		zap.Int("seats", n),
		zap.Float64("net_pay", quote.NetPay),
		zap.String("counter_id", counterID))

	return &response.OrderResponse{
		OrderID:    orderID,
		BusID:      bus.ID.String(),
		TravelDate: travelDate.Format(response.DateLayout),
		Quote:      quote,
		Bookings:   response.BookingsToResponse(bookings),
	}, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// CancelBooking frees one seat
func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == entity.BookingStatusCancelled {
		return fmt.Errorf("cannot cancel: booking already cancelled")
	}

	if err := s.repo.Booking.Cancel(ctx, booking.ID); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("order_id", booking.OrderID),
		zap.String("seat", booking.SeatNumber))
	return nil
}

// GetTicket assembles the e-ticket of the order the booking belongs to.
// Cancelled seats are left off.
func (s *bookingService) GetTicket(ctx context.Context, bookingID string) (*ticket.Ticket, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Booking.FindByOrderID(ctx, booking.OrderID)
	if err != nil {
		s.log.Error("Failed to load order", zap.Error(err), zap.String("order_id", booking.OrderID))
		return nil, fmt.Errorf("failed to get ticket")
	}

	t := &ticket.Ticket{
		Company:       s.config.Booking.TicketCompany,
		OrderID:       booking.OrderID,
		TravelDate:    booking.TravelDate,
		PassengerName: booking.PassengerName,
		Mobile:        booking.Mobile,
		Age:           booking.Age,
		BoardingPoint: booking.BoardingPoint,
		DroppingPoint: booking.DroppingPoint,
		PerSeatFare:   booking.PerSeatFare,
		IssuedAt:      booking.CreatedAt,
	}
	for _, b := range order {
		if b.Status != entity.BookingStatusConfirmed {
			continue
		}
		t.Seats = append(t.Seats, ticket.Seat{Number: b.SeatNumber, Gender: b.Gender})
		t.GrossPay += b.GrossPay
		t.Discount += b.Discount
		t.NetPay += b.NetPay
	}
	if len(t.Seats) == 0 {
		return nil, fmt.Errorf("cannot issue ticket: booking cancelled")
	}

	bus, err := s.repo.Bus.FindByID(ctx, booking.BusID)
	if err != nil {
		s.log.Error("Failed to load bus for ticket", zap.Error(err))
		return nil, fmt.Errorf("failed to get ticket")
	}
	if bus != nil {
		t.BusName = bus.Name
		t.BusNumber = bus.BusNumber
		t.DepartureTime = bus.DepartureTime
		if bus.RouteID != nil {
			route, err := s.repo.Route.FindByID(ctx, *bus.RouteID)
			if err == nil && route != nil {
				t.RouteName = route.RouteName
			}
		}
	}

	counter, err := s.repo.User.FindByID(ctx, booking.CounterID)
	if err == nil && counter != nil {
		t.IssuedBy = counter.CounterCode
	}

	return t, nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) busAndDate(ctx context.Context, busID, date string) (*entity.Bus, time.Time, error) {
	id, err := uuid.Parse(busID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("invalid bus ID")
	}

	travelDate, err := time.Parse(response.DateLayout, date)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("invalid travel date %q, use YYYY-MM-DD", date)
	}

	bus, err := s.repo.Bus.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find bus", zap.Error(err), zap.String("bus_id", busID))
		return nil, time.Time{}, fmt.Errorf("failed to get bus")
	}
	if bus == nil {
		return nil, time.Time{}, fmt.Errorf("bus not found")
	}

	return bus, travelDate, nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to get booking")
	}
	if booking == nil {
		return nil, fmt.Errorf("booking not found")
	}

	return booking, nil
}

// today is the current date at midnight UTC, comparable with parsed travel dates
func (s *bookingService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
