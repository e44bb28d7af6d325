// Package counter holds the booking session a ticket counter works in: the
// active bus and date, the booked-seat snapshot, the local seat selection,
// submission and the cancellation flow.
package counter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/dto/response"
	"bus-ticketing/internal/seatmap"

	"go.uber.org/zap"
)

var (
	ErrNoTrip          = errors.New("no bus opened for booking")
	ErrEmptySelection  = errors.New("no seats selected")
	ErrStaleSnapshot   = errors.New("stale booking snapshot discarded")
	ErrBusy            = errors.New("another submission is in progress")
	ErrNotAdmin        = errors.New("only admins can cancel bookings")
	ErrSeatNotBooked   = errors.New("seat is not booked")
	ErrCancelPending   = errors.New("a cancellation is already pending")
	ErrNoPendingCancel = errors.New("no cancellation to confirm")
)

// Backend is the booking API the session talks to.
type Backend interface {
	ListBookings(ctx context.Context, busID, date string) ([]response.BookingResponse, error)
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.OrderResponse, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// Identity is who is working the counter.
type Identity struct {
	CounterCode string
	Role        string
}

func (i Identity) IsAdmin() bool {
	return i.Role == "admin"
}

// Trip is the bus a session books seats on.
type Trip struct {
	BusID       string
	Name        string
	BusNumber   string
	CoachLayout string
	Fare        float64
}

// Mode selects how a submission reaches the server.
type Mode int

const (
	// ModeAtomic books every selected seat in one request.
	ModeAtomic Mode = iota
	// ModePerSeat sends one request per seat and reports each result.
	ModePerSeat
)

// Session is one counter's booking screen. It is safe for concurrent use;
// backend calls are made without holding the lock.
type Session struct {
	mu       sync.Mutex
	backend  Backend
	identity Identity
	mode     Mode
	log      *zap.Logger

	trip     *Trip
	date     string
	catalog  *seatmap.Catalog
	booked   map[seatmap.SeatID]seatmap.Gender
	bookings map[seatmap.SeatID]response.BookingResponse
	sel      *seatmap.Selection

	gen        uint64
	submitting bool
	cancel     cancelFlow
}

func NewSession(backend Backend, identity Identity, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		backend:  backend,
		identity: identity,
		log:      log.With(zap.String("component", "counter"), zap.String("counter_code", identity.CounterCode)),
	}
}

func (s *Session) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

func (s *Session) Identity() Identity {
	return s.identity
}

// Trip returns the open bus and travel date.
func (s *Session) Trip() (Trip, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trip == nil {
		return Trip{}, "", false
	}
	return *s.trip, s.date, true
}

// ==================== SNAPSHOT ====================

// Open switches the session to a bus and travel date. The previous snapshot,
// selection and pending cancellation are dropped before the new fetch.
func (s *Session) Open(ctx context.Context, trip Trip, date string) error {
	if trip.BusID == "" {
		return errors.New("bus id is required")
	}
	if _, err := time.Parse(response.DateLayout, date); err != nil {
		return fmt.Errorf("invalid travel date %q: use YYYY-MM-DD", date)
	}
	catalog, err := seatmap.LookupCatalog(trip.CoachLayout)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.trip = &trip
	s.date = date
	s.catalog = catalog
	s.booked = map[seatmap.SeatID]seatmap.Gender{}
	s.bookings = map[seatmap.SeatID]response.BookingResponse{}
	s.sel = seatmap.NewSelection(catalog)
	s.cancel = cancelFlow{}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// Refresh refetches the booked seats. Each fetch carries a generation; a
// response or fetch error is applied only if no newer fetch was issued and
// the bus and date are unchanged, otherwise ErrStaleSnapshot is returned.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.trip == nil {
		s.mu.Unlock()
		return ErrNoTrip
	}
	s.gen++
	gen, busID, date := s.gen, s.trip.BusID, s.date
	s.mu.Unlock()

	list, err := s.backend.ListBookings(ctx, busID, date)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.trip == nil || s.trip.BusID != busID || s.date != date {
		s.log.Debug("Discarded stale booking snapshot",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", s.gen),
			zap.Error(err),
		)
		return ErrStaleSnapshot
	}
	if err != nil {
		return fmt.Errorf("fetch bookings: %w", err)
	}

	booked := make(map[seatmap.SeatID]seatmap.Gender, len(list))
	bookings := make(map[seatmap.SeatID]response.BookingResponse, len(list))
	for _, b := range list {
		seat := seatmap.SeatID(b.SeatNumber)
		g, err := seatmap.ParseGender(b.Gender)
		if err != nil {
			g = seatmap.Gender(b.Gender)
		}
		booked[seat] = g
		bookings[seat] = b
	}
	s.booked = booked
	s.bookings = bookings

	if dropped := s.sel.Prune(booked); len(dropped) > 0 {
		s.log.Info("Selected seats were booked elsewhere", zap.Any("seats", dropped))
	}
	if orphans := seatmap.BuildLayout(s.catalog, booked, nil).Orphans; len(orphans) > 0 {
		s.log.Warn("Booked seats outside coach layout",
			zap.String("bus_id", busID),
			zap.String("date", date),
			zap.Any("seats", orphans),
		)
	}

	return nil
}

// Layout renders the current snapshot and selection.
func (s *Session) Layout() (seatmap.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trip == nil {
		return seatmap.Layout{}, ErrNoTrip
	}
	return seatmap.BuildLayout(s.catalog, s.booked, s.sel), nil
}

// Booking returns the booking holding a seat in the current snapshot.
func (s *Session) Booking(seat seatmap.SeatID) (response.BookingResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[seat]
	return b, ok
}

// ==================== SELECTION ====================

// Toggle selects or deselects a seat. Booked seats are rejected with
// seatmap.ErrSeatBooked.
func (s *Session) Toggle(seat seatmap.SeatID, gender seatmap.Gender) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trip == nil {
		return false, ErrNoTrip
	}
	return s.sel.Toggle(seat, gender, s.booked)
}

// Selected returns the selected seats in selection order.
func (s *Session) Selected() []seatmap.SeatID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel == nil {
		return nil
	}
	return s.sel.Seats()
}

// Quote prices the current selection.
func (s *Session) Quote(discount float64) (seatmap.FareQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trip == nil {
		return seatmap.FareQuote{}, ErrNoTrip
	}
	return seatmap.Quote(s.trip.Fare, s.sel.Len(), discount), nil
}

// Reset clears the selection and any pending cancellation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel != nil {
		s.sel.Clear()
	}
	if s.cancel.state == CancelConfirmPending {
		s.cancel = cancelFlow{}
	}
}
