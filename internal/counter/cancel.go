package counter

import (
	"context"
	"fmt"

	"bus-ticketing/internal/seatmap"

	"go.uber.org/zap"
)

// CancelState is the state of the cancellation flow.
type CancelState int

const (
	CancelIdle CancelState = iota
	CancelConfirmPending
	CancelCancelling
)

func (c CancelState) String() string {
	switch c {
	case CancelConfirmPending:
		return "confirm-pending"
	case CancelCancelling:
		return "cancelling"
	default:
		return "idle"
	}
}

type cancelFlow struct {
	state     CancelState
	seat      seatmap.SeatID
	bookingID string
}

// PendingCancel describes the booking awaiting confirmation.
type PendingCancel struct {
	Seat          seatmap.SeatID
	BookingID     string
	PassengerName string
	Mobile        string
}

func (s *Session) CancelState() CancelState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel.state
}

// RequestCancel starts cancelling the booking on a booked seat. Only admins
// may cancel. Nothing is sent until ConfirmCancel.
func (s *Session) RequestCancel(seat seatmap.SeatID) (PendingCancel, error) {
	if !s.identity.IsAdmin() {
		return PendingCancel{}, ErrNotAdmin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trip == nil {
		return PendingCancel{}, ErrNoTrip
	}
	if s.cancel.state != CancelIdle {
		return PendingCancel{}, ErrCancelPending
	}
	b, ok := s.bookings[seat]
	if !ok {
		return PendingCancel{}, fmt.Errorf("%s: %w", seat, ErrSeatNotBooked)
	}

	s.cancel = cancelFlow{state: CancelConfirmPending, seat: seat, bookingID: b.ID}
	return PendingCancel{
		Seat:          seat,
		BookingID:     b.ID,
		PassengerName: b.PassengerName,
		Mobile:        b.Mobile,
	}, nil
}

// DeclineCancel drops a pending cancellation without touching the snapshot.
func (s *Session) DeclineCancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel.state == CancelConfirmPending {
		s.cancel = cancelFlow{}
	}
}

// ConfirmCancel sends one delete for the pending booking and then refetches
// the snapshot once. The seat is shown as available only after the refetch.
func (s *Session) ConfirmCancel(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel.state != CancelConfirmPending {
		s.mu.Unlock()
		return ErrNoPendingCancel
	}
	s.cancel.state = CancelCancelling
	seat, bookingID := s.cancel.seat, s.cancel.bookingID
	s.mu.Unlock()

	err := s.backend.CancelBooking(ctx, bookingID)

	s.mu.Lock()
	s.cancel = cancelFlow{}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("Cancel booking failed", zap.String("seat", string(seat)), zap.Error(err))
		return fmt.Errorf("cancel booking: %w", err)
	}

	s.log.Info("Booking cancelled", zap.String("seat", string(seat)), zap.String("booking_id", bookingID))
	return s.Refresh(ctx)
}
