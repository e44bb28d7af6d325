package counter

import (
	"context"
	"errors"
	"fmt"

	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/seatmap"
	"bus-ticketing/pkg/apiclient"

	"go.uber.org/zap"
)

// SeatOutcome is the result of submitting one seat.
type SeatOutcome string

const (
	SeatBooked SeatOutcome = "booked"
	SeatFailed SeatOutcome = "failed"
)

const (
	reasonAlreadyBooked = "already booked"
	reasonNotSubmitted  = "not submitted"
)

// SeatResult is the tagged outcome of one selected seat.
type SeatResult struct {
	Seat      seatmap.SeatID
	Gender    seatmap.Gender
	Outcome   SeatOutcome
	Reason    string
	BookingID string
	OrderID   string
	NetPay    float64
}

// SubmitResult reports every seat of a submission.
type SubmitResult struct {
	Quote seatmap.FareQuote
	Seats []SeatResult
	// Passenger is the draft for the next attempt: cleared when every seat
	// was booked, otherwise the submitted details so failed seats can be
	// retried.
	Passenger seatmap.Passenger
	// RefreshErr is set when the refetch after submission failed.
	RefreshErr error
}

func (r *SubmitResult) Booked() []SeatResult {
	return r.filter(SeatBooked)
}

func (r *SubmitResult) Failed() []SeatResult {
	return r.filter(SeatFailed)
}

// Complete reports whether every seat was booked.
func (r *SubmitResult) Complete() bool {
	return len(r.Seats) > 0 && len(r.Failed()) == 0
}

func (r *SubmitResult) filter(outcome SeatOutcome) []SeatResult {
	var out []SeatResult
	for _, s := range r.Seats {
		if s.Outcome == outcome {
			out = append(out, s)
		}
	}
	return out
}

type pendingSeat struct {
	seat   seatmap.SeatID
	gender seatmap.Gender
}

// Submit books the selected seats for one passenger. It returns an error
// without calling the backend when the selection is empty, the passenger is
// invalid or the quote is not bookable. Once submitted, failures are reported
// per seat in the result; seats that were booked leave the selection and the
// snapshot is refetched.
func (s *Session) Submit(ctx context.Context, passenger seatmap.Passenger, discount float64) (*SubmitResult, error) {
	s.mu.Lock()
	if s.trip == nil {
		s.mu.Unlock()
		return nil, ErrNoTrip
	}
	if s.sel.Len() == 0 {
		s.mu.Unlock()
		return nil, ErrEmptySelection
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrBusy
	}

	passenger = passenger.Normalize()
	if err := seatmap.ValidatePassenger(passenger); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	quote := seatmap.Quote(s.trip.Fare, s.sel.Len(), discount)
	if err := seatmap.ValidateQuote(quote); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	seats := make([]pendingSeat, 0, s.sel.Len())
	for _, id := range s.sel.Seats() {
		seats = append(seats, pendingSeat{seat: id, gender: s.sel.GenderOf(id)})
	}
	busID, date, mode := s.trip.BusID, s.date, s.mode
	s.submitting = true
	s.mu.Unlock()

	result := &SubmitResult{Quote: quote}
	switch mode {
	case ModePerSeat:
		result.Seats = s.submitPerSeat(ctx, busID, date, passenger, quote, seats)
	default:
		result.Seats = s.submitAtomic(ctx, busID, date, passenger, quote, seats)
	}

	if !result.Complete() {
		result.Passenger = passenger
	}

	s.mu.Lock()
	s.submitting = false
	if busID == s.trip.BusID && date == s.date {
		for _, r := range result.Seats {
			if r.Outcome == SeatBooked {
				s.sel.Remove(r.Seat)
			}
		}
	}
	s.mu.Unlock()

	s.log.Info("Submitted booking",
		zap.String("bus_id", busID),
		zap.String("date", date),
		zap.Int("booked", len(result.Booked())),
		zap.Int("failed", len(result.Failed())),
	)

	if err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleSnapshot) {
		result.RefreshErr = err
	}

	return result, nil
}

func (s *Session) submitAtomic(ctx context.Context, busID, date string, p seatmap.Passenger, quote seatmap.FareQuote, seats []pendingSeat) []SeatResult {
	req := newBookingRequest(busID, date, p, quote.Discount, seats)
	results := make([]SeatResult, len(seats))
	for i, ps := range seats {
		results[i] = SeatResult{Seat: ps.seat, Gender: ps.gender}
	}

	order, err := s.backend.CreateBooking(ctx, req)
	if err != nil {
		s.log.Warn("Booking request failed", zap.Error(err))

		taken := map[string]bool{}
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.IsConflict() {
			for _, seat := range apiErr.Seats {
				taken[seat] = true
			}
		}
		for i := range results {
			results[i].Outcome = SeatFailed
			switch {
			case taken[string(results[i].Seat)]:
				results[i].Reason = reasonAlreadyBooked
			case len(taken) > 0:
				results[i].Reason = reasonNotSubmitted
			default:
				results[i].Reason = err.Error()
			}
		}
		return results
	}

	byseat := map[string]int{}
	for i, b := range order.Bookings {
		byseat[b.SeatNumber] = i
	}
	for i := range results {
		j, ok := byseat[string(results[i].Seat)]
		if !ok {
			results[i].Outcome = SeatFailed
			results[i].Reason = "missing from server response"
			continue
		}
		b := order.Bookings[j]
		results[i].Outcome = SeatBooked
		results[i].BookingID = b.ID
		results[i].OrderID = b.OrderID
		results[i].NetPay = b.NetPay
	}
	return results
}

// submitPerSeat sends one request per seat. Each carries its share of the
// discount so its net pay is the pro-rated total.
func (s *Session) submitPerSeat(ctx context.Context, busID, date string, p seatmap.Passenger, quote seatmap.FareQuote, seats []pendingSeat) []SeatResult {
	n := len(seats)
	share := quote.Discount / float64(n)
	netPay := seatmap.SplitNetPay(quote.NetPay, n)

	results := make([]SeatResult, 0, n)
	for _, ps := range seats {
		r := SeatResult{Seat: ps.seat, Gender: ps.gender}

		if err := ctx.Err(); err != nil {
			r.Outcome = SeatFailed
			r.Reason = reasonNotSubmitted
			results = append(results, r)
			continue
		}

		order, err := s.backend.CreateBooking(ctx, newBookingRequest(busID, date, p, share, []pendingSeat{ps}))
		switch {
		case err != nil:
			r.Outcome = SeatFailed
			r.Reason = err.Error()
			if apiclient.IsConflict(err) {
				r.Reason = reasonAlreadyBooked
			}
			s.log.Warn("Seat booking failed", zap.String("seat", string(ps.seat)), zap.Error(err))
		case len(order.Bookings) == 0:
			r.Outcome = SeatFailed
			r.Reason = "missing from server response"
		default:
			r.Outcome = SeatBooked
			r.BookingID = order.Bookings[0].ID
			r.OrderID = order.OrderID
			r.NetPay = netPay
		}
		results = append(results, r)
	}
	return results
}

func newBookingRequest(busID, date string, p seatmap.Passenger, discount float64, seats []pendingSeat) *request.CreateBookingRequest {
	req := &request.CreateBookingRequest{
		BusID:      busID,
		TravelDate: date,
		Passenger:  p,
		Discount:   discount,
		Seats:      make([]request.SeatRequest, len(seats)),
	}
	for i, ps := range seats {
		req.Seats[i] = request.SeatRequest{SeatNumber: string(ps.seat), Gender: string(ps.gender)}
	}
	return req
}

func (r SeatResult) String() string {
	if r.Outcome == SeatBooked {
		return fmt.Sprintf("%s booked (%s)", r.Seat, r.BookingID)
	}
	return fmt.Sprintf("%s failed: %s", r.Seat, r.Reason)
}
