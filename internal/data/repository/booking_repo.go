package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// confirmedSeatIndex guards one confirmed booking per bus, date and seat
const confirmedSeatIndex = "bookings_confirmed_seat_uniq"

type BookingRepository interface {
	// CreateBatch inserts every booking in one transaction. When any seat is
	// already taken nothing is written and the taken seat numbers are returned.
	CreateBatch(ctx context.Context, bookings []*entity.Booking) ([]string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByOrderID(ctx context.Context, orderID string) ([]*entity.Booking, error)
	FindConfirmedByBusAndDate(ctx context.Context, busID uuid.UUID, date time.Time) ([]*entity.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, order_id, bus_id, travel_date, seat_number, gender,
		       passenger_name, mobile, age, boarding_point, dropping_point,
		       per_seat_fare, gross_pay, discount, net_pay, status, counter_id,
		       created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.OrderID,
		&b.BusID,
		&b.TravelDate,
		&b.SeatNumber,
		&b.Gender,
		&b.PassengerName,
		&b.Mobile,
		&b.Age,
		&b.BoardingPoint,
		&b.DroppingPoint,
		&b.PerSeatFare,
		&b.GrossPay,
		&b.Discount,
		&b.NetPay,
		&b.Status,
		&b.CounterID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) CreateBatch(ctx context.Context, bookings []*entity.Booking) ([]string, error) {
	if len(bookings) == 0 {
		return nil, nil
	}
	first := bookings[0]

	seats := make([]string, len(bookings))
	for i, b := range bookings {
		seats[i] = b.SeatNumber
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Seats confirmed by someone else
	taken, err := r.takenSeats(ctx, tx, first.BusID, first.TravelDate, seats)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return taken, nil
	}

	// 2. Insert one row per seat
	query := `
		INSERT INTO bookings (id, order_id, bus_id, travel_date, seat_number, gender,
		                      passenger_name, mobile, age, boarding_point, dropping_point,
		                      per_seat_fare, gross_pay, discount, net_pay, status, counter_id,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	for _, b := range bookings {
		_, err := tx.Exec(ctx, query,
			b.ID, b.OrderID, b.BusID, b.TravelDate, b.SeatNumber, b.Gender,
			b.PassengerName, b.Mobile, b.Age, b.BoardingPoint, b.DroppingPoint,
			b.PerSeatFare, b.GrossPay, b.Discount, b.NetPay, b.Status, b.CounterID,
			b.CreatedAt, b.UpdatedAt,
		)
		if database.IsUniqueViolation(err, confirmedSeatIndex) {
			// lost a race with a concurrent commit
			r.log.Warn("Seat taken during insert",
				zap.String("order_id", b.OrderID),
				zap.String("seat", b.SeatNumber),
			)
			return []string{b.SeatNumber}, nil
		}
		if err != nil {
			r.log.Error("Failed to insert booking",
				zap.Error(err),
				zap.String("order_id", b.OrderID),
				zap.String("seat", b.SeatNumber),
			)
			return nil, fmt.Errorf("insert booking %s seat %s: %w", b.OrderID, b.SeatNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if database.IsUniqueViolation(err, confirmedSeatIndex) {
			return seats, nil
		}
		return nil, fmt.Errorf("commit booking %s: %w", first.OrderID, err)
	}

	return nil, nil
}

func (r *bookingRepository) takenSeats(ctx context.Context, tx pgx.Tx, busID uuid.UUID, date time.Time, seats []string) ([]string, error) {
	query := `
		SELECT seat_number
		FROM bookings
		WHERE bus_id = $1 AND travel_date = $2 AND status = 'confirmed'
		  AND seat_number = ANY($3)
		ORDER BY seat_number
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, busID, date, seats)
	if err != nil {
		r.log.Error("Failed to check taken seats",
			zap.Error(err),
			zap.String("bus_id", busID.String()),
		)
		return nil, fmt.Errorf("check taken seats: %w", err)
	}

	taken, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan taken seats: %w", err)
	}

	return taken, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByOrderID(ctx context.Context, orderID string) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE order_id = $1 ORDER BY seat_number`

	return r.list(ctx, query, orderID)
}

// FindConfirmedByBusAndDate lists the seats currently held on a bus for a day
func (r *bookingRepository) FindConfirmedByBusAndDate(ctx context.Context, busID uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE bus_id = $1 AND travel_date = $2 AND status = 'confirmed'
		ORDER BY created_at, seat_number
	`

	return r.list(ctx, query, busID, date)
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query bookings", zap.Error(err))
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

// Cancel frees the seat. Only confirmed bookings can be cancelled.
func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'confirmed'
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found or already cancelled", id.String())
	}

	r.log.Info("Booking cancelled", zap.String("booking_id", id.String()))
	return nil
}
