package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"bus-ticketing/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func orderOf(seats ...string) []*entity.Booking {
	busID := uuid.New()
	travel := time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)

	out := make([]*entity.Booking, 0, len(seats))
	for _, s := range seats {
		out = append(out, &entity.Booking{
			Base:          entity.NewBase(now),
			OrderID:       "BUS-20300110-0001",
			BusID:         busID,
			TravelDate:    travel,
			SeatNumber:    s,
			Gender:        "Male",
			PassengerName: "Rahim",
			Mobile:        "+8801712345678",
			Age:           34,
			BoardingPoint: "Gabtoli",
			DroppingPoint: "Sylhet",
			PerSeatFare:   500,
			GrossPay:      500,
			Discount:      50,
			NetPay:        450,
			Status:        entity.BookingStatusConfirmed,
			CounterID:     uuid.New(),
		})
	}
	return out
}

func seatIndexViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "bookings_confirmed_seat_uniq"}
}

func TestCreateBatch(t *testing.T) {
	tests := []struct {
		name      string
		seats     []string
		setup     func(mock pgxmock.PgxPoolIface)
		wantTaken []string
		wantErr   string
	}{
		{
			name:  "Success",
			seats: []string{"A2", "A3"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seat_number`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), []string{"A2", "A3"}).
					WillReturnRows(pgxmock.NewRows([]string{"seat_number"}))
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name:  "Seats Already Confirmed",
			seats: []string{"A2", "A3", "A4"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seat_number`).
					WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("A3").AddRow("A4"))
				mock.ExpectRollback()
			},
			wantTaken: []string{"A3", "A4"},
		},
		{
			name:  "Unique Violation During Insert",
			seats: []string{"A2", "A3"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seat_number`).
					WillReturnRows(pgxmock.NewRows([]string{"seat_number"}))
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnError(seatIndexViolation())
				mock.ExpectRollback()
			},
			wantTaken: []string{"A3"},
		},
		{
			name:  "Unique Violation At Commit",
			seats: []string{"A2", "A3"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seat_number`).
					WillReturnRows(pgxmock.NewRows([]string{"seat_number"}))
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit().WillReturnError(seatIndexViolation())
			},
			wantTaken: []string{"A2", "A3"},
		},
		{
			name:  "Insert Error Rolls Back",
			seats: []string{"A2", "A3"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seat_number`).
					WillReturnRows(pgxmock.NewRows([]string{"seat_number"}))
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnError(errors.New("connection reset"))
				mock.ExpectRollback()
			},
			wantErr: "insert booking BUS-20300110-0001 seat A2",
		},
		{
			name:  "Other Unique Violation Is An Error",
			seats: []string{"A2"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seat_number`).
					WillReturnRows(pgxmock.NewRows([]string{"seat_number"}))
				mock.ExpectExec(`INSERT INTO bookings`).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "bookings_pkey"})
				mock.ExpectRollback()
			},
			wantErr: "insert booking",
		},
		{
			name:  "Begin Error",
			seats: []string{"A2"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("pool closed"))
			},
			wantErr: "begin booking transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)
			repo := NewBookingRepository(mock, zap.NewNop())

			taken, err := repo.CreateBatch(context.Background(), orderOf(tt.seats...))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, taken)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantTaken, taken)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateBatch_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBookingRepository(mock, zap.NewNop())
	taken, err := repo.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBookingRepository(mock, zap.NewNop())
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Cancel(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Cancel(context.Background(), id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already cancelled")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
