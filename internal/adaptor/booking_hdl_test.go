package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/dto/response"
	"bus-ticketing/internal/seatmap"
	"bus-ticketing/internal/usecase"
	"bus-ticketing/pkg/ticket"
	"bus-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBookingService struct {
	createErr error
	lastReq   *request.CreateBookingRequest
	counterID string
}

func (s *stubBookingService) GetBusBookings(_ context.Context, busID, date string) ([]response.BookingResponse, error) {
	if busID == "missing" {
		return nil, errors.New("bus not found")
	}
	return []response.BookingResponse{{ID: "b-1", SeatNumber: "A1", Gender: "Male", BusID: busID, TravelDate: date, Status: "confirmed"}}, nil
}

func (s *stubBookingService) GetSeatMap(context.Context, string, string) (*response.SeatMapResponse, error) {
	return &response.SeatMapResponse{CoachLayout: "standard"}, nil
}

func (s *stubBookingService) CreateBooking(_ context.Context, counterID string, req *request.CreateBookingRequest) (*response.OrderResponse, error) {
	s.lastReq = req
	s.counterID = counterID
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &response.OrderResponse{OrderID: "BUS-1", Quote: seatmap.Quote(500, len(req.Seats), req.Discount)}, nil
}

func (s *stubBookingService) GetBookingByID(context.Context, string) (*response.BookingResponse, error) {
	return nil, errors.New("booking not found")
}

func (s *stubBookingService) CancelBooking(context.Context, string) error {
	return errors.New("cannot cancel: booking already cancelled")
}

func (s *stubBookingService) GetTicket(context.Context, string) (*ticket.Ticket, error) {
	return &ticket.Ticket{
		OrderID:       "BUS-1",
		PassengerName: "Rahim",
		TravelDate:    time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC),
		Seats:         []ticket.Seat{{Number: "A1", Gender: "Male"}},
		NetPay:        500,
	}, nil
}

var _ usecase.BookingService = (*stubBookingService)(nil)

func bookingRouter(svc usecase.BookingService, counterID uuid.UUID) http.Handler {
	h := NewBookingHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := utils.SetUserContext(req.Context(), counterID, "counter", "CTR-01")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/api/bookings/bus/{busId}", h.GetBusBookings)
	r.Get("/api/bookings/bus/{busId}/seatmap", h.GetSeatMap)
	r.Post("/api/bookings", h.CreateBooking)
	r.Get("/api/bookings/{id}", h.GetBookingByID)
	r.Get("/api/bookings/{id}/ticket", h.GetTicket)
	r.Delete("/api/bookings/{id}", h.CancelBooking)
	return r
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func serve(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

const bookingBody = `{"busId":"6f1c2b8e-8a57-4c7e-9a57-0d0c4c1f3b11","travelDate":"2030-01-15",
"passengerName":"Rahim","mobile":"+8801712345678","gender":"Male","age":34,
"boardingPoint":"Gabtoli","droppingPoint":"Sylhet","discount":100,
"seats":[{"seatNumber":"A2","gender":"Male"},{"seatNumber":"A3","gender":"Female"}]}`

func TestCreateBooking_Created(t *testing.T) {
	svc := &stubBookingService{}
	counterID := uuid.New()

	rec, env := serve(t, bookingRouter(svc, counterID), http.MethodPost, "/api/bookings", bookingBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Status)
	assert.Equal(t, counterID.String(), svc.counterID)
	require.NotNil(t, svc.lastReq)
	assert.Equal(t, "Rahim", svc.lastReq.Name)
	assert.Equal(t, "Gabtoli", svc.lastReq.BoardingPoint)
	assert.Len(t, svc.lastReq.Seats, 2)

	var order response.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, 900.0, order.Quote.NetPay)
}

func TestCreateBooking_ConflictReturnsSeats(t *testing.T) {
	svc := &stubBookingService{createErr: &usecase.SeatConflictError{Seats: []string{"A3"}}}

	rec, env := serve(t, bookingRouter(svc, uuid.New()), http.MethodPost, "/api/bookings", bookingBody)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Status)
	assert.Equal(t, "seats already booked: A3", env.Message)
	assert.JSONEq(t, `{"seats":["A3"]}`, string(env.Data))
}

func TestCreateBooking_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation fields", &seatmap.ValidationError{Fields: map[string]string{"discount": "Discount cannot exceed gross pay"}}, http.StatusBadRequest},
		{"seat outside catalog", errors.New("invalid seat EX4 for standard coach"), http.StatusBadRequest},
		{"past date", errors.New("cannot book for a past travel date"), http.StatusBadRequest},
		{"bus missing", errors.New("bus not found"), http.StatusNotFound},
		{"storage", errors.New("failed to create booking"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubBookingService{createErr: tt.err}
			rec, env := serve(t, bookingRouter(svc, uuid.New()), http.MethodPost, "/api/bookings", bookingBody)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, env.Status)
		})
	}

	svc := &stubBookingService{createErr: &seatmap.ValidationError{Fields: map[string]string{"mobile": "Minimum length is 14"}}}
	_, env := serve(t, bookingRouter(svc, uuid.New()), http.MethodPost, "/api/bookings", bookingBody)
	assert.JSONEq(t, `{"mobile":"Minimum length is 14"}`, string(env.Errors))
}

func TestCreateBooking_BadBody(t *testing.T) {
	svc := &stubBookingService{}
	rec, _ := serve(t, bookingRouter(svc, uuid.New()), http.MethodPost, "/api/bookings", `{"seats":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.lastReq)
}

func TestGetBusBookings_FlatShape(t *testing.T) {
	h := bookingRouter(&stubBookingService{}, uuid.New())

	rec, _ := serve(t, h, http.MethodGet, "/api/bookings/bus/bus-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := serve(t, h, http.MethodGet, "/api/bookings/bus/bus-1?date=2030-01-15", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "A1", rows[0]["seatNumber"])
	assert.Equal(t, "Male", rows[0]["gender"])
	assert.NotContains(t, rows[0], "seats")

	rec, _ = serve(t, h, http.MethodGet, "/api/bookings/bus/missing?date=2030-01-15", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingLookupAndCancelErrors(t *testing.T) {
	h := bookingRouter(&stubBookingService{}, uuid.New())

	rec, _ := serve(t, h, http.MethodGet, "/api/bookings/b-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = serve(t, h, http.MethodDelete, "/api/bookings/b-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTicket_PDF(t *testing.T) {
	h := bookingRouter(&stubBookingService{}, uuid.New())

	rec, _ := serve(t, h, http.MethodGet, "/api/bookings/b-1/ticket", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ETICKET_BUS-1_Rahim.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}
