package adaptor

import (
	"fmt"
	"net/http"
	"strconv"

	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/usecase"
	"bus-ticketing/pkg/ticket"
	"bus-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// GetBusBookings handles GET /api/bookings/bus/{busId}?date=YYYY-MM-DD
func (h *BookingHandler) GetBusBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "date query parameter is required", nil)
		return
	}

	bookings, err := h.service.GetBusBookings(r.Context(), chi.URLParam(r, "busId"), date)
	if err != nil {
		handleServiceError(w, h.log, err, "get bus bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetSeatMap handles GET /api/bookings/bus/{busId}/seatmap?date=YYYY-MM-DD
func (h *BookingHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "date query parameter is required", nil)
		return
	}

	seatMap, err := h.service.GetSeatMap(r.Context(), chi.URLParam(r, "busId"), date)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	counterID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.CreateBooking(r.Context(), counterID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking confirmed", order)
}

// GetBookingByID handles GET /api/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBookingByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles DELETE /api/bookings/{id} (admin)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelBooking(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", nil)
}

// GetTicket handles GET /api/bookings/{id}/ticket and streams the PDF
func (h *BookingHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.GetTicket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket")
		return
	}

	pdf, err := ticket.Render(*t)
	if err != nil {
		handleServiceError(w, h.log, err, "render ticket")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ticket.Filename(*t)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.log.Warn("Failed to write ticket", zap.Error(err))
	}
}
