package wire

import (
	"bus-ticketing/internal/adaptor"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/pkg/middleware"
	"bus-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// ==================== COUNTER ROUTES ====================
		r.Get("/bus/{busId}", bookingHandler.GetBusBookings)     // ?date=YYYY-MM-DD
		r.Get("/bus/{busId}/seatmap", bookingHandler.GetSeatMap) // ?date=YYYY-MM-DD
		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/{id}", bookingHandler.GetBookingByID)
		r.Get("/{id}/ticket", bookingHandler.GetTicket)

		// ==================== ADMIN ROUTES ====================
		r.With(middleware.Admin(log)).Delete("/{id}", bookingHandler.CancelBooking)
	})
}
