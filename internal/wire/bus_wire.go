package wire

import (
	"bus-ticketing/internal/adaptor"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/pkg/middleware"
	"bus-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBus(
	r chi.Router,
	busHandler *adaptor.BusHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/api/bus", busHandler.GetBuses)        // GET /api/bus?page=1&per_page=10&routeId=&active=true
		r.Get("/api/bus/{id}", busHandler.GetBusByID) // GET /api/bus/{id}
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bus", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/", busHandler.CreateBus)
		r.Patch("/{id}", busHandler.UpdateBus)
		r.Delete("/{id}", busHandler.DeleteBus)
	})
}
