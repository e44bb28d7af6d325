package wire

import (
	"bus-ticketing/internal/adaptor"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/pkg/middleware"
	"bus-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures counter account routes
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/api/user/profile", userHandler.GetProfile)
		r.Get("/api/user/check/{counterCode}", userHandler.CheckCounter)
	})

	// ==================== ADMIN ROUTES ====================
	r.With(
		middleware.AuthSession(repo.Session, log),
		middleware.Admin(log),
	).Route("/api/admin/counters", func(r chi.Router) {
		r.Get("/", userHandler.GetCounters)          // GET /api/admin/counters?page=1&per_page=10
		r.Post("/", userHandler.CreateCounter)       // POST /api/admin/counters
		r.Delete("/{id}", userHandler.DeleteCounter) // DELETE /api/admin/counters/{id}
	})
}
