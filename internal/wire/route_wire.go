package wire

import (
	"bus-ticketing/internal/adaptor"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/pkg/middleware"
	"bus-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRoute(
	r chi.Router,
	routeHandler *adaptor.RouteHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/api/routes", routeHandler.GetRoutes)
		r.Get("/api/routes/{id}", routeHandler.GetRouteByID)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/routes", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/", routeHandler.CreateRoute)
		r.Patch("/{id}", routeHandler.UpdateRoute)
		r.Delete("/{id}", routeHandler.DeleteRoute)
	})
}
