package adaptor

import (
	"net/http"

	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/usecase"
	"bus-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RouteHandler struct {
	service usecase.RouteService
	log     *zap.Logger
}

func NewRouteHandler(service usecase.RouteService, log *zap.Logger) *RouteHandler {
	return &RouteHandler{
		service: service,
		log:     log.With(zap.String("handler", "route")),
	}
}

// GetRoutes handles GET /api/routes?search=
func (h *RouteHandler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.PageParams(r)
	req := &request.PaginatedRequest{Page: page, PerPage: perPage}

	var search *string
	if s := r.URL.Query().Get("search"); s != "" {
		search = &s
	}

	routes, err := h.service.GetRoutes(r.Context(), req, search)
	if err != nil {
		handleServiceError(w, h.log, err, "get routes")
		return
	}

	utils.ResponseSuccess(w, "success", routes)
}

// GetRouteByID handles GET /api/routes/{id}
func (h *RouteHandler) GetRouteByID(w http.ResponseWriter, r *http.Request) {
	route, err := h.service.GetRouteByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get route")
		return
	}

	utils.ResponseSuccess(w, "success", route)
}

// CreateRoute handles POST /api/admin/routes
func (h *RouteHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req request.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	route, err := h.service.CreateRoute(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create route")
		return
	}

	utils.ResponseCreated(w, "Route created", route)
}

// UpdateRoute handles PATCH /api/admin/routes/{id}
func (h *RouteHandler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	var req request.RouteUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	route, err := h.service.UpdateRoute(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update route")
		return
	}

	utils.ResponseSuccess(w, "Route updated", route)
}

// DeleteRoute handles DELETE /api/admin/routes/{id}
func (h *RouteHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRoute(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete route")
		return
	}

	utils.ResponseSuccess(w, "Route deleted", nil)
}
