package adaptor

import (
	"net/http"

	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/usecase"
	"bus-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// CheckCounter handles GET /api/user/check/{counterCode}
func (h *UserHandler) CheckCounter(w http.ResponseWriter, r *http.Request) {
	counter, err := h.service.CheckCounter(r.Context(), chi.URLParam(r, "counterCode"))
	if err != nil {
		handleServiceError(w, h.log, err, "check counter")
		return
	}

	utils.ResponseSuccess(w, "success", counter)
}

// GetProfile handles GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// GetCounters handles GET /api/admin/counters
func (h *UserHandler) GetCounters(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.PageParams(r)
	req := &request.PaginatedRequest{Page: page, PerPage: perPage}

	counters, err := h.service.GetCounters(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get counters")
		return
	}

	utils.ResponseSuccess(w, "success", counters)
}

// CreateCounter handles POST /api/admin/counters
func (h *UserHandler) CreateCounter(w http.ResponseWriter, r *http.Request) {
	var req request.CounterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	counter, err := h.service.CreateCounter(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create counter")
		return
	}

	utils.ResponseCreated(w, "Counter created", counter)
}

// DeleteCounter handles DELETE /api/admin/counters/{id}
func (h *UserHandler) DeleteCounter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if current, ok := utils.GetUserIDFromContext(r.Context()); ok && current.String() == id {
		utils.ResponseBadRequest(w, "cannot delete your own account", nil)
		return
	}

	if err := h.service.DeleteCounter(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete counter")
		return
	}

	utils.ResponseSuccess(w, "Counter deleted", nil)
}
