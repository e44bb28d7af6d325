package adaptor

import (
	"net/http"

	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/usecase"
	"bus-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BusHandler struct {
	service usecase.BusService
	log     *zap.Logger
}

func NewBusHandler(service usecase.BusService, log *zap.Logger) *BusHandler {
	return &BusHandler{
		service: service,
		log:     log.With(zap.String("handler", "bus")),
	}
}

// GetBuses handles GET /api/bus?routeId=&active=
func (h *BusHandler) GetBuses(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.PageParams(r)
	req := &request.PaginatedRequest{Page: page, PerPage: perPage}

	query := r.URL.Query()
	var routeID *string
	if id := query.Get("routeId"); id != "" {
		routeID = &id
	}
	activeOnly := query.Get("active") == "true"

	buses, err := h.service.GetBuses(r.Context(), req, routeID, activeOnly)
	if err != nil {
		handleServiceError(w, h.log, err, "get buses")
		return
	}

	utils.ResponseSuccess(w, "success", buses)
}

// GetBusByID handles GET /api/bus/{id}
func (h *BusHandler) GetBusByID(w http.ResponseWriter, r *http.Request) {
	bus, err := h.service.GetBusByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get bus")
		return
	}

	utils.ResponseSuccess(w, "success", bus)
}

// CreateBus handles POST /api/admin/bus
func (h *BusHandler) CreateBus(w http.ResponseWriter, r *http.Request) {
	var req request.BusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bus, err := h.service.CreateBus(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create bus")
		return
	}

	utils.ResponseCreated(w, "Bus created", bus)
}

// UpdateBus handles PATCH /api/admin/bus/{id}
func (h *BusHandler) UpdateBus(w http.ResponseWriter, r *http.Request) {
	var req request.BusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bus, err := h.service.UpdateBus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update bus")
		return
	}

	utils.ResponseSuccess(w, "Bus updated", bus)
}

// DeleteBus handles DELETE /api/admin/bus/{id}
func (h *BusHandler) DeleteBus(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBus(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete bus")
		return
	}

	utils.ResponseSuccess(w, "Bus deleted", nil)
}
