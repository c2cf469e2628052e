package analytics_api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/analytics"
	"ms-booking/internal/logger"
	"ms-booking/internal/utils"
)

// Handler handles analytics HTTP endpoints
type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *analytics.Service, logger *logger.Logger) *Handler {
	return &Handler{
		Service: service,
		Logger:  logger,
	}
}

// RegisterRoutes registers the analytics routes on the bookings router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics", h.GetBookingAnalytics)
}

// GetBookingAnalytics → optional vehicleId / userId query filters
func (h *Handler) GetBookingAnalytics(w http.ResponseWriter, r *http.Request) {
	var filter analytics.Filter
	var err error

	if filter.VehicleID, err = queryID(r, "vehicleId"); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid vehicleId", err)
		return
	}
	if filter.UserID, err = queryID(r, "userId"); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid userId", err)
		return
	}

	h.Logger.Info("ANALYTICS", fmt.Sprintf("GetBookingAnalytics: vehicleId=%d userId=%d", filter.VehicleID, filter.UserID))

	summary, err := h.Service.Summary(r.Context(), filter)
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("GetBookingAnalytics: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error(), err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, summary)
}

func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}
