package booking_api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ms-booking/internal/booking"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

const DeletedMessage = "Booking deleted successfully!"

// Service is what the handlers need from the orchestrator.
type Service interface {
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	GetAllBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type Handler struct {
	BookingService Service
	Logger         *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{
		BookingService: service,
		Logger:         log,
	}
}

// Routes mounts the booking endpoints on r, expected at /api/bookings.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.CreateBooking)
	r.Get("/", h.GetAllBookings)
	r.Get("/{id}", h.GetBooking)
	r.Put("/{id}/status", h.UpdateBookingStatus)
	r.Delete("/{id}", h.DeleteBooking)
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "CreateBooking: received request")

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), err)
		return
	}

	created, err := h.BookingService.CreateBooking(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "CreateBooking", err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("CreateBooking: booking %d finished as %s", created.ID, created.Status))
	utils.WriteJSON(w, http.StatusOK, created)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBookingID(w, r, h.Logger, "GetBooking")
	if !ok {
		return
	}
	h.Logger.Info("API", fmt.Sprintf("GetBooking: id=%d", id))

	found, err := h.BookingService.GetBookingByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "GetBooking", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, found)
}

func (h *Handler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "GetAllBookings: received request")

	bookings, err := h.BookingService.GetAllBookings(r.Context())
	if err != nil {
		h.writeServiceError(w, "GetAllBookings", err)
		return
	}
	h.Logger.Debug("API", fmt.Sprintf("GetAllBookings: returning %d bookings", len(bookings)))
	utils.WriteJSON(w, http.StatusOK, bookings)
}

func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBookingID(w, r, h.Logger, "UpdateBookingStatus")
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		h.Logger.Warn("API", "UpdateBookingStatus: status query parameter is missing")
		utils.WriteError(w, http.StatusBadRequest, "status query parameter is required", booking.ErrInvalidStatus)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("UpdateBookingStatus: id=%d status=%s", id, status))

	updated, err := h.BookingService.UpdateBookingStatus(r.Context(), id, status)
	if err != nil {
		h.writeServiceError(w, "UpdateBookingStatus", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBookingID(w, r, h.Logger, "DeleteBooking")
	if !ok {
		return
	}
	h.Logger.Info("API", fmt.Sprintf("DeleteBooking: id=%d", id))

	if err := h.BookingService.DeleteBooking(r.Context(), id); err != nil {
		h.writeServiceError(w, "DeleteBooking", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(DeletedMessage))
}

func parseBookingID(w http.ResponseWriter, r *http.Request, log *logger.Logger, op string) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Warn("API", fmt.Sprintf("%s: invalid booking id %q", op, raw))
		utils.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid booking id: %s", raw), err)
		return 0, false
	}
	return id, true
}

// writeServiceError maps orchestrator errors onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case booking.IsNotFound(err):
		h.Logger.Warn("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusNotFound, err.Error(), err)
	case booking.IsValidation(err):
		h.Logger.Warn("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusBadRequest, err.Error(), err)
	case booking.IsUnavailable(err):
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusServiceUnavailable, err.Error(), err)
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: unexpected error: %v", op, err))
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error(), err)
	}
}

// RequestLogger logs one API line per request.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.LogAPI(r.Method, r.URL.Path, strconv.Itoa(status), time.Since(start).String())
		})
	}
}
