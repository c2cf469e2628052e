package booking_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/sse"
)

// SSEHandler streams booking lifecycle events as Server-Sent Events
type SSEHandler struct {
	Logger       *logger.Logger
	EventEmitter *sse.BookingEventEmitter
}

func NewSSEHandler(emitter *sse.BookingEventEmitter, log *logger.Logger) *SSEHandler {
	return &SSEHandler{
		Logger:       log,
		EventEmitter: emitter,
	}
}

// Routes mounts the streams next to the booking routes.
func (h *SSEHandler) Routes(r chi.Router) {
	r.Get("/events", h.HandleAllBookings)
	r.Get("/{id}/events", h.HandleBooking)
}

// HandleBooking streams events for a single booking
func (h *SSEHandler) HandleBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBookingID(w, r, h.Logger, "HandleBooking")
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h.setupSSEHeaders(w)
	events := h.EventEmitter.SubscribeToBooking(r.Context(), id)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"bookingId\":%d}\n\n", id)
	flusher.Flush()
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to booking events for booking: %d", id))

	h.stream(w, r, flusher, events)
}

// HandleAllBookings streams events for every booking
func (h *SSEHandler) HandleAllBookings(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h.setupSSEHeaders(w)
	events := h.EventEmitter.SubscribeToAll(r.Context())

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()
	h.Logger.Info("SSE", "Client connected to all booking events")

	h.stream(w, r, flusher, events)
}

func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, flusher http.Flusher, events <-chan models.BookingEvent) {
	ctx := r.Context()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}

			jsonData, err := json.Marshal(event)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize booking event: %v", err))
				continue
			}

			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.EventID, event.Type, jsonData)
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", "Client disconnected from booking events")
			return
		}
	}
}

func (h *SSEHandler) setupSSEHeaders(w http.ResponseWriter) {
	// streams outlive the server write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.Logger.Debug("SSE", fmt.Sprintf("Could not clear write deadline: %v", err))
	}
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
