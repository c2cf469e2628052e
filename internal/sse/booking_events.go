package sse

import (
	"context"
	"sync"

	"ms-booking/internal/models"
)

// allBookings is the subscription key for clients following every booking.
const allBookings int64 = 0

// BookingEventEmitter fans booking lifecycle events out to connected SSE clients
type BookingEventEmitter struct {
	// key: booking id (allBookings for the firehose), value: client channels
	clients     map[int64][]chan models.BookingEvent
	clientMutex sync.RWMutex
	bufferSize  int
}

// NewBookingEventEmitter creates a new SSE event emitter for booking events
func NewBookingEventEmitter() *BookingEventEmitter {
	return &BookingEventEmitter{
		clients:    make(map[int64][]chan models.BookingEvent),
		bufferSize: 10,
	}
}

// SubscribeToBooking adds a client to one booking's events
func (e *BookingEventEmitter) SubscribeToBooking(ctx context.Context, bookingID int64) <-chan models.BookingEvent {
	return e.subscribe(ctx, bookingID)
}

// SubscribeToAll adds a client to every booking's events
func (e *BookingEventEmitter) SubscribeToAll(ctx context.Context) <-chan models.BookingEvent {
	return e.subscribe(ctx, allBookings)
}

func (e *BookingEventEmitter) subscribe(ctx context.Context, key int64) <-chan models.BookingEvent {
	clientChan := make(chan models.BookingEvent, e.bufferSize)

	e.clientMutex.Lock()
	e.clients[key] = append(e.clients[key], clientChan)
	e.clientMutex.Unlock()

	// Remove client when context is done
	go func() {
		<-ctx.Done()
		e.removeClient(key, clientChan)
	}()

	return clientChan
}

// PublishBookingEvent broadcasts to the booking's subscribers and the firehose. Never fails.
func (e *BookingEventEmitter) PublishBookingEvent(_ context.Context, event models.BookingEvent) error {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()

	for _, key := range []int64{event.Booking.ID, allBookings} {
		for _, clientChan := range e.clients[key] {
			// Non-blocking send so a slow client can't stall the orchestrator
			select {
			case clientChan <- event:
			default:
			}
		}
	}
	return nil
}

func (e *BookingEventEmitter) removeClient(key int64, clientChan chan models.BookingEvent) {
	e.clientMutex.Lock()
	defer e.clientMutex.Unlock()

	clients := e.clients[key]
	for i, ch := range clients {
		if ch == clientChan {
			e.clients[key] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}

	// Clean up map entry if no more clients
	if len(e.clients[key]) == 0 {
		delete(e.clients, key)
	}
}

// ClientCount returns the number of clients subscribed to a booking
func (e *BookingEventEmitter) ClientCount(bookingID int64) int {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()
	return len(e.clients[bookingID])
}
