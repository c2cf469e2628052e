package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingEventType string

const (
	EventBookingCreated       BookingEventType = "booking.created"
	EventBookingConfirmed     BookingEventType = "booking.confirmed"
	EventBookingFailed        BookingEventType = "booking.failed"
	EventBookingStatusUpdated BookingEventType = "booking.status_updated"
	EventBookingDeleted       BookingEventType = "booking.deleted"
)

type BookingEvent struct {
	EventID    string           `json:"eventId"`
	Type       BookingEventType `json:"type"`
	Booking    Booking          `json:"booking"`
	OccurredAt time.Time        `json:"occurredAt"`
}

func NewBookingEvent(eventType BookingEventType, booking Booking, at time.Time) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Booking:    booking,
		OccurredAt: at.UTC(),
	}
}
