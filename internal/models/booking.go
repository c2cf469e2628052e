package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusFailed    BookingStatus = "FAILED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
)

// BookingStatuses is the full status vocabulary accepted by the service.
var BookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusFailed,
	StatusCancelled,
	StatusCompleted,
}

// ParseBookingStatus matches value against the vocabulary ignoring case and surrounding spaces.
func ParseBookingStatus(value string) (BookingStatus, error) {
	candidate := BookingStatus(strings.ToUpper(strings.TrimSpace(value)))
	for _, status := range BookingStatuses {
		if status == candidate {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown booking status %q", value)
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID          int64         `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64         `bun:"user_id,notnull" json:"userId"`
	VehicleID   int64         `bun:"vehicle_id,notnull" json:"vehicleId"`
	SlotID      *int64        `bun:"slot_id" json:"slotId"`
	ServiceType string        `bun:"service_type,notnull" json:"serviceType"`
	Status      BookingStatus `bun:"status,notnull" json:"status"`
	Amount      float64       `bun:"amount,notnull" json:"amount"`
	BookingDate time.Time     `bun:"booking_date,nullzero" json:"bookingDate"`
	PaymentID   *int64        `bun:"payment_id" json:"paymentId"`
}

// BookingRequest is the create payload; server-assigned fields are not part of it.
type BookingRequest struct {
	UserID      int64   `json:"userId"`
	VehicleID   int64   `json:"vehicleId"`
	ServiceType string  `json:"serviceType"`
	Amount      float64 `json:"amount"`
}

// Validate reports the first missing or out-of-range field.
func (r BookingRequest) Validate() error {
	switch {
	case r.UserID == 0:
		return fmt.Errorf("userId is required")
	case r.VehicleID == 0:
		return fmt.Errorf("vehicleId is required")
	case strings.TrimSpace(r.ServiceType) == "":
		return fmt.Errorf("serviceType cannot be blank")
	case !(r.Amount > 0):
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}
