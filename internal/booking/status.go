package booking

import (
	"fmt"

	"ms-booking/internal/models"
)

// transitions is the orchestration state machine. The empty status is a booking that
// has not been accepted yet.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	"":                   {models.StatusPending},
	models.StatusPending: {models.StatusConfirmed, models.StatusFailed},
}

// CanTransition reports whether an orchestration run may move a booking from one status to another.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no automatic transition follows status within a run.
func IsTerminal(status models.BookingStatus) bool {
	return status == models.StatusConfirmed || status == models.StatusFailed
}

func advance(b *models.Booking, to models.BookingStatus) error {
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %q -> %q", ErrIllegalTransition, b.Status, to)
	}
	b.Status = to
	return nil
}
