package booking

import "errors"

var (
	ErrBookingNotFound           = errors.New("booking not found")
	ErrVehicleNotFound           = errors.New("vehicle not found")
	ErrVehicleServiceUnavailable = errors.New("vehicle service is currently unavailable")
	ErrNoSlotsAvailable          = errors.New("no available slots")
	ErrWorkshopUnavailable       = errors.New("workshop service is currently unavailable")
	ErrInvalidStatus             = errors.New("invalid booking status")
	ErrInvalidBooking            = errors.New("invalid booking request")
	ErrIllegalTransition         = errors.New("illegal booking status transition")
)

// IsNotFound reports client-facing lookup misses (booking, vehicle or slot).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrVehicleNotFound) ||
		errors.Is(err, ErrNoSlotsAvailable)
}

// IsUnavailable reports a dependency that could not be reached before anything was persisted.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrVehicleServiceUnavailable) || errors.Is(err, ErrWorkshopUnavailable)
}

// IsValidation reports malformed client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidStatus) || errors.Is(err, ErrInvalidBooking)
}
