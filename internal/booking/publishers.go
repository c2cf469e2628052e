package booking

import (
	"context"
	"errors"

	"ms-booking/internal/models"
)

// Publishers sends each event to every publisher, joining their errors.
type Publishers []EventPublisher

func (p Publishers) PublishBookingEvent(ctx context.Context, event models.BookingEvent) error {
	var errs []error
	for _, publisher := range p {
		if publisher == nil {
			continue
		}
		if err := publisher.PublishBookingEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
