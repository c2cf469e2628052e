package booking

import (
	"context"
	"errors"
	"fmt"

	"ms-booking/internal/models"
)

type WorkshopGateway interface {
	AvailableSlots(ctx context.Context) ([]models.Slot, error)
}

// SlotAllocator picks the first slot in the order the workshop service returns them.
// There is no fairness or load awareness; double-booking is prevented by the workshop service.
type SlotAllocator struct {
	Workshop WorkshopGateway
}

func NewSlotAllocator(workshop WorkshopGateway) *SlotAllocator {
	return &SlotAllocator{Workshop: workshop}
}

func (a *SlotAllocator) AllocateSlot(ctx context.Context) (int64, error) {
	slots, err := a.Workshop.AvailableSlots(ctx)
	if err != nil {
		if errors.Is(err, ErrWorkshopUnavailable) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrWorkshopUnavailable, err)
	}

	if len(slots) == 0 {
		return 0, fmt.Errorf("%w: please choose a different time", ErrNoSlotsAvailable)
	}

	// a malformed id is a contract violation, not an outage
	slotID, err := slots[0].SlotID()
	if err != nil {
		return 0, fmt.Errorf("invalid slot returned by workshop service: %w", err)
	}
	return slotID, nil
}
