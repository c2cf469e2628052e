package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Slot is one open workshop slot. The workshop service may send the id as a number or a numeric string.
type Slot struct {
	ID        json.Number `json:"id"`
	StartTime string      `json:"startTime,omitempty"`
	EndTime   string      `json:"endTime,omitempty"`
}

// SlotID parses the slot identifier.
func (s Slot) SlotID() (int64, error) {
	if s.ID == "" {
		return 0, fmt.Errorf("slot has no id")
	}
	id, err := strconv.ParseInt(s.ID.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("slot id %q is not an integer: %w", s.ID, err)
	}
	return id, nil
}
