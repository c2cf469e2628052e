package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"ms-booking/internal/booking"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// WorkshopClient lists open slots from the workshop service.
type WorkshopClient struct {
	base
}

func NewWorkshopClient(client *http.Client, baseURL string, log *logger.Logger) *WorkshopClient {
	return &WorkshopClient{base: newBase(client, baseURL, "workshop", log)}
}

// AvailableSlots decodes GET /workshop/slots. A null body yields an empty list.
func (c *WorkshopClient) AvailableSlots(ctx context.Context) ([]models.Slot, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/workshop/slots", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create slots request: %v", booking.ErrWorkshopUnavailable, err)
	}

	c.logger.LogGateway("workshop", "slots", fmt.Sprintf("GET %s", req.URL))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("GATEWAY", fmt.Sprintf("Workshop service error: %v", err))
		return nil, fmt.Errorf("%w: %v", booking.ErrWorkshopUnavailable, err)
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("GATEWAY", fmt.Sprintf("Workshop service returned status: %d", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", booking.ErrWorkshopUnavailable, resp.StatusCode)
	}

	var slots []models.Slot
	if err := json.NewDecoder(resp.Body).Decode(&slots); err != nil {
		c.logger.Error("GATEWAY", fmt.Sprintf("Failed to decode slots response: %v", err))
		return nil, fmt.Errorf("%w: failed to decode slots: %v", booking.ErrWorkshopUnavailable, err)
	}

	c.logger.LogGateway("workshop", "slots", fmt.Sprintf("%d slots available", len(slots)))
	return slots, nil
}
