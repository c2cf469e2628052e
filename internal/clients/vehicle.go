package clients

import (
	"context"
	"fmt"
	"net/http"

	"ms-booking/internal/booking"
	"ms-booking/internal/logger"
)

// VehicleClient confirms vehicles against the vehicle service.
type VehicleClient struct {
	base
}

func NewVehicleClient(client *http.Client, baseURL string, log *logger.Logger) *VehicleClient {
	return &VehicleClient{base: newBase(client, baseURL, "vehicle", log)}
}

// VerifyVehicle returns nil when GET /vehicles/{id} answers 2xx.
func (c *VehicleClient) VerifyVehicle(ctx context.Context, vehicleID int64) error {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/vehicles/%d", vehicleID), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create vehicle request: %v", booking.ErrVehicleServiceUnavailable, err)
	}

	c.logger.LogGateway("vehicle", "verify", fmt.Sprintf("GET %s", req.URL))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("GATEWAY", fmt.Sprintf("Vehicle service error: %v", err))
		return fmt.Errorf("%w: %v", booking.ErrVehicleServiceUnavailable, err)
	}
	defer c.closeBody(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.logger.Warn("GATEWAY", fmt.Sprintf("Vehicle not found: %d", vehicleID))
		return booking.ErrVehicleNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Error("GATEWAY", fmt.Sprintf("Vehicle service returned status: %d", resp.StatusCode))
		return fmt.Errorf("%w: status %d", booking.ErrVehicleServiceUnavailable, resp.StatusCode)
	}

	return nil
}
