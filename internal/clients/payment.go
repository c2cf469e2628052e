package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// PaymentClient charges bookings through the payment service.
type PaymentClient struct {
	base
}

func NewPaymentClient(client *http.Client, baseURL string, log *logger.Logger) *PaymentClient {
	return &PaymentClient{base: newBase(client, baseURL, "payment", log)}
}

// Charge posts the request to /payments. A 2xx with no body returns nil, nil.
func (c *PaymentClient) Charge(ctx context.Context, payment models.PaymentRequest) (*models.PaymentResponse, error) {
	payload, err := json.Marshal(payment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/payments", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}

	c.logger.LogGateway("payment", "charge", fmt.Sprintf("Charging %.2f for booking %d", payment.Amount, payment.BookingID))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("GATEWAY", fmt.Sprintf("Payment service error: %v", err))
		return nil, fmt.Errorf("payment service error: %w", err)
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("GATEWAY", fmt.Sprintf("Payment service returned status: %d", resp.StatusCode))
		return nil, fmt.Errorf("payment service returned status: %d", resp.StatusCode)
	}

	var result models.PaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if errors.Is(err, io.EOF) {
			c.logger.Warn("GATEWAY", fmt.Sprintf("Payment service returned an empty body for booking %d", payment.BookingID))
			return nil, nil
		}
		c.logger.Error("GATEWAY", fmt.Sprintf("Failed to decode payment response: %v", err))
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}

	c.logger.LogGateway("payment", "charge", fmt.Sprintf("Payment %d returned status %s", result.ID, result.Status))
	return &result, nil
}
