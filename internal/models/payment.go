package models

import "strings"

const PaymentStatusSuccess = "SUCCESS"

type PaymentRequest struct {
	Amount    float64 `json:"amount"`
	BookingID int64   `json:"bookingId"`
}

type PaymentResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Succeeded reports whether the payment service accepted the charge.
func (p *PaymentResponse) Succeeded() bool {
	return p != nil && strings.EqualFold(p.Status, PaymentStatusSuccess)
}
