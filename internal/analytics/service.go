package analytics

import (
	"context"
	"fmt"

	"ms-booking/internal/models"
)

// Repository is the read side the analytics service aggregates over
type Repository interface {
	GetStatusTotals(ctx context.Context, filter Filter) ([]StatusTotals, error)
	GetTopServiceTypes(ctx context.Context, filter Filter, limit int) ([]ServiceTypeTotals, error)
}

// Service handles analytics operations
type Service struct {
	repo Repository
}

// NewService creates a new analytics service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

const topServiceTypes = 5

// BookingAnalytics represents aggregated booking data
type BookingAnalytics struct {
	VehicleID        int64               `json:"vehicleId,omitempty"`
	UserID           int64               `json:"userId,omitempty"`
	TotalBookings    int                 `json:"totalBookings"`
	ByStatus         map[string]int      `json:"byStatus"`
	ConfirmedRevenue float64             `json:"confirmedRevenue"`
	AverageAmount    float64             `json:"averageAmount"`
	SuccessRate      float64             `json:"successRate"`
	TopServiceTypes  []ServiceTypeTotals `json:"topServiceTypes"`
}

// Summary aggregates every booking matching filter. SuccessRate is CONFIRMED over
// bookings that reached a payment verdict (CONFIRMED + FAILED).
func (s *Service) Summary(ctx context.Context, filter Filter) (*BookingAnalytics, error) {
	statusTotals, err := s.repo.GetStatusTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load status totals: %w", err)
	}

	serviceTypes, err := s.repo.GetTopServiceTypes(ctx, filter, topServiceTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to load service type totals: %w", err)
	}
	if serviceTypes == nil {
		serviceTypes = []ServiceTypeTotals{}
	}

	result := &BookingAnalytics{
		VehicleID:       filter.VehicleID,
		UserID:          filter.UserID,
		ByStatus:        make(map[string]int, len(models.BookingStatuses)),
		TopServiceTypes: serviceTypes,
	}
	for _, status := range models.BookingStatuses {
		result.ByStatus[string(status)] = 0
	}

	var totalAmount float64
	for _, row := range statusTotals {
		result.ByStatus[row.Status] += row.Count
		result.TotalBookings += row.Count
		totalAmount += row.Amount
		if row.Status == string(models.StatusConfirmed) {
			result.ConfirmedRevenue += row.Amount
		}
	}

	if result.TotalBookings > 0 {
		result.AverageAmount = totalAmount / float64(result.TotalBookings)
	}
	confirmed := result.ByStatus[string(models.StatusConfirmed)]
	if settled := confirmed + result.ByStatus[string(models.StatusFailed)]; settled > 0 {
		result.SuccessRate = float64(confirmed) / float64(settled)
	}

	return result, nil
}
