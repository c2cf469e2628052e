package analytics

import (
	"context"

	"github.com/uptrace/bun"
)

// StatusTotals is one row of the per-status breakdown
type StatusTotals struct {
	Status string  `bun:"status"`
	Count  int     `bun:"booking_count"`
	Amount float64 `bun:"amount_sum"`
}

// ServiceTypeTotals is one row of the per-service-type breakdown
type ServiceTypeTotals struct {
	ServiceType string `bun:"service_type"`
	Count       int    `bun:"booking_count"`
}

// Filter narrows the aggregates; a zero value means every booking
type Filter struct {
	VehicleID int64
	UserID    int64
}

func (f Filter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.VehicleID != 0 {
		q = q.Where("vehicle_id = ?", f.VehicleID)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	return q
}

// DB handles analytics database operations
type DB struct {
	bun *bun.DB
}

// NewDB creates a new analytics DB handler
func NewDB(db *bun.DB) *DB {
	return &DB{bun: db}
}

// GetStatusTotals counts bookings and sums amounts per status
func (db *DB) GetStatusTotals(ctx context.Context, filter Filter) ([]StatusTotals, error) {
	var totals []StatusTotals
	q := db.bun.NewSelect().
		TableExpr("bookings").
		ColumnExpr("status").
		ColumnExpr("COUNT(*) AS booking_count").
		ColumnExpr("COALESCE(SUM(amount), 0) AS amount_sum")
	err := filter.apply(q).
		GroupExpr("status").
		OrderExpr("status").
		Scan(ctx, &totals)

	return totals, err
}

// GetTopServiceTypes returns the most booked service types, most popular first
func (db *DB) GetTopServiceTypes(ctx context.Context, filter Filter, limit int) ([]ServiceTypeTotals, error) {
	var totals []ServiceTypeTotals
	q := db.bun.NewSelect().
		TableExpr("bookings").
		ColumnExpr("service_type").
		ColumnExpr("COUNT(*) AS booking_count")
	err := filter.apply(q).
		GroupExpr("service_type").
		OrderExpr("booking_count DESC, service_type ASC").
		Limit(limit).
		Scan(ctx, &totals)

	return totals, err
}
