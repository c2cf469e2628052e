package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

// CreateSchema creates the bookings table when it does not exist yet.
// Production schemas are managed by the SQL migrations; this is for tests and local bootstrap.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*models.Booking)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create bookings table: %w", err)
	}
	return nil
}
