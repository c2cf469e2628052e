package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- BOOKINGS ----------------

// Insert → store a new booking; the generated id is written back into booking.ID
func (d *DB) Insert(ctx context.Context, booking *models.Booking) error {
	_, err := d.Bun.NewInsert().
		Model(booking).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// Update → overwrite every mutable column of an existing booking
func (d *DB) Update(ctx context.Context, booking *models.Booking) error {
	res, err := d.Bun.NewUpdate().
		Model(booking).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update booking %d: %w", booking.ID, err)
	}
	return expectRow(res, booking.ID)
}

// FindByID → fetch one booking; sql.ErrNoRows when missing
func (d *DB) FindByID(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select booking %d: %w", id, err)
	}
	return &booking, nil
}

// FindAll → every booking ordered by id
func (d *DB) FindAll(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := d.Bun.NewSelect().
		Model(&bookings).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select bookings: %w", err)
	}
	return bookings, nil
}

// Delete → remove a booking by id
func (d *DB) Delete(ctx context.Context, id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}
	return expectRow(res, id)
}

func expectRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for booking %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("booking %d: %w", id, sql.ErrNoRows)
	}
	return nil
}
