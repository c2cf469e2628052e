//go:build integration

package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-booking/internal/booking/db"
	"ms-booking/internal/database/migrations"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// TestPostgresIntegration runs the store against a real Postgres container with the real migrations
func TestPostgresIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Postgres integration test in short mode")
	}

	ctx := context.Background()
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "booking",
				"POSTGRES_PASSWORD": "booking",
				"POSTGRES_DB":       "bookings",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Postgres container")
	defer pgContainer.Terminate(ctx)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://booking:booking@%s:%s/bookings?sslmode=disable", host, port.Port())

	opts := migrations.DefaultOptions()
	opts.MigrationsDir = "../../../migrations"
	runner := migrations.NewRunner(dsn, opts, logger.Discard())
	require.NoError(t, runner.MigrateUp())
	version, dirty, err := runner.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
	require.NoError(t, runner.Close())

	sqldb, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	defer bunDB.Close()

	store := &db.DB{Bun: bunDB}

	booking := newPendingBooking(42)
	require.NoError(t, store.Insert(ctx, booking))
	assert.NotZero(t, booking.ID)

	paymentID := int64(555)
	booking.Status = models.StatusConfirmed
	booking.PaymentID = &paymentID
	require.NoError(t, store.Update(ctx, booking))

	found, err := store.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, found.Status)
	require.NotNil(t, found.PaymentID)
	assert.Equal(t, int64(555), *found.PaymentID)

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, store.Delete(ctx, booking.ID))
	_, err = store.FindByID(ctx, booking.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
