package cache

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// memStore is a map-backed Store that counts reads.
type memStore struct {
	rows   map[int64]models.Booking
	nextID int64
	reads  int
}

func newMemStore() *memStore {
	return &memStore{rows: map[int64]models.Booking{}}
}

func (m *memStore) Insert(_ context.Context, b *models.Booking) error {
	m.nextID++
	b.ID = m.nextID
	m.rows[b.ID] = *b
	return nil
}

func (m *memStore) Update(_ context.Context, b *models.Booking) error {
	if _, ok := m.rows[b.ID]; !ok {
		return fmt.Errorf("update booking %d: %w", b.ID, sql.ErrNoRows)
	}
	m.rows[b.ID] = *b
	return nil
}

func (m *memStore) FindByID(_ context.Context, id int64) (*models.Booking, error) {
	m.reads++
	b, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("find booking %d: %w", id, sql.ErrNoRows)
	}
	return &b, nil
}

func (m *memStore) FindAll(_ context.Context) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range m.rows {
		out = append(out, b)
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("delete booking %d: %w", id, sql.ErrNoRows)
	}
	delete(m.rows, id)
	return nil
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to create miniredis")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func pendingBooking() *models.Booking {
	slotID := int64(7)
	return &models.Booking{
		UserID:      1,
		VehicleID:   42,
		SlotID:      &slotID,
		ServiceType: "oil change",
		Status:      models.StatusPending,
		Amount:      100,
		BookingDate: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestInsertPopulatesCacheWithTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := newMemStore()
	cached := NewCachedStore(store, client, 10*time.Minute, logger.Discard())

	booking := pendingBooking()
	require.NoError(t, cached.Insert(context.Background(), booking))

	assert.True(t, mr.Exists(Key(booking.ID)))
	assert.Equal(t, 10*time.Minute, mr.TTL(Key(booking.ID)))
}

func TestFindByIDReadsThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := newMemStore()
	ctx := context.Background()

	booking := pendingBooking()
	require.NoError(t, store.Insert(ctx, booking))

	cached := NewCachedStore(store, client, time.Minute, logger.Discard())

	first, err := cached.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.reads)
	assert.True(t, mr.Exists(Key(booking.ID)))

	second, err := cached.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.reads, "second read should be served from Redis")
	assert.Equal(t, first.VehicleID, second.VehicleID)
	assert.Equal(t, *first.SlotID, *second.SlotID)
	assert.True(t, first.BookingDate.Equal(second.BookingDate))
}

func TestUpdateRefreshesCachedCopy(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := newMemStore()
	cached := NewCachedStore(store, client, time.Minute, logger.Discard())
	ctx := context.Background()

	booking := pendingBooking()
	require.NoError(t, cached.Insert(ctx, booking))

	paymentID := int64(555)
	booking.Status = models.StatusConfirmed
	booking.PaymentID = &paymentID
	require.NoError(t, cached.Update(ctx, booking))

	found, err := cached.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, store.reads)
	assert.Equal(t, models.StatusConfirmed, found.Status)
	require.NotNil(t, found.PaymentID)
	assert.Equal(t, int64(555), *found.PaymentID)
}

func TestDeleteEvicts(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := newMemStore()
	cached := NewCachedStore(store, client, time.Minute, logger.Discard())
	ctx := context.Background()

	booking := pendingBooking()
	require.NoError(t, cached.Insert(ctx, booking))
	require.NoError(t, cached.Delete(ctx, booking.ID))

	assert.False(t, mr.Exists(Key(booking.ID)))

	_, err := cached.FindByID(ctx, booking.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMissIsNotCached(t *testing.T) {
	client, mr := setupTestRedis(t)
	cached := NewCachedStore(newMemStore(), client, time.Minute, logger.Discard())

	_, err := cached.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.False(t, mr.Exists(Key(99)))
}

func TestCorruptEntryFallsBackToStore(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := newMemStore()
	ctx := context.Background()

	booking := pendingBooking()
	require.NoError(t, store.Insert(ctx, booking))
	require.NoError(t, mr.Set(Key(booking.ID), "{not json"))

	cached := NewCachedStore(store, client, time.Minute, logger.Discard())
	found, err := cached.FindByID(ctx, booking.ID)

	require.NoError(t, err)
	assert.Equal(t, booking.ID, found.ID)
	assert.Equal(t, 1, store.reads)
}

func TestRedisOutageDoesNotFailCalls(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := newMemStore()
	cached := NewCachedStore(store, client, time.Minute, logger.Discard())
	ctx := context.Background()

	mr.Close()

	booking := pendingBooking()
	require.NoError(t, cached.Insert(ctx, booking))

	found, err := cached.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, found.ID)

	require.NoError(t, cached.Delete(ctx, booking.ID))
}

func TestFindAllPassesThrough(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := newMemStore()
	cached := NewCachedStore(store, client, time.Minute, logger.Discard())
	ctx := context.Background()

	require.NoError(t, cached.Insert(ctx, pendingBooking()))
	require.NoError(t, cached.Insert(ctx, pendingBooking()))

	all, err := cached.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
