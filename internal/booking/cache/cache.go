package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

const keyPrefix = "booking:"

// Store is the persistence contract the cache wraps.
type Store interface {
	Insert(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id int64) (*models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
	Delete(ctx context.Context, id int64) error
}

// CachedStore is a read-through, write-through Redis cache in front of a Store.
// Redis failures never fail a call; the underlying store stays authoritative.
type CachedStore struct {
	Next   Store
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewCachedStore(next Store, client *redis.Client, ttl time.Duration, log *logger.Logger) *CachedStore {
	return &CachedStore{
		Next:   next,
		Client: client,
		TTL:    ttl,
		Logger: log,
	}
}

// Key returns the Redis key a booking is cached under.
func Key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

// Insert → store first, then cache the row with its assigned id
func (c *CachedStore) Insert(ctx context.Context, booking *models.Booking) error {
	if err := c.Next.Insert(ctx, booking); err != nil {
		return err
	}
	c.put(ctx, booking)
	return nil
}

// Update → store first, then refresh the cached copy
func (c *CachedStore) Update(ctx context.Context, booking *models.Booking) error {
	if err := c.Next.Update(ctx, booking); err != nil {
		c.evict(ctx, booking.ID)
		return err
	}
	c.put(ctx, booking)
	return nil
}

// FindByID → Redis hit, else store and populate
func (c *CachedStore) FindByID(ctx context.Context, id int64) (*models.Booking, error) {
	if cached := c.get(ctx, id); cached != nil {
		return cached, nil
	}

	booking, err := c.Next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking != nil {
		c.put(ctx, booking)
	}
	return booking, nil
}

// FindAll → always the store
func (c *CachedStore) FindAll(ctx context.Context) ([]models.Booking, error) {
	return c.Next.FindAll(ctx)
}

// Delete → store, then evict
func (c *CachedStore) Delete(ctx context.Context, id int64) error {
	if err := c.Next.Delete(ctx, id); err != nil {
		return err
	}
	c.evict(ctx, id)
	return nil
}

func (c *CachedStore) get(ctx context.Context, id int64) *models.Booking {
	if c.Client == nil {
		return nil
	}

	raw, err := c.Client.Get(ctx, Key(id)).Bytes()
	if err == redis.Nil {
		return nil
	} else if err != nil {
		c.Logger.Warn("REDIS", fmt.Sprintf("Cache read failed for booking %d: %v", id, err))
		return nil
	}

	var booking models.Booking
	if err := json.Unmarshal(raw, &booking); err != nil {
		c.Logger.Warn("REDIS", fmt.Sprintf("Dropping corrupt cache entry for booking %d: %v", id, err))
		c.evict(ctx, id)
		return nil
	}
	c.Logger.Debug("REDIS", fmt.Sprintf("Cache hit for booking %d", id))
	return &booking
}

func (c *CachedStore) put(ctx context.Context, booking *models.Booking) {
	if c.Client == nil {
		return
	}

	raw, err := json.Marshal(booking)
	if err != nil {
		c.Logger.Warn("REDIS", fmt.Sprintf("Failed to encode booking %d for cache: %v", booking.ID, err))
		return
	}
	if err := c.Client.Set(ctx, Key(booking.ID), raw, c.TTL).Err(); err != nil {
		c.Logger.Warn("REDIS", fmt.Sprintf("Cache write failed for booking %d: %v", booking.ID, err))
	}
}

func (c *CachedStore) evict(ctx context.Context, id int64) {
	if c.Client == nil {
		return
	}
	if err := c.Client.Del(ctx, Key(id)).Err(); err != nil {
		c.Logger.Warn("REDIS", fmt.Sprintf("Cache eviction failed for booking %d: %v", id, err))
	}
}
