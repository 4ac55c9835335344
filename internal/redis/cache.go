package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles trip snapshot caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// TripCacheTTL is short: trip membership changes as riders join and leave.
const TripCacheTTL = 15 * time.Second

const tripCachePrefix = "cache:trip:"

// CachedTrip represents a cached trip snapshot.
type CachedTrip struct {
	ID           string    `json:"id"`
	DriverID     string    `json:"driver_id"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	DepartureAt  time.Time `json:"departure_at"`
	SeatCapacity int       `json:"seat_capacity"`
	Status       string    `json:"status"`
	RiderIDs     []string  `json:"rider_ids"`
	ChatID       string    `json:"chat_id"`
}

// GetTrip retrieves a trip snapshot from cache.
func (s *CacheStore) GetTrip(ctx context.Context, tripID string) (*CachedTrip, error) {
	key := tripCachePrefix + tripID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var trip CachedTrip
	if err := json.Unmarshal(data, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// SetTrip stores a trip snapshot in cache.
func (s *CacheStore) SetTrip(ctx context.Context, trip *CachedTrip) error {
	key := tripCachePrefix + trip.ID
	data, err := json.Marshal(trip)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, TripCacheTTL).Err()
}

// InvalidateTrip removes a trip snapshot from cache.
func (s *CacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	key := tripCachePrefix + tripID
	return s.client.Del(ctx, key).Err()
}
