package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/anisurarzu/hotelseashore/config"
	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a lock only if it still holds our token, so an
// expired holder cannot release a lock someone else now owns.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const lockRetryInterval = 25 * time.Millisecond

type RedisCache struct {
	client       redis.UniversalClient
	inventoryTTL time.Duration
	lockTTL      time.Duration
	lockWait     time.Duration
}

func NewRedisCache(cfg config.RedisConfig, inventoryTTL, lockTTL, lockWait time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		inventoryTTL, lockTTL, lockWait,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, inventoryTTL, lockTTL, lockWait time.Duration) *RedisCache {
	return &RedisCache{
		client:       client,
		inventoryTTL: inventoryTTL,
		lockTTL:      lockTTL,
		lockWait:     lockWait,
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) GetHotels(ctx context.Context) ([]domain.Hotel, error) {
	var hotels []domain.Hotel
	ok, err := c.getJSON(ctx, hotelsKey(), &hotels)
	if err != nil || !ok {
		return nil, err
	}
	return hotels, nil
}

func (c *RedisCache) SetHotels(ctx context.Context, hotels []domain.Hotel) error {
	return c.setJSON(ctx, hotelsKey(), hotels)
}

func (c *RedisCache) GetCategoryRooms(ctx context.Context, hotelID, categoryID int64) ([]domain.RoomNumber, error) {
	var rooms []domain.RoomNumber
	ok, err := c.getJSON(ctx, categoryRoomsKey(hotelID, categoryID), &rooms)
	if err != nil || !ok {
		return nil, err
	}
	return rooms, nil
}

func (c *RedisCache) SetCategoryRooms(ctx context.Context, hotelID, categoryID int64, rooms []domain.RoomNumber) error {
	return c.setJSON(ctx, categoryRoomsKey(hotelID, categoryID), rooms)
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.inventoryTTL).Err()
}

// Lock takes the room lock with SET NX PX, polling until lockWait elapses.
// The lock expires after lockTTL even if the holder dies.
func (c *RedisCache) Lock(ctx context.Context, key domain.RoomKey) (func(), error) {
	lockKey := roomLockKey(key)
	token := uuid.NewString()
	deadline := time.Now().Add(c.lockWait)

	for {
		ok, err := c.client.SetNX(ctx, lockKey, token, c.lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", lockKey, err)
		}
		if ok {
			return func() { c.release(lockKey, token) }, nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: lock %s not acquired within %s", domain.ErrBusy, key, c.lockWait)
		}

		select {
		case <-time.After(lockRetryInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *RedisCache) release(lockKey, token string) {
	// The request context may already be cancelled; release regardless.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, c.client, []string{lockKey}, token).Err(); err != nil {
		log.Printf("WARNING: release lock key=%s: %v", lockKey, err)
	}
}

func hotelsKey() string {
	return "cache:hotels"
}

func categoryRoomsKey(hotelID, categoryID int64) string {
	return fmt.Sprintf("cache:hotel:%d:category:%d:rooms", hotelID, categoryID)
}

func roomLockKey(key domain.RoomKey) string {
	return "lock:" + key.String()
}
