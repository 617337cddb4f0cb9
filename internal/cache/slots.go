package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/studioflow/shoot-scheduler/internal/models"
)

const genKey = "slots:gen"

// SlotCache is a read-through cache for available-slot listings. Keys embed a
// generation counter; invalidation bumps the counter instead of scanning keys.
// A nil *SlotCache is valid and disables caching.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr string) *SlotCache {
	if addr == "" {
		return nil
	}
	return &SlotCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: 5 * time.Minute,
	}
}

func (c *SlotCache) key(ctx context.Context, start, end string) string {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if err != nil {
		gen = 0
	}
	return fmt.Sprintf("slots:avail:%d:%s:%s", gen, start, end)
}

func (c *SlotCache) GetAvailable(
	ctx context.Context,
	start string,
	end string,
) ([]models.TimeSlot, bool) {

	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.key(ctx, start, end)).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []models.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) SetAvailable(
	ctx context.Context,
	start string,
	end string,
	slots []models.TimeSlot,
) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.key(ctx, start, end), raw, c.ttl)
}

// Invalidate bumps the generation counter; stale keys age out via TTL.
func (c *SlotCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	c.rdb.Incr(ctx, genKey)
}
