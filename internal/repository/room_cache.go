package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// CachedRoomCatalog keeps room records in Redis in front of another
// catalog.  Rooms change rarely and are read on every quote and booking.
// With a nil client every call goes to the wrapped catalog.
type CachedRoomCatalog struct {
	next   booking.RoomCatalog
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewCachedRoomCatalog(next booking.RoomCatalog, rdb *redis.Client, ttl time.Duration) *CachedRoomCatalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRoomCatalog{next: next, rdb: rdb, ttl: ttl, prefix: "room"}
}

func (c *CachedRoomCatalog) key(id uint64) string {
	return c.prefix + ":" + strconv.FormatUint(id, 10)
}

// GetRoomByID serves from Redis when possible.  Redis errors fall through
// to the wrapped catalog; missing rooms are not cached.
func (c *CachedRoomCatalog) GetRoomByID(ctx context.Context, id uint64) (*model.Room, error) {
	if c.rdb == nil {
		return c.next.GetRoomByID(ctx, id)
	}
	if bs, err := c.rdb.Get(ctx, c.key(id)).Bytes(); err == nil {
		var r model.Room
		if json.Unmarshal(bs, &r) == nil {
			return &r, nil
		}
	}
	r, err := c.next.GetRoomByID(ctx, id)
	if err != nil || r == nil {
		return r, err
	}
	if bs, err := json.Marshal(r); err == nil {
		_ = c.rdb.SetEx(ctx, c.key(id), bs, c.ttl).Err()
	}
	return r, nil
}

// Invalidate drops a cached room.
func (c *CachedRoomCatalog) Invalidate(ctx context.Context, id uint64) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.key(id)).Err()
}
