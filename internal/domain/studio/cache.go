package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SheetCache caches rendered day sheets in Redis. A nil *SheetCache is a
// no-op so the service works without Redis in development.
type SheetCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSheetCache creates a day-sheet cache. Returns nil when Redis is absent.
func NewSheetCache(client *redis.Client, ttl time.Duration) *SheetCache {
	if client == nil {
		return nil
	}
	return &SheetCache{client: client, ttl: ttl}
}

func sheetKey(studioID uuid.UUID, date string, hours int) string {
	return fmt.Sprintf("availability:%s:%s:%d", studioID, date, hours)
}

// Get returns a cached sheet or nil on miss
func (c *SheetCache) Get(ctx context.Context, studioID uuid.UUID, date string, hours int) *DaySheet {
	if c == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, sheetKey(studioID, date, hours)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("Availability cache read failed")
		}
		return nil
	}

	var sheet DaySheet
	if err := json.Unmarshal(raw, &sheet); err != nil {
		return nil
	}
	return &sheet
}

// Set stores a sheet for the configured TTL
func (c *SheetCache) Set(ctx context.Context, sheet *DaySheet) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(sheet)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, sheetKey(sheet.StudioID, sheet.Date, sheet.Hours), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Availability cache write failed")
	}
}

// InvalidateDay drops every cached sheet for the studio's day, across all
// session lengths. Implements booking.AvailabilityInvalidator.
func (c *SheetCache) InvalidateDay(ctx context.Context, studioID uuid.UUID, day time.Time) {
	if c == nil {
		return
	}

	pattern := fmt.Sprintf("availability:%s:%s:*", studioID, day.Format("2006-01-02"))
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("Availability cache scan failed")
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			log.Warn().Err(err).Msg("Availability cache invalidation failed")
		}
	}
}
