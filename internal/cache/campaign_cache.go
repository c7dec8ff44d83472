package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"sodtech/internal/models"
)

const activeCampaignsKey = "campaigns:active"

// CampaignCache is a read-through cache for the public active-campaign list,
// the hottest read path. A nil cache is valid and simply misses every lookup,
// so the service layer works unchanged without a redis.
type CampaignCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCampaignCache creates a cache backed by the given redis client
func NewCampaignCache(rdb *redis.Client, ttl time.Duration) *CampaignCache {
	return &CampaignCache{rdb: rdb, ttl: ttl}
}

// GetActiveCampaigns returns the cached list and whether it was present
func (c *CampaignCache) GetActiveCampaigns(ctx context.Context) ([]models.Campaign, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, activeCampaignsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Cache] Failed to read active campaigns: %v", err)
		}
		return nil, false
	}

	var campaigns []models.Campaign
	if err := json.Unmarshal(data, &campaigns); err != nil {
		log.Printf("[Cache] Corrupt active-campaign entry, dropping: %v", err)
		c.Invalidate(ctx)
		return nil, false
	}

	return campaigns, true
}

// SetActiveCampaigns stores the list for the cache TTL
func (c *CampaignCache) SetActiveCampaigns(ctx context.Context, campaigns []models.Campaign) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(campaigns)
	if err != nil {
		log.Printf("[Cache] Failed to marshal active campaigns: %v", err)
		return
	}

	if err := c.rdb.Set(ctx, activeCampaignsKey, data, c.ttl).Err(); err != nil {
		log.Printf("[Cache] Failed to store active campaigns: %v", err)
	}
}

// Invalidate drops the cached list, e.g. after a campaign is created or its
// counters change.
func (c *CampaignCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}

	if err := c.rdb.Del(ctx, activeCampaignsKey).Err(); err != nil {
		log.Printf("[Cache] Failed to invalidate active campaigns: %v", err)
	}
}
