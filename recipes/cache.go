package recipes

import (
	"context"
	"encoding/json"
	"time"

	"sansgluten/models"
	"sansgluten/rdx"
)

// Read-through cache of the public validated listing. Deleted on every recipe
// mutation; the TTL is a backstop.
const (
	listingCacheKey = "recipes:public"
	listingCacheTTL = 5 * time.Minute
)

func cachedListing(ctx context.Context) ([]models.RecipeSummary, bool) {
	if rdx.Conn == nil {
		return nil, false
	}
	val, err := rdx.Conn.Get(ctx, listingCacheKey).Result()
	if err != nil || val == "" {
		return nil, false
	}
	var listing []models.RecipeSummary
	if err := json.Unmarshal([]byte(val), &listing); err != nil {
		return nil, false
	}
	return listing, true
}

func storeListing(ctx context.Context, listing []models.RecipeSummary) {
	if rdx.Conn == nil {
		return
	}
	if jsonBytes, err := json.Marshal(listing); err == nil {
		_ = rdx.Conn.Set(ctx, listingCacheKey, jsonBytes, listingCacheTTL).Err()
	}
}

func invalidateListing(ctx context.Context) {
	if rdx.Conn == nil {
		return
	}
	_ = rdx.Conn.Del(ctx, listingCacheKey).Err()
}
