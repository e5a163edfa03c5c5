package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

const (
	featuredKey = "listings:featured"
	featuredTTL = 5 * time.Minute
)

// ListingCache keeps the featured-listings query result warm. Any listing
// write invalidates it; a stale entry can outlive a mutation by at most
// the TTL.
type ListingCache struct {
	client *redis.Client
}

func NewListingCache(client *redis.Client) *ListingCache {
	return &ListingCache{client: client}
}

// GetFeatured returns (nil, nil) on a cache miss.
func (c *ListingCache) GetFeatured(ctx context.Context) ([]*entity.Listing, error) {
	data, err := c.client.Get(ctx, featuredKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listings []*entity.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *ListingCache) SetFeatured(ctx context.Context, listings []*entity.Listing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, featuredKey, data, featuredTTL).Err()
}

func (c *ListingCache) InvalidateFeatured(ctx context.Context) error {
	return c.client.Del(ctx, featuredKey).Err()
}
