package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketReco/domain"

	"github.com/redis/go-redis/v9"
)

const trendingKey = "reco:trending:v2"

type trendingEntry struct {
	Sales    []domain.ProductSales `json:"sales"`
	CachedAt time.Time             `json:"cached_at"`
}

// TrendingCache keeps the sales ranking between aggregations. Product rows are not
// cached; callers reload them so deletions take effect immediately.
type TrendingCache struct {
	client *redis.Client
	key    string
}

func NewTrendingCache(client *redis.Client) *TrendingCache {
	return &TrendingCache{
		client: client,
		key:    trendingKey,
	}
}

// GetTrending reports false when nothing is cached or the entry expired.
func (c *TrendingCache) GetTrending(ctx context.Context) ([]domain.ProductSales, bool, error) {
	val, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get trending from Redis: %w", err)
	}

	sales, err := decodeTrending(val)
	if err != nil {
		return nil, false, err
	}
	return sales, true, nil
}

func (c *TrendingCache) SetTrending(ctx context.Context, sales []domain.ProductSales, ttl time.Duration) error {
	data, err := encodeTrending(sales, time.Now())
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, c.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store trending in Redis: %w", err)
	}
	return nil
}

func encodeTrending(sales []domain.ProductSales, now time.Time) ([]byte, error) {
	data, err := json.Marshal(trendingEntry{Sales: sales, CachedAt: now.UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trending sales: %w", err)
	}
	return data, nil
}

func decodeTrending(data []byte) ([]domain.ProductSales, error) {
	var entry trendingEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trending sales: %w", err)
	}
	return entry.Sales, nil
}
