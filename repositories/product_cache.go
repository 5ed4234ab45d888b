package repositories

import (
	"cart-app/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type ProductCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, prefix string, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ProductCache) key(id int) string {
	return fmt.Sprintf("%sproduct:%d", c.prefix, id)
}

// Get reports a miss as (nil, nil).
func (c *ProductCache) Get(ctx context.Context, id int) (*models.Product, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p models.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *ProductCache) Set(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(p.ID), data, c.ttl).Err()
}

func (c *ProductCache) Invalidate(ctx context.Context, id int) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
