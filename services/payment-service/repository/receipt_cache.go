package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/redis/go-redis/v9"
)

const receiptKeyPrefix = "payment:receipt:"

// ReceiptCache maps a caller-supplied receipt to the order already created for it,
// so a resubmitted create-order does not open a second gateway order.
type ReceiptCache interface {
	Get(ctx context.Context, receipt string) (*models.PaymentOrder, error)
	Put(ctx context.Context, order *models.PaymentOrder) error
}

type RedisReceiptCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReceiptCache(client *redis.Client, ttl time.Duration) *RedisReceiptCache {
	return &RedisReceiptCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Get returns (nil, nil) on a miss.
func (c *RedisReceiptCache) Get(ctx context.Context, receipt string) (*models.PaymentOrder, error) {
	raw, err := c.client.Get(ctx, receiptKeyPrefix+receipt).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var order models.PaymentOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("corrupt cached order for receipt %s: %w", receipt, err)
	}
	return &order, nil
}

func (c *RedisReceiptCache) Put(ctx context.Context, order *models.PaymentOrder) error {
	b, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, receiptKeyPrefix+order.Receipt, b, c.ttl).Err()
}
