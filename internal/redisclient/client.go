package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"kiosk-service/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func inventoryKey(productID int64) string {
	return fmt.Sprintf("inventory:%d", productID)
}

func saleKey(transactionID int64) string {
	return fmt.Sprintf("sale:%d", transactionID)
}

// PutProducts writes name, price and stock for every product in one pipeline
func (c *Client) PutProducts(ctx context.Context, products []models.Product) error {
	pipe := c.rdb.TxPipeline()
	for _, p := range products {
		pipe.HSet(ctx, inventoryKey(p.ID),
			"name", p.Name,
			"price", p.Price.StringFixed(2),
			"stock", p.Stock)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// SetStock updates the mirrored stock count of one product
func (c *Client) SetStock(ctx context.Context, productID int64, stock int) error {
	return c.rdb.HSet(ctx, inventoryKey(productID), "stock", stock).Err()
}

// GetStock retrieves the mirrored stock count
func (c *Client) GetStock(ctx context.Context, productID int64) (int, error) {
	val, err := c.rdb.HGet(ctx, inventoryKey(productID), "stock").Result()
	if err == redis.Nil {
		return 0, fmt.Errorf("inventory not found for product %d", productID)
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

// MarkSale records a completed transaction. It returns false when the
// transaction was already marked.
func (c *Client) MarkSale(ctx context.Context, transactionID int64, total string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, saleKey(transactionID), total, ttl).Result()
}

// IsSaleMarked checks if a sale marker exists
func (c *Client) IsSaleMarked(ctx context.Context, transactionID int64) (bool, error) {
	n, err := c.rdb.Exists(ctx, saleKey(transactionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
