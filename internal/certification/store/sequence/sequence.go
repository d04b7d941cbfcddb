// Package sequence allocates the global, year-bucketed credential counter.
// Every backend returns strictly increasing values per year under concurrency;
// the counter is never scoped to a subject.
package sequence

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

type InMemoryCounter struct {
	mu     sync.Mutex
	values map[int]int64
}

func NewInMemoryCounter() *InMemoryCounter {
	return &InMemoryCounter{values: make(map[int]int64)}
}

func (c *InMemoryCounter) Next(_ context.Context, year int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[year]++
	return c.values[year], nil
}

// RedisCounter uses INCR on credential_seq:<year>, which is atomic across
// every process sharing the Redis instance.
type RedisCounter struct {
	client redis.Cmdable
}

func NewRedisCounter(client redis.Cmdable) *RedisCounter {
	return &RedisCounter{client: client}
}

func Key(year int) string {
	return fmt.Sprintf("credential_seq:%d", year)
}

func (c *RedisCounter) Next(ctx context.Context, year int) (int64, error) {
	n, err := c.client.Incr(ctx, Key(year)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment credential sequence: %w", err)
	}
	return n, nil
}

// PostgresCounter keeps one row per year and bumps it with an upsert, so
// row locking serialises concurrent callers.
type PostgresCounter struct {
	db *sql.DB
}

func NewPostgresCounter(db *sql.DB) *PostgresCounter {
	return &PostgresCounter{db: db}
}

func (c *PostgresCounter) Next(ctx context.Context, year int) (int64, error) {
	query := `
		INSERT INTO credential_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = credential_sequences.last_value + 1
		RETURNING last_value
	`
	var n int64
	if err := c.db.QueryRowContext(ctx, query, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("increment credential sequence: %w", err)
	}
	return n, nil
}
