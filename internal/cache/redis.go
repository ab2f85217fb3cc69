package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"

	"github.com/mmynk/youome/internal/models"
)

// DefaultTTL bounds how long a plan may outlive a missed invalidation.
const DefaultTTL = 5 * time.Minute

// Config is the redis configuration
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache implements the Cache interface for redis. Plans are stored as
// JSON under PlanKey with a TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache connects to redis and checks the connection.
func NewRedisCache(ctx context.Context, config Config) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Addr, err)
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

// Close closes the redis client.
func (r *RedisCache) Close() error {
	return r.rdb.Close()
}

// GetPlan reads and decodes the plan for scope.
func (r *RedisCache) GetPlan(ctx context.Context, scope models.Scope) ([]models.Transfer, bool, error) {
	val, err := r.rdb.Get(ctx, PlanKey(scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read plan from redis: %w", err)
	}

	var plan []models.Transfer
	if err := json.Unmarshal(val, &plan); err != nil {
		return nil, false, fmt.Errorf("unable to decode plan from cache: %w", err)
	}
	return plan, true, nil
}

// SetPlan writes the plan for scope with the configured TTL.
func (r *RedisCache) SetPlan(ctx context.Context, scope models.Scope, plan []models.Transfer) error {
	if plan == nil {
		plan = []models.Transfer{}
	}
	value, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("unable to encode plan: %w", err)
	}
	if err := r.rdb.Set(ctx, PlanKey(scope), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write plan to redis: %w", err)
	}
	return nil
}

// Invalidate deletes the plans of the given scopes.
func (r *RedisCache) Invalidate(ctx context.Context, scopes ...models.Scope) error {
	if len(scopes) == 0 {
		return nil
	}
	keys := make([]string, len(scopes))
	for i, scope := range scopes {
		keys[i] = PlanKey(scope)
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate plans: %w", err)
	}
	return nil
}
