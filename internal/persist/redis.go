// Package persist provides the durable cart backends. Both adapters store
// the full cart snapshot per session and treat absent or corrupt state as
// an empty cart.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
)

// RedisStore keeps one JSON document per session under a TTL. Write
// ordering is guaranteed by the cart store, which persists inside its
// mutation lock.
type RedisStore struct {
	client  *redis.Client
	baseTTL time.Duration
	log     *logrus.Entry
}

func NewRedisStore(client *redis.Client, log *logrus.Entry) *RedisStore {
	return &RedisStore{
		client:  client,
		baseTTL: 90 * 24 * time.Hour,
		log:     log,
	}
}

func (r *RedisStore) Save(ctx context.Context, sessionID string, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Minute
	if err := r.client.Set(ctx, redisKey(sessionID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) (domain.Cart, bool, error) {
	data, err := r.client.Get(ctx, redisKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, false, nil
	}
	if err != nil {
		return domain.Cart{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		// Corrupt payload: start over rather than lock the session out.
		r.log.WithError(err).WithField("session_id", sessionID).Warn("discarding corrupt cart snapshot")
		return domain.Cart{}, false, nil
	}
	return cart, true, nil
}

func redisKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
