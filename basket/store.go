// Package basket keeps shopping baskets in Redis, one JSON document per
// basket id, expiring after a period without updates.
package basket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/models"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=../mocks/mock_basket/mock_store.go -package=mock_basket storefront/basket Store

var ErrInvalidBasket = errors.New("invalid basket")

type Store interface {
	// Get returns the stored basket, or an empty basket with id when none
	// is stored.
	Get(ctx context.Context, id string) (*models.Basket, error)
	// Update overwrites the basket and returns what was stored.
	Update(ctx context.Context, basket *models.Basket) (*models.Basket, error)
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func generateBasketKey(id string) string {
	return fmt.Sprintf("basket:%s", id)
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Basket, error) {
	raw, err := s.client.Get(ctx, generateBasketKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewBasket(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get basket %s: %w", id, err)
	}

	var basket models.Basket
	if err := json.Unmarshal(raw, &basket); err != nil {
		return nil, fmt.Errorf("%w: basket %s: %w", ErrInvalidBasket, id, err)
	}
	if basket.Items == nil {
		basket.Items = []models.BasketItem{}
	}
	return &basket, nil
}

// Update stores the basket and resets its expiry.
func (s *RedisStore) Update(ctx context.Context, basket *models.Basket) (*models.Basket, error) {
	if basket == nil || basket.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidBasket)
	}

	raw, err := json.Marshal(basket)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBasket, err)
	}
	if err := s.client.Set(ctx, generateBasketKey(basket.ID), raw, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to update basket %s: %w", basket.ID, err)
	}
	return s.Get(ctx, basket.ID)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, generateBasketKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete basket %s: %w", id, err)
	}
	return nil
}
