package persist

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logrus.NewEntry(logrus.New())
	return NewRedisStore(client, log), mr
}

func testCart() domain.Cart {
	variant := domain.Variant{Size: "50ml", Price: 550, Stock: 4}
	return domain.Cart{
		Items: []domain.LineItem{
			{
				Product: domain.Product{
					ID:       "prod-1",
					Name:     "Amber Noir",
					Slug:     "amber-noir",
					Price:    450,
					Stock:    10,
					Category: "woody",
					Images:   []string{"amber-noir-1.jpg"},
				},
				Quantity: 2,
				AddedAt:  time.Now().UTC().Truncate(time.Millisecond),
			},
			{
				Product: domain.Product{
					ID:       "prod-2",
					Name:     "Vetiver Sport",
					Price:    900,
					Variants: []domain.Variant{variant},
				},
				Variant:  &variant,
				Quantity: 1,
				AddedAt:  time.Now().UTC().Truncate(time.Millisecond),
			},
		},
		Version:   4,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	want := testCart()
	require.NoError(t, store.Save(ctx, "sess-1", want))

	got, found, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, found)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cart round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisStore_LoadAbsent(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, found, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_LoadCorrupt(t *testing.T) {
	store, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(redisKey("sess-1"), "{not json"))

	cart, found, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, cart.Items)
}

func TestRedisStore_SaveSetsTTL(t *testing.T) {
	store, mr := setupTestRedis(t)

	require.NoError(t, store.Save(context.Background(), "sess-1", testCart()))
	assert.Greater(t, mr.TTL(redisKey("sess-1")), time.Duration(0))
}

func TestRedisStore_OverwriteKeepsLatest(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	first := testCart()
	require.NoError(t, store.Save(ctx, "sess-1", first))

	second := first
	second.Items = first.Items[:1]
	second.Version = first.Version + 1
	require.NoError(t, store.Save(ctx, "sess-1", second))

	raw, err := mr.Get(redisKey("sess-1"))
	require.NoError(t, err)

	var stored domain.Cart
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, second.Version, stored.Version)
	assert.Len(t, stored.Items, 1)
}
