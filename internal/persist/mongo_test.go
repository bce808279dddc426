package persist

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
)

func setupTestMongo(t *testing.T) *MongoStore {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongo(ctx, uri, "storefront_test")
	require.NoError(t, err)

	store := NewMongoStore(db, logrus.NewEntry(logrus.New()))
	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestMongoStore_RoundTrip(t *testing.T) {
	store := setupTestMongo(t)
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

func TestMongoStore_LoadAbsent(t *testing.T) {
	store := setupTestMongo(t)

	_, found, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMongoStore_LoadUndecodableDocument(t *testing.T) {
	store := setupTestMongo(t)
	ctx := context.Background()

	// A document whose shape drifted decodes into nothing useful; it must
	// read back as an absent cart, not as a load error.
	_, err := store.collection.InsertOne(ctx, bson.M{
		"_id":     "sess-1",
		"cart":    "not a cart",
		"version": "not a number",
	})
	require.NoError(t, err)

	_, found, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMongoStore_StaleWriteSkipped(t *testing.T) {
	store := setupTestMongo(t)
	ctx := context.Background()

	newer := testCart()
	newer.Version = 7
	require.NoError(t, store.Save(ctx, "sess-1", newer))

	stale := testCart()
	stale.Version = 3
	stale.Items = nil
	// A stale in-flight write must not clobber the newer snapshot.
	require.NoError(t, store.Save(ctx, "sess-1", stale))

	got, found, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(7), got.Version)
	assert.Len(t, got.Items, 2)
}

func TestMongoStore_NewerWriteWins(t *testing.T) {
	store := setupTestMongo(t)
	ctx := context.Background()

	first := testCart()
	first.Version = 1
	require.NoError(t, store.Save(ctx, "sess-1", first))

	second := testCart()
	second.Version = 2
	second.Items = second.Items[:1]
	require.NoError(t, store.Save(ctx, "sess-1", second))

	got, _, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Len(t, got.Items, 1)
}
