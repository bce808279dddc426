package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
)

type cartDocument struct {
	SessionID string      `bson:"_id"`
	Cart      domain.Cart `bson:"cart"`
	Version   int64       `bson:"version"`
	UpdatedAt time.Time   `bson:"updated_at"`
}

// MongoStore keeps one cart document per session. Writes carry the cart
// version and replace only older documents, so a write that lost the race
// against a newer snapshot is skipped instead of clobbering it.
type MongoStore struct {
	collection *mongo.Collection
	log        *logrus.Entry
}

func NewMongoStore(db *mongo.Database, log *logrus.Entry) *MongoStore {
	return &MongoStore{
		collection: db.Collection("session_carts"),
		log:        log,
	}
}

func (m *MongoStore) Save(ctx context.Context, sessionID string, cart domain.Cart) error {
	doc := cartDocument{
		SessionID: sessionID,
		Cart:      cart,
		Version:   cart.Version,
		UpdatedAt: time.Now(),
	}

	filter := bson.M{"_id": sessionID, "version": bson.M{"$lt": cart.Version}}
	update := bson.M{"$set": doc}
	_, err := m.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// A newer version is already stored; last write wins by logical
		// timestamp, so this stale snapshot is dropped.
		m.log.WithField("session_id", sessionID).WithField("version", cart.Version).
			Debug("skipping stale cart write")
		return nil
	}
	if err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}
	return nil
}

func (m *MongoStore) Load(ctx context.Context, sessionID string) (domain.Cart, bool, error) {
	res := m.collection.FindOne(ctx, bson.M{"_id": sessionID})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Cart{}, false, nil
		}
		return domain.Cart{}, false, fmt.Errorf("find cart: %w", err)
	}

	var doc cartDocument
	if err := res.Decode(&doc); err != nil {
		// An undecodable document is treated like an absent one: the
		// session starts over with an empty cart instead of being locked
		// out behind a load error.
		m.log.WithError(err).WithField("session_id", sessionID).Warn("discarding undecodable cart document")
		return domain.Cart{}, false, nil
	}
	return doc.Cart, true, nil
}

// EnsureIndexes creates the TTL index that expires abandoned carts.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60),
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// ConnectMongo dials the database used by MongoStore.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client.Database(database), nil
}
