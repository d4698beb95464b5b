package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	mongoDefaultDB    = "geosvg"
	mongoCollection   = "artifacts"
	mongoNeverExpires = 100 * 365 * 24 * time.Hour
)

// MongoCache stores entries in a MongoDB collection. Expired documents are
// removed by a TTL index on expires_at and also filtered on read, since the
// TTL monitor only runs about once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// NewMongoCache connects to uri (mongodb:// or mongodb+srv://). The database
// is taken from the URI path and defaults to "geosvg".
func NewMongoCache(ctx context.Context, uri string) (*MongoCache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	err = ping(ctx, func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) })
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	coll := client.Database(mongoDatabase(uri)).Collection(mongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create ttl index: %w", err)
	}
	return &MongoCache{client: client, coll: coll}, nil
}

func mongoDatabase(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return mongoDefaultDB
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db
	}
	return mongoDefaultDB
}

func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.coll.FindOne(ctx, bson.M{
		"_id":        key,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry.Data, true, nil
}

func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = mongoNeverExpires
	}
	entry := mongoEntry{Key: key, Data: data, ExpiresAt: time.Now().Add(ttl)}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	return err
}

func (c *MongoCache) Delete(ctx context.Context, key string) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

var _ Cache = (*MongoCache)(nil)
