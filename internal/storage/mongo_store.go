package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig параметры подключения MongoStore
type MongoConfig struct {
	URI        string // mongodb://localhost:27017
	Database   string // nbtview
	Collection string // chunks
}

// MongoStore хранит чанки документами {_id: "region:x:z", region, x, z, data}
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type chunkDocument struct {
	ID        string    `bson:"_id"`
	Region    string    `bson:"region"`
	X         int       `bson:"x"`
	Z         int       `bson:"z"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore подключается к MongoDB и создаёт индекс по региону
func NewMongoStore(cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "nbtview"
	}
	if cfg.Collection == "" {
		cfg.Collection = "chunks"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(3*time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	store := &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}

	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "region", Value: 1}, {Key: "x", Value: 1}, {Key: "z", Value: 1}},
		Options: options.Index().SetName("region_xz"),
	}
	if _, err := store.collection.Indexes().CreateOne(ctx, idx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return store, nil
}

func (s *MongoStore) Load(ctx context.Context, key ChunkKey) ([]byte, error) {
	var doc chunkDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrChunkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo load %s: %w", key, err)
	}
	return doc.Data, nil
}

func (s *MongoStore) Save(ctx context.Context, key ChunkKey, data []byte) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}

	doc := chunkDocument{
		ID:        key.String(),
		Region:    key.Region,
		X:         key.X,
		Z:         key.Z,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo save %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, key ChunkKey) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key.String()}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, region string) ([]ChunkKey, error) {
	opts := options.Find().
		SetProjection(bson.M{"x": 1, "z": 1}).
		SetSort(bson.D{{Key: "x", Value: 1}, {Key: "z", Value: 1}})

	cur, err := s.collection.Find(ctx, bson.M{"region": region}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", region, err)
	}
	defer cur.Close(ctx)

	keys := make([]ChunkKey, 0)
	for cur.Next(ctx) {
		var doc chunkDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo decode: %w", err)
		}
		keys = append(keys, ChunkKey{Region: region, X: doc.X, Z: doc.Z})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", region, err)
	}
	return keys, nil
}

// Close отключается от MongoDB
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop удаляет коллекцию (для тестов)
func (s *MongoStore) Drop(ctx context.Context) error {
	return s.collection.Drop(ctx)
}
