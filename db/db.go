package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	BlogsCollection = "blogs"
	UsersCollection = "users"
)

// Store owns the single client shared by every request.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
	Blogs  *mongo.Collection
	Users  *mongo.Collection
}

// Connect dials MongoDB with Stable API v1 and pings the deployment.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	database := client.Database(dbName)
	return &Store{
		Client: client,
		DB:     database,
		Blogs:  database.Collection(BlogsCollection),
		Users:  database.Collection(UsersCollection),
	}, nil
}

// EnsureIndexes creates the indexes the handlers rely on. The unique email
// index is what turns a second POST /users for the same address into a
// duplicate-key error.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = s.Blogs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "approved", Value: 1}, {Key: "approvedAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "approvedAt", Value: -1}}},
		{Keys: bson.D{{Key: "author.email", Value: 1}, {Key: "postAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("blogs indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
