package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	RecipeCollection  *mongo.Collection
	UserCollection    *mongo.Collection
	ProductCollection *mongo.Collection

	Client *mongo.Client
)

// Init wires the package-level collection handles to the given client.
func Init(client *mongo.Client, database string) {
	Client = client
	d := client.Database(database)
	RecipeCollection = d.Collection("recipes")
	UserCollection = d.Collection("users")
	ProductCollection = d.Collection("products")
}

// EnsureIndexes creates the indexes the query paths rely on. Safe to call on
// every startup; MongoDB treats an existing identical index as a no-op.
func EnsureIndexes(ctx context.Context) error {
	_, err := RecipeCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = UserCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "nutritionistId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	})
	return err
}

func OptionsLatest(limit int64) *options.FindOptions {
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}

// Timeout bounds a single storage round trip.
func Timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 10*time.Second)
}
