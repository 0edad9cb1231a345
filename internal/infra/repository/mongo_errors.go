package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cartLinesCollection = "cart_lines"
	productsCollection  = "products"
	usersCollection     = "users"
)

func isMongoNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// EnsureMongoIndexes は一意制約と検索用のインデックスを作る（何度呼んでもよい）
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		cartLinesCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("idx_cart_lines_user_product"),
			},
			{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			},
		},
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("idx_users_email"),
			},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
