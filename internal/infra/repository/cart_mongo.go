package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cartLineDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ProductID string    `bson:"product_id"`
	Quantity  int64     `bson:"quantity"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d cartLineDocument) toModel() model.CartLine {
	return model.CartLine{
		ID:        d.ID,
		UserID:    d.UserID,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		CreatedAt: d.CreatedAt,
	}
}

type CartMongoRepository struct {
	collection *mongo.Collection
}

// DI
func NewCartMongoRepository(db *mongo.Database) *CartMongoRepository {
	return &CartMongoRepository{collection: db.Collection(cartLinesCollection)}
}

func (r *CartMongoRepository) Insert(ctx context.Context, line model.CartLine) error {
	doc := cartLineDocument{
		ID:        line.ID,
		UserID:    line.UserID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		CreatedAt: line.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *CartMongoRepository) UpdateQuantity(ctx context.Context, lineID string, qty int64) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": lineID},
		bson.M{"$set": bson.M{"quantity": qty}},
	)
	if err != nil {
		return err
	}
	// 同じ数量での更新は Modified=0 になるので Matched で判定
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartMongoRepository) DeleteByID(ctx context.Context, userID string, lineID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": lineID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartMongoRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *CartMongoRepository) FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.CartLine, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "product_id": productID})
}

func (r *CartMongoRepository) FindByID(ctx context.Context, userID string, lineID string) (model.CartLine, error) {
	return r.findOne(ctx, bson.M{"_id": lineID, "user_id": userID})
}

func (r *CartMongoRepository) findOne(ctx context.Context, filter bson.M) (model.CartLine, error) {
	var doc cartLineDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if isMongoNoDocuments(err) {
		return model.CartLine{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartLine{}, err
	}
	return doc.toModel(), nil
}

func (r *CartMongoRepository) ListByUser(ctx context.Context, userID string) ([]model.CartLine, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return []model.CartLine{}, err
	}
	defer cur.Close(ctx)

	var docs []cartLineDocument
	if err := cur.All(ctx, &docs); err != nil {
		return []model.CartLine{}, err
	}

	lines := make([]model.CartLine, 0, len(docs))
	for _, d := range docs {
		lines = append(lines, d.toModel())
	}
	return lines, nil
}
