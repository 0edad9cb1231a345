package repository

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 金額は Decimal128 で保存する（float にしない）
type productDocument struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Category    string               `bson:"category"`
	ImageURL    string               `bson:"image_url"`
	Stock       int64                `bson:"stock"`
	CreatedAt   time.Time            `bson:"created_at"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("convert decimal128 %s: %w", v.String(), err)
	}
	return d, nil
}

func newProductDocument(p model.Product) (productDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDocument{}, err
	}
	return productDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}, nil
}

func (d productDocument) toModel() (model.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return model.Product{}, err
	}
	return model.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Category:    d.Category,
		ImageURL:    d.ImageURL,
		Stock:       d.Stock,
		CreatedAt:   d.CreatedAt,
	}, nil
}

type ProductMongoRepository struct {
	collection *mongo.Collection
}

// DI
func NewProductMongoRepository(db *mongo.Database) *ProductMongoRepository {
	return &ProductMongoRepository{collection: db.Collection(productsCollection)}
}

// 一覧の絞り込み条件
func productFilter(q repo.ProductListQuery) (bson.M, error) {
	filter := bson.M{}

	if q.Category != "" {
		filter["category"] = q.Category
	}

	price := bson.M{}
	if q.MinPrice != nil {
		v, err := toDecimal128(*q.MinPrice)
		if err != nil {
			return nil, err
		}
		price["$gte"] = v
	}
	if q.MaxPrice != nil {
		v, err := toDecimal128(*q.MaxPrice)
		if err != nil {
			return nil, err
		}
		price["$lte"] = v
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	// 部分一致・大文字小文字を区別しない
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}

	return filter, nil
}

func (r *ProductMongoRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	filter, err := productFilter(q)
	if err != nil {
		return []model.Product{}, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return []model.Product{}, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	products, err := r.find(ctx, filter, opts)
	if err != nil {
		return []model.Product{}, 0, err
	}
	return products, total, nil
}

func (r *ProductMongoRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]model.Product, error) {
	cur, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductMongoRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var doc productDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if isMongoNoDocuments(err) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return doc.toModel()
}

func (r *ProductMongoRepository) FindByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	out := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	products, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductMongoRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return []string{}, err
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

type categoryStatDocument struct {
	Category string               `bson:"_id"`
	Count    int64                `bson:"count"`
	MinPrice primitive.Decimal128 `bson:"min_price"`
	MaxPrice primitive.Decimal128 `bson:"max_price"`
}

func (r *ProductMongoRepository) CategoryStats(ctx context.Context) ([]model.CategoryStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "min_price", Value: bson.D{{Key: "$min", Value: "$price"}}},
			{Key: "max_price", Value: bson.D{{Key: "$max", Value: "$price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cur, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return []model.CategoryStat{}, err
	}
	defer cur.Close(ctx)

	var docs []categoryStatDocument
	if err := cur.All(ctx, &docs); err != nil {
		return []model.CategoryStat{}, err
	}

	stats := make([]model.CategoryStat, 0, len(docs))
	for _, d := range docs {
		minPrice, err := fromDecimal128(d.MinPrice)
		if err != nil {
			return []model.CategoryStat{}, err
		}
		maxPrice, err := fromDecimal128(d.MaxPrice)
		if err != nil {
			return []model.CategoryStat{}, err
		}
		stats = append(stats, model.CategoryStat{
			Category: d.Category,
			Count:    d.Count,
			MinPrice: minPrice,
			MaxPrice: maxPrice,
		})
	}
	return stats, nil
}

func (r *ProductMongoRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *ProductMongoRepository) CreateBulk(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(products))
	for _, p := range products {
		doc, err := newProductDocument(p)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}
