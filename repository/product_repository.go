package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/grocerly/pos-backend/models"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection("products")}
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	filter := notDeleted()
	filter["_id"] = id
	var product models.Product
	err := r.collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Find(ctx context.Context, search string, category *primitive.ObjectID, limit, skip int) ([]models.Product, int64, error) {
	filter := notDeleted()
	if search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"barcode": search},
		}
	}
	if category != nil {
		filter["category"] = *category
	}

	findOptions := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(skip)).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindLowStock returns products at or below their low-stock threshold.
func (r *ProductRepository) FindLowStock(ctx context.Context) ([]models.Product, error) {
	filter := notDeleted()
	filter["$expr"] = bson.M{"$lte": bson.A{"$stock", "$low_stock_threshold"}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.LowStockThreshold <= 0 {
		product.LowStockThreshold = models.DefaultLowStockThreshold
	}
	_, err := r.collection.InsertOne(ctx, product)
	return err
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	filter := notDeleted()
	filter["_id"] = id
	updates["updated_at"] = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M(updates)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AdjustStock atomically increments the stock by delta and returns the
// updated document. A decrement below zero is rejected by the filter so a
// concurrent oversell fails with ErrNoDocuments instead of going negative.
func (r *ProductRepository) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (*models.Product, error) {
	filter := notDeleted()
	filter["_id"] = id
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete performs a soft delete.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := notDeleted()
	filter["_id"] = id
	res, err := r.collection.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"deleted_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
