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

type TransactionRepository struct {
	collection *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{collection: db.Collection("transactions")}
}

func (r *TransactionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) Find(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error) {
	query := bson.M{}
	if filter.CashierID != nil {
		query["cashier_id"] = *filter.CashierID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.From != nil || filter.To != nil {
		created := bson.M{}
		if filter.From != nil {
			created["$gte"] = *filter.From
		}
		if filter.To != nil {
			created["$lt"] = *filter.To
		}
		query["created_at"] = created
	}

	findOptions := options.Find().
		SetLimit(int64(filter.Limit)).
		SetSkip(int64(filter.Skip)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	tx.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, tx)
	return err
}

// MarkRefunded flips a completed transaction to refunded. Refunding twice
// matches nothing and returns ErrNoDocuments.
func (r *TransactionRepository) MarkRefunded(ctx context.Context, id primitive.ObjectID, by, reason string) error {
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.TxStatusCompleted},
		bson.M{"$set": bson.M{
			"status":        models.TxStatusRefunded,
			"refunded_by":   by,
			"refund_reason": reason,
			"refunded_at":   now,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Summarize rolls completed transactions in [from, to) into one summary row.
func (r *TransactionRepository) Summarize(ctx context.Context, from, to time.Time, cashierID *primitive.ObjectID) (*DaySummary, error) {
	match := bson.M{
		"status":     models.TxStatusCompleted,
		"created_at": bson.M{"$gte": from, "$lt": to},
	}
	if cashierID != nil {
		match["cashier_id"] = *cashierID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"transaction_count": bson.M{"$sum": 1},
			"revenue":           bson.M{"$sum": "$total"},
			"net_sales":         bson.M{"$sum": "$net_sales"},
			"vat_collected":     bson.M{"$sum": "$vat_amount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []DaySummary
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &DaySummary{}, nil
	}
	return &results[0], nil
}

// TopProducts returns the best-selling products by quantity in [from, to).
func (r *TransactionRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":     models.TxStatusCompleted,
			"created_at": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$items.product_id",
			"name":     bson.M{"$first": "$items.name"},
			"quantity": bson.M{"$sum": "$items.quantity"},
			"revenue":  bson.M{"$sum": "$items.final_price"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "quantity", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []TopProduct
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
