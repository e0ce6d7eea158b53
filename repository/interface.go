package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/grocerly/pos-backend/models"
)

// UserRepo defines the user operations the services depend on.
type UserRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Find(ctx context.Context, status string, limit, skip int) ([]models.User, int64, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountPending(ctx context.Context) (int64, error)
}

// ProductRepo defines the product operations the services depend on.
type ProductRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, search string, category *primitive.ObjectID, limit, skip int) ([]models.Product, int64, error)
	FindLowStock(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CategoryRepo defines the category operations the services depend on.
type CategoryRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	HasProducts(ctx context.Context, categoryID primitive.ObjectID) (bool, error)
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	CashierID *primitive.ObjectID
	Status    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Skip      int
}

// DaySummary is the aggregation result backing analytics snapshots.
type DaySummary struct {
	TransactionCount int64   `bson:"transaction_count"`
	Revenue          float64 `bson:"revenue"`
	NetSales         float64 `bson:"net_sales"`
	VATCollected     float64 `bson:"vat_collected"`
}

// TopProduct is one row of the best-sellers aggregation.
type TopProduct struct {
	ProductID primitive.ObjectID `bson:"_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int64              `bson:"quantity" json:"quantity"`
	Revenue   float64            `bson:"revenue" json:"revenue"`
}

// TransactionRepo defines the transaction operations the services depend on.
type TransactionRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error)
	Find(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error)
	Create(ctx context.Context, tx *models.Transaction) error
	MarkRefunded(ctx context.Context, id primitive.ObjectID, by, reason string) error
	Summarize(ctx context.Context, from, to time.Time, cashierID *primitive.ObjectID) (*DaySummary, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)
}
