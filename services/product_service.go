package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/notifications"
	"github.com/grocerly/pos-backend/repository"
)

var ErrInvalidCategory = errors.New("category does not exist")

type ProductService struct {
	products   repository.ProductRepo
	categories repository.CategoryRepo
	notifier   *notifications.Notifier
}

func NewProductService(products repository.ProductRepo, categories repository.CategoryRepo, notifier *notifications.Notifier) *ProductService {
	return &ProductService{products: products, categories: categories, notifier: notifier}
}

func (s *ProductService) List(ctx context.Context, search string, category *primitive.ObjectID, limit, skip int) ([]models.Product, int64, error) {
	return s.products.Find(ctx, search, category, limit, skip)
}

func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, req models.ProductCreateRequest) (*models.Product, error) {
	product := &models.Product{
		Name:              req.Name,
		Barcode:           req.Barcode,
		Price:             req.Price,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		IsDiscountable:    req.IsDiscountable,
		IsVATExemptable:   req.IsVATExemptable,
	}
	if req.Category != "" {
		catID, err := primitive.ObjectIDFromHex(req.Category)
		if err != nil {
			return nil, ErrInvalidCategory
		}
		if _, err := s.categories.FindByID(ctx, catID); err != nil {
			return nil, ErrInvalidCategory
		}
		product.Category = &catID
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies field updates and raises a low-stock alert if a stock edit
// landed at or below the threshold.
func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	if cat, ok := updates["category"]; ok {
		catHex, _ := cat.(string)
		catID, err := primitive.ObjectIDFromHex(catHex)
		if err != nil {
			return nil, ErrInvalidCategory
		}
		if _, err := s.categories.FindByID(ctx, catID); err != nil {
			return nil, ErrInvalidCategory
		}
		updates["category"] = catID
	}
	if err := s.products.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, touchedStock := updates["stock"]; touchedStock && product.LowStock() {
		s.notifier.NotifyLowStock([]notifications.LowStockProduct{lowStockOf(product)})
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.products.Delete(ctx, id)
}

// LowStock lists every product currently at or below threshold.
func (s *ProductService) LowStock(ctx context.Context) ([]models.Product, error) {
	return s.products.FindLowStock(ctx)
}

func lowStockOf(p *models.Product) notifications.LowStockProduct {
	threshold := p.LowStockThreshold
	if threshold <= 0 {
		threshold = models.DefaultLowStockThreshold
	}
	return notifications.LowStockProduct{
		ProductID: p.ID.Hex(),
		Name:      p.Name,
		Stock:     p.Stock,
		Threshold: threshold,
	}
}
