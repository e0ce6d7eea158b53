package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/notifications"
	"github.com/grocerly/pos-backend/pricing"
	"github.com/grocerly/pos-backend/repository"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrAlreadyRefunded   = errors.New("transaction already refunded")
)

type TransactionService struct {
	txs       repository.TransactionRepo
	products  repository.ProductRepo
	notifier  *notifications.Notifier
	audit     AuditPublisher
	analytics *AnalyticsService
	vatRate   float64
}

func NewTransactionService(txs repository.TransactionRepo, products repository.ProductRepo, notifier *notifications.Notifier, audit AuditPublisher, analytics *AnalyticsService, vatRate float64) *TransactionService {
	return &TransactionService{
		txs:       txs,
		products:  products,
		notifier:  notifier,
		audit:     audit,
		analytics: analytics,
		vatRate:   vatRate,
	}
}

func newTransactionNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TXN-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// Checkout prices the cart, persists the transaction and decrements stock.
// Discount and VAT-exemption eligibility is copied from each product at this
// moment; the stored line is the receipt of record.
func (s *TransactionService) Checkout(ctx context.Context, cashierID primitive.ObjectID, cashierName string, req models.CheckoutRequest) (*models.Transaction, error) {
	customerType := req.CustomerType
	if customerType == "" {
		customerType = models.CustomerRegular
	}

	items := make([]models.TransactionItem, 0, len(req.Items))
	lines := make([]pricing.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, ErrUnknownProduct
		}
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return nil, ErrUnknownProduct
		}
		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}

		line := pricing.ApplyDiscountAndExemption(pricing.LineItem{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       product.Price,
			IsDiscountable:  product.IsDiscountable,
			IsVATExemptable: product.IsVATExemptable,
		}, customerType)
		lines = append(lines, line)

		items = append(items, models.TransactionItem{
			ProductID:       productID,
			Name:            product.Name,
			Quantity:        item.Quantity,
			UnitPrice:       product.Price,
			IsDiscountable:  product.IsDiscountable,
			IsVATExemptable: product.IsVATExemptable,
			DiscountApplied: line.DiscountApplied,
			VATExempt:       line.VATExempt,
			DiscountAmount:  line.DiscountAmount,
			FinalPrice:      line.FinalPrice,
		})
	}

	totals := pricing.Aggregate(lines, s.vatRate)

	tx := &models.Transaction{
		Number:       newTransactionNumber(),
		CashierID:    cashierID,
		CashierName:  cashierName,
		CustomerType: customerType,
		Items:        items,
		Subtotal:     totals.Subtotal,
		Discount:     totals.Discount,
		Total:        totals.GrandTotal,
		VATAmount:    totals.Breakdown.VATAmount,
		NetSales:     totals.Breakdown.NetSales,
		VATRate:      totals.Breakdown.VATRate,
		Status:       models.TxStatusCompleted,
	}

	lowStock, err := s.decrementStock(ctx, items)
	if err != nil {
		return nil, err
	}

	if err := s.txs.Create(ctx, tx); err != nil {
		s.restoreStock(ctx, items)
		return nil, err
	}

	if len(lowStock) > 0 {
		s.notifier.NotifyLowStock(lowStock)
	}
	if s.audit != nil {
		_ = s.audit.Publish(ctx, models.AuditEvent{
			Event:         models.AuditTransactionCompleted,
			UserID:        cashierID.Hex(),
			TransactionID: tx.ID.Hex(),
			Data: map[string]interface{}{
				"number": tx.Number,
				"total":  tx.Total,
			},
		})
	}
	if s.analytics != nil {
		s.analytics.RefreshToday(ctx, &cashierID)
	}
	return tx, nil
}

// decrementStock applies all decrements, compensating already-applied ones
// if a later line fails so the checkout either takes all stock or none.
func (s *TransactionService) decrementStock(ctx context.Context, items []models.TransactionItem) ([]notifications.LowStockProduct, error) {
	var lowStock []notifications.LowStockProduct
	for i, item := range items {
		product, err := s.products.AdjustStock(ctx, item.ProductID, -item.Quantity)
		if err != nil {
			s.restoreStock(ctx, items[:i])
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, item.Name)
		}
		if product.LowStock() {
			lowStock = append(lowStock, lowStockOf(product))
		}
	}
	return lowStock, nil
}

func (s *TransactionService) restoreStock(ctx context.Context, items []models.TransactionItem) {
	for _, item := range items {
		if _, err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			zap.L().Error("failed to restore stock",
				zap.String("product_id", item.ProductID.Hex()), zap.Error(err))
		}
	}
}

func (s *TransactionService) Get(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	return s.txs.FindByID(ctx, id)
}

func (s *TransactionService) List(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, int64, error) {
	return s.txs.Find(ctx, filter)
}

// Refund reverses a completed transaction: status flip, stock restored,
// notification to the supervising roles and the original cashier.
func (s *TransactionService) Refund(ctx context.Context, id primitive.ObjectID, actor, reason string) (*models.Transaction, error) {
	tx, err := s.txs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status == models.TxStatusRefunded {
		return nil, ErrAlreadyRefunded
	}

	if err := s.txs.MarkRefunded(ctx, id, actor, reason); err != nil {
		return nil, err
	}
	s.restoreStock(ctx, tx.Items)

	tx, err = s.txs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyTransactionRefund(tx)
	if s.audit != nil {
		_ = s.audit.Publish(ctx, models.AuditEvent{
			Event:         models.AuditTransactionRefunded,
			UserID:        tx.CashierID.Hex(),
			TransactionID: tx.ID.Hex(),
			Data: map[string]interface{}{
				"number": tx.Number,
				"total":  tx.Total,
				"by":     actor,
			},
		})
	}
	if s.analytics != nil {
		s.analytics.RefreshToday(ctx, &tx.CashierID)
	}
	return tx, nil
}
