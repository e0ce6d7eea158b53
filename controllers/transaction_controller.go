package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/middleware"
	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/repository"
	"github.com/grocerly/pos-backend/services"
)

// TransactionController handles checkout, listing and refunds.
type TransactionController struct {
	txs *services.TransactionService
}

func NewTransactionController(txs *services.TransactionService) *TransactionController {
	return &TransactionController{txs: txs}
}

// Checkout handles POST /api/transactions
func (tc *TransactionController) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cashierID, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	cashierName := c.GetString(middleware.CtxUsername)

	tx, err := tc.txs.Checkout(c.Request.Context(), cashierID, cashierName, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownProduct):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product in cart"})
		case errors.Is(err, services.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			zap.L().Error("checkout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete transaction"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Transaction completed", "transaction": tx})
}

// List handles GET /api/transactions. Cashiers only ever see their own
// transactions regardless of query params.
func (tc *TransactionController) List(c *gin.Context) {
	page, perPage, skip := pagination(c)

	filter := repository.TransactionFilter{
		Status: c.Query("status"),
		Limit:  perPage,
		Skip:   skip,
	}

	if from, ok := parseDateQuery(c, "from"); ok {
		filter.From = from
	} else {
		return
	}
	if to, ok := parseDateQuery(c, "to"); ok {
		filter.To = to
	} else {
		return
	}

	role := c.GetString(middleware.CtxRole)
	if role == models.RoleCashier {
		cashierID, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		filter.CashierID = &cashierID
	} else if hex := c.Query("cashier_id"); hex != "" {
		cashierID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cashier ID"})
			return
		}
		filter.CashierID = &cashierID
	}

	txs, total, err := tc.txs.List(c.Request.Context(), filter)
	if err != nil {
		zap.L().Error("failed to list transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"meta":         paginationMeta(page, perPage, total),
	})
}

// Get handles GET /api/transactions/:id
func (tc *TransactionController) Get(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	tx, err := tc.txs.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		zap.L().Error("failed to fetch transaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transaction"})
		return
	}

	if c.GetString(middleware.CtxRole) == models.RoleCashier &&
		tx.CashierID.Hex() != c.GetString(middleware.CtxUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// Refund handles POST /api/transactions/:id/refund
func (tc *TransactionController) Refund(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	var req models.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	actor := c.GetString(middleware.CtxUsername)
	tx, err := tc.txs.Refund(c.Request.Context(), id, actor, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, services.ErrAlreadyRefunded):
			c.JSON(http.StatusConflict, gin.H{"error": "Transaction already refunded"})
		default:
			zap.L().Error("refund failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refund transaction"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction refunded", "transaction": tx})
}

// parseDateQuery reads an optional RFC3339 or YYYY-MM-DD query param. The
// bool result is false only when the controller already wrote a 400.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date"})
	return nil, false
}
