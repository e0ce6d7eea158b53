package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/notifications"
	"github.com/grocerly/pos-backend/services"
)

func seedTx(txs *mockTxRepo, cashier primitive.ObjectID, total float64) {
	txs.Create(context.Background(), &models.Transaction{
		CashierID: cashier,
		Total:     total,
		NetSales:  total / 1.12,
		VATAmount: total - total/1.12,
		Status:    models.TxStatusCompleted,
	})
}

func TestRefreshPushesFirstSnapshot(t *testing.T) {
	txs := newMockTxRepo()
	emitter := &fakeEmitter{}
	svc := services.NewAnalyticsService(txs, notifications.New(emitter))
	cashier := primitive.NewObjectID()
	seedTx(txs, cashier, 112)

	svc.RefreshToday(context.Background(), &cashier)

	assert.Contains(t, emitter.events(), notifications.EventAnalytics)
	assert.Contains(t, emitter.events(), notifications.EventManagerAnalytics)
	assert.Contains(t, emitter.events(), notifications.EventCashierAnalytics)
}

func TestRefreshSuppressesInsignificantChange(t *testing.T) {
	txs := newMockTxRepo()
	emitter := &fakeEmitter{}
	svc := services.NewAnalyticsService(txs, notifications.New(emitter))
	seedTx(txs, primitive.NewObjectID(), 112)

	svc.RefreshToday(context.Background(), nil)
	first := len(emitter.calls)
	require.Greater(t, first, 0)

	// nothing changed: no new frames
	svc.RefreshToday(context.Background(), nil)
	assert.Len(t, emitter.calls, first)
}

func TestRefreshPushesOnNewTransaction(t *testing.T) {
	txs := newMockTxRepo()
	emitter := &fakeEmitter{}
	svc := services.NewAnalyticsService(txs, notifications.New(emitter))
	seedTx(txs, primitive.NewObjectID(), 112)

	svc.RefreshToday(context.Background(), nil)
	first := len(emitter.calls)

	seedTx(txs, primitive.NewObjectID(), 56)
	svc.RefreshToday(context.Background(), nil)
	assert.Greater(t, len(emitter.calls), first)
}

func TestSummaryRollsUpCompletedOnly(t *testing.T) {
	txs := newMockTxRepo()
	svc := services.NewAnalyticsService(txs, notifications.New(&fakeEmitter{}))
	cashier := primitive.NewObjectID()
	seedTx(txs, cashier, 112)
	seedTx(txs, cashier, 224)
	txs.Create(context.Background(), &models.Transaction{
		CashierID: cashier, Total: 999, Status: models.TxStatusRefunded,
	})

	now := time.Now().UTC()
	summary, _, err := svc.Summary(context.Background(),
		now.Add(-time.Hour), now.Add(time.Hour))

	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.TransactionCount)
	assert.Equal(t, 336.0, summary.Revenue)
}
