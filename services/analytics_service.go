package services

import (
	"context"
	"math"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/notifications"
	"github.com/grocerly/pos-backend/repository"
)

// revenueDeltaThreshold is the relative revenue change below which a
// background refresh is not worth pushing to dashboards.
const revenueDeltaThreshold = 0.01

type AnalyticsService struct {
	txs      repository.TransactionRepo
	notifier *notifications.Notifier

	mu   sync.Mutex
	last map[string]notifications.AnalyticsSnapshot
}

func NewAnalyticsService(txs repository.TransactionRepo, notifier *notifications.Notifier) *AnalyticsService {
	return &AnalyticsService{
		txs:      txs,
		notifier: notifier,
		last:     make(map[string]notifications.AnalyticsSnapshot),
	}
}

// Summary computes the sales rollup and best sellers for a date range.
func (s *AnalyticsService) Summary(ctx context.Context, from, to time.Time) (*repository.DaySummary, []repository.TopProduct, error) {
	summary, err := s.txs.Summarize(ctx, from, to, nil)
	if err != nil {
		return nil, nil, err
	}
	top, err := s.txs.TopProducts(ctx, from, to, 5)
	if err != nil {
		return nil, nil, err
	}
	return summary, top, nil
}

// RefreshToday recomputes today's snapshot and pushes it to dashboards when
// it changed significantly: any transaction-count change, or a revenue move
// beyond the threshold. Smoothing keeps background refreshes from flooding
// connected clients with near-identical frames.
func (s *AnalyticsService) RefreshToday(ctx context.Context, cashierID *primitive.ObjectID) {
	from, to := dayBounds(time.Now().UTC())

	snap, err := s.snapshot(ctx, from, to, nil)
	if err != nil {
		zap.L().Warn("failed to compute analytics snapshot", zap.Error(err))
		return
	}
	if s.significant("store", snap) {
		s.notifier.NotifyAnalyticsUpdate(snap)
		s.notifier.NotifyManagerAnalyticsUpdate(snap)
	}

	if cashierID == nil {
		return
	}
	cashierSnap, err := s.snapshot(ctx, from, to, cashierID)
	if err != nil {
		zap.L().Warn("failed to compute cashier snapshot",
			zap.String("cashier_id", cashierID.Hex()), zap.Error(err))
		return
	}
	if s.significant("cashier:"+cashierID.Hex(), cashierSnap) {
		s.notifier.NotifyCashierAnalyticsUpdate(cashierID.Hex(), cashierSnap)
	}
}

func (s *AnalyticsService) snapshot(ctx context.Context, from, to time.Time, cashierID *primitive.ObjectID) (notifications.AnalyticsSnapshot, error) {
	summary, err := s.txs.Summarize(ctx, from, to, cashierID)
	if err != nil {
		return notifications.AnalyticsSnapshot{}, err
	}
	return notifications.AnalyticsSnapshot{
		Date:             from.Format("2006-01-02"),
		TransactionCount: summary.TransactionCount,
		Revenue:          summary.Revenue,
		NetSales:         summary.NetSales,
		VATCollected:     summary.VATCollected,
	}, nil
}

func (s *AnalyticsService) significant(key string, snap notifications.AnalyticsSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, seen := s.last[key]
	if seen && prev.Date == snap.Date &&
		prev.TransactionCount == snap.TransactionCount &&
		relativeDelta(prev.Revenue, snap.Revenue) < revenueDeltaThreshold {
		return false
	}
	s.last[key] = snap
	return true
}

func relativeDelta(prev, cur float64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 1
	}
	return math.Abs(cur-prev) / math.Abs(prev)
}

func dayBounds(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.Add(24 * time.Hour)
}
