package services_test

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/repository"
)

// --- Fake emitter ---

type emitted struct {
	target string
	event  string
	data   interface{}
}

type fakeEmitter struct {
	calls []emitted
}

func (f *fakeEmitter) EmitToRole(role, event string, data interface{}) {
	f.calls = append(f.calls, emitted{"role:" + role, event, data})
}

func (f *fakeEmitter) EmitToUser(userID, event string, data interface{}) {
	f.calls = append(f.calls, emitted{"user:" + userID, event, data})
}

func (f *fakeEmitter) EmitToAll(event string, data interface{}) {
	f.calls = append(f.calls, emitted{"all", event, data})
}

func (f *fakeEmitter) HasConnectedClients() bool { return true }

func (f *fakeEmitter) events() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.event
	}
	return out
}

func (f *fakeEmitter) targets() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.target
	}
	return out
}

// --- Mock user repository ---

type mockUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) Find(_ context.Context, status string, limit, skip int) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range m.users {
		if u.DeletedAt != nil {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now().UTC()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return mongo.ErrNoDocuments
	}
	if status, ok := updates["status"].(string); ok {
		u.Status = status
	}
	if by, ok := updates["approved_by"].(string); ok {
		u.ApprovedBy = by
	}
	if last, ok := updates["last_login"].(time.Time); ok {
		u.LastLogin = &last
	}
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return mongo.ErrNoDocuments
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	return nil
}

func (m *mockUserRepo) CountPending(_ context.Context) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.DeletedAt == nil && u.Status == models.StatusPending {
			count++
		}
	}
	return count, nil
}

// --- Mock product repository ---

type mockProductRepo struct {
	products map[primitive.ObjectID]*models.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*models.Product)}
}

func (m *mockProductRepo) add(p models.Product) primitive.ObjectID {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.LowStockThreshold == 0 {
		p.LowStockThreshold = models.DefaultLowStockThreshold
	}
	m.products[p.ID] = &p
	return p.ID
}

func (m *mockProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) Find(_ context.Context, search string, category *primitive.ObjectID, limit, skip int) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range m.products {
		if p.DeletedAt == nil {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockProductRepo) FindLowStock(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		if p.DeletedAt == nil && p.LowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Create(_ context.Context, product *models.Product) error {
	product.ID = m.add(*product)
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	p, ok := m.products[id]
	if !ok || p.DeletedAt != nil {
		return mongo.ErrNoDocuments
	}
	if stock, ok := updates["stock"].(int); ok {
		p.Stock = stock
	}
	if name, ok := updates["name"].(string); ok {
		p.Name = name
	}
	return nil
}

func (m *mockProductRepo) AdjustStock(_ context.Context, id primitive.ObjectID, delta int) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	if p.Stock+delta < 0 {
		return nil, mongo.ErrNoDocuments
	}
	p.Stock += delta
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	p, ok := m.products[id]
	if !ok || p.DeletedAt != nil {
		return mongo.ErrNoDocuments
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	return nil
}

// --- Mock category repository ---

type mockCategoryRepo struct {
	categories map[primitive.ObjectID]*models.Category
	inUse      map[primitive.ObjectID]bool
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{
		categories: make(map[primitive.ObjectID]*models.Category),
		inUse:      make(map[primitive.ObjectID]bool),
	}
}

func (m *mockCategoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *c
	return &cp, nil
}

func (m *mockCategoryRepo) FindAll(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCategoryRepo) Create(_ context.Context, category *models.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	cp := *category
	m.categories[category.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	if _, ok := m.categories[id]; !ok {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.categories[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) HasProducts(_ context.Context, categoryID primitive.ObjectID) (bool, error) {
	return m.inUse[categoryID], nil
}

// --- Mock transaction repository ---

type mockTxRepo struct {
	txs map[primitive.ObjectID]*models.Transaction
}

func newMockTxRepo() *mockTxRepo {
	return &mockTxRepo{txs: make(map[primitive.ObjectID]*models.Transaction)}
}

func (m *mockTxRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	tx, ok := m.txs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *tx
	return &cp, nil
}

func (m *mockTxRepo) Find(_ context.Context, filter repository.TransactionFilter) ([]models.Transaction, int64, error) {
	var out []models.Transaction
	for _, tx := range m.txs {
		if filter.CashierID != nil && tx.CashierID != *filter.CashierID {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

func (m *mockTxRepo) Create(_ context.Context, tx *models.Transaction) error {
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	tx.CreatedAt = time.Now().UTC()
	cp := *tx
	m.txs[tx.ID] = &cp
	return nil
}

func (m *mockTxRepo) MarkRefunded(_ context.Context, id primitive.ObjectID, by, reason string) error {
	tx, ok := m.txs[id]
	if !ok || tx.Status != models.TxStatusCompleted {
		return mongo.ErrNoDocuments
	}
	now := time.Now().UTC()
	tx.Status = models.TxStatusRefunded
	tx.RefundedBy = by
	tx.RefundReason = reason
	tx.RefundedAt = &now
	return nil
}

func (m *mockTxRepo) Summarize(_ context.Context, from, to time.Time, cashierID *primitive.ObjectID) (*repository.DaySummary, error) {
	summary := &repository.DaySummary{}
	for _, tx := range m.txs {
		if tx.Status != models.TxStatusCompleted {
			continue
		}
		if cashierID != nil && tx.CashierID != *cashierID {
			continue
		}
		if tx.CreatedAt.Before(from) || !tx.CreatedAt.Before(to) {
			continue
		}
		summary.TransactionCount++
		summary.Revenue += tx.Total
		summary.NetSales += tx.NetSales
		summary.VATCollected += tx.VATAmount
	}
	return summary, nil
}

func (m *mockTxRepo) TopProducts(_ context.Context, from, to time.Time, limit int) ([]repository.TopProduct, error) {
	return nil, nil
}

// --- Fake security / maintenance store ---

type fakeSystemStore struct {
	failures    map[string]int64
	revoked     map[string]bool
	maintenance bool
}

func newFakeSystemStore() *fakeSystemStore {
	return &fakeSystemStore{
		failures: make(map[string]int64),
		revoked:  make(map[string]bool),
	}
}

func (f *fakeSystemStore) RecordLoginFailure(_ context.Context, username string) (int64, error) {
	f.failures[username]++
	return f.failures[username], nil
}

func (f *fakeSystemStore) ClearLoginFailures(_ context.Context, username string) error {
	delete(f.failures, username)
	return nil
}

func (f *fakeSystemStore) RevokeSession(_ context.Context, tokenID string, _ time.Time) error {
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeSystemStore) SessionRevoked(_ context.Context, tokenID string) (bool, error) {
	return f.revoked[tokenID], nil
}

func (f *fakeSystemStore) MaintenanceEnabled(_ context.Context) (bool, error) {
	return f.maintenance, nil
}

func (f *fakeSystemStore) SetMaintenance(_ context.Context, enabled bool) error {
	f.maintenance = enabled
	return nil
}

// --- Fake audit publisher ---

type fakeAudit struct {
	events []models.AuditEvent
}

func (f *fakeAudit) Publish(_ context.Context, event models.AuditEvent) error {
	f.events = append(f.events, event)
	return nil
}
