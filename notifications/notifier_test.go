package notifications_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/notifications"
)

type emitted struct {
	target string // "role:<r>", "user:<id>" or "all"
	event  string
	data   interface{}
}

type fakeEmitter struct {
	calls     []emitted
	connected bool
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

func (f *fakeEmitter) HasConnectedClients() bool { return f.connected }

func (f *fakeEmitter) targets() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.target
	}
	return out
}

func TestUninitializedNotifierDoesNotPanic(t *testing.T) {
	n := notifications.Default()

	assert.NotPanics(t, func() {
		n.NotifyMaintenanceMode(true, "admin")
		n.NotifySessionTerminated("u1", "test")
		n.NotifyLowStock([]notifications.LowStockProduct{{Name: "Milk"}})
	})
	assert.False(t, n.HasConnectedClients())
}

func TestTransactionRefundAudience(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	cashier := primitive.NewObjectID()
	n.NotifyTransactionRefund(&models.Transaction{
		Number:      "TXN-0042",
		CashierID:   cashier,
		CashierName: "Ana",
		Total:       250,
		RefundedBy:  "manager1",
	})

	require.Len(t, f.calls, 3)
	assert.ElementsMatch(t, []string{
		"role:manager",
		"role:superadmin",
		"user:" + cashier.Hex(),
	}, f.targets())
	for _, c := range f.calls {
		assert.Equal(t, notifications.EventNotification, c.event)
		payload := c.data.(notifications.RefundEvent)
		assert.Equal(t, "Transaction TXN-0042 has been refunded", payload.Message)
		assert.NotEmpty(t, payload.Timestamp)
	}
}

func TestSecurityAlertAudience(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifySecurityAlert(notifications.SecurityAlert{
		Type:    notifications.TypeSecurityAlert,
		Message: "5 failed login attempts",
	})

	assert.Equal(t, []string{"role:manager", "role:superadmin"}, f.targets())
}

func TestSecurityAlertSessionTerminatedIncludesUser(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifySecurityAlert(notifications.SecurityAlert{
		Type:   notifications.TypeSessionTerminated,
		UserID: "u7",
	})

	assert.Equal(t, []string{"role:manager", "role:superadmin", "user:u7"}, f.targets())
	assert.Equal(t, notifications.EventSessionEnded, f.calls[2].event)
}

func TestSessionTerminatedTargetsUserOnly(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifySessionTerminated("u3", "account deleted")

	require.Len(t, f.calls, 1)
	assert.Equal(t, "user:u3", f.calls[0].target)
	assert.Equal(t, notifications.EventSessionEnded, f.calls[0].event)
}

func TestLoginActivityTargetsSuperadmin(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifyLoginActivity(notifications.LoginActivity{Username: "ana", Success: true})

	require.Len(t, f.calls, 1)
	assert.Equal(t, "role:superadmin", f.calls[0].target)
	payload := f.calls[0].data.(notifications.LoginActivity)
	assert.Equal(t, "ana logged in", payload.Message)
}

func TestNewUserRegistrationAudience(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifyNewUserRegistration("u1", "ben", models.RoleCashier)

	assert.ElementsMatch(t, []string{"role:superadmin", "role:manager"}, f.targets())
	payload := f.calls[0].data.(notifications.UserEvent)
	assert.Equal(t, notifications.TypeNewRegistration, payload.Type)
}

func TestUserApprovalMessage(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifyUserApproval("u1", "ben", models.RoleCashier, false, "root")

	payload := f.calls[0].data.(notifications.UserEvent)
	assert.Equal(t, "User ben has been rejected by root", payload.Message)
}

func TestPendingApprovalsTargetsGivenRole(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifyPendingApprovalsUpdate(models.RoleManager, 4)

	require.Len(t, f.calls, 1)
	assert.Equal(t, "role:manager", f.calls[0].target)
	assert.Equal(t, notifications.EventPendingApprovals, f.calls[0].event)
}

func TestLowStockEmitsAlertAndCountUpdate(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifyLowStock([]notifications.LowStockProduct{
		{ProductID: "p1", Name: "Milk", Stock: 3, Threshold: 10},
	})

	require.Len(t, f.calls, 4)
	assert.Equal(t, []string{"role:manager", "role:manager", "role:superadmin", "role:superadmin"}, f.targets())
	assert.Equal(t, notifications.EventNotification, f.calls[0].event)
	assert.Equal(t, notifications.EventLowStockUpdate, f.calls[1].event)
	payload := f.calls[0].data.(notifications.LowStockEvent)
	assert.Equal(t, "Milk is running low on stock", payload.Message)
}

func TestLowStockNoProductsIsSilent(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifyLowStock(nil)

	assert.Empty(t, f.calls)
}

func TestMaintenanceModeBroadcastsToAll(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifyMaintenanceMode(true, "root")

	require.Len(t, f.calls, 1)
	assert.Equal(t, "all", f.calls[0].target)
	assert.Equal(t, notifications.EventMaintenance, f.calls[0].event)
	payload := f.calls[0].data.(notifications.MaintenanceEvent)
	assert.True(t, payload.Enabled)
	assert.Equal(t, "Maintenance mode has been enabled", payload.Message)
}

func TestAnalyticsAudiences(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)
	snap := notifications.AnalyticsSnapshot{Date: "2026-08-30", Revenue: 1200}

	n.NotifyAnalyticsUpdate(snap)
	assert.Equal(t, []string{"role:manager", "role:superadmin"}, f.targets())

	f.calls = nil
	n.NotifyManagerAnalyticsUpdate(snap)
	assert.Equal(t, []string{"role:manager", "role:superadmin"}, f.targets())

	f.calls = nil
	n.NotifyCashierAnalyticsUpdate("c9", snap)
	assert.Equal(t, []string{"user:c9", "role:manager", "role:superadmin"}, f.targets())
}

func TestTimestampDefaultsToNow(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifySecurityAlert(notifications.SecurityAlert{Type: notifications.TypeSecurityAlert})

	payload := f.calls[0].data.(notifications.SecurityAlert)
	ts, err := time.Parse(time.RFC3339, payload.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, 5*time.Second)
}

func TestTimestampPreservedWhenSupplied(t *testing.T) {
	f := &fakeEmitter{}
	n := notifications.New(f)

	n.NotifySecurityAlert(notifications.SecurityAlert{
		Type:      notifications.TypeSecurityAlert,
		Timestamp: "2026-01-02T03:04:05Z",
	})

	payload := f.calls[0].data.(notifications.SecurityAlert)
	assert.Equal(t, "2026-01-02T03:04:05Z", payload.Timestamp)
}
