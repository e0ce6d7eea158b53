package notifications

import (
	"fmt"
	"time"

	"github.com/grocerly/pos-backend/models"
)

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func orNow(ts string) string {
	if ts == "" {
		return now()
	}
	return ts
}

// NotifySecurityAlert sends the alert to managers and superadmins. A
// terminated-session alert additionally reaches the affected user on their
// private channel so the client can force a logout.
func (n *Notifier) NotifySecurityAlert(alert SecurityAlert) {
	alert.Timestamp = orNow(alert.Timestamp)
	n.toRole(models.RoleManager, EventSecurityAlert, alert)
	n.toRole(models.RoleSuperadmin, EventSecurityAlert, alert)
	if alert.Type == TypeSessionTerminated && alert.UserID != "" {
		n.toUser(alert.UserID, EventSessionEnded, alert)
	}
}

// NotifySessionTerminated tells a single user their session was revoked.
func (n *Notifier) NotifySessionTerminated(userID, reason string) {
	n.toUser(userID, EventSessionEnded, SecurityAlert{
		Type:      TypeSessionTerminated,
		UserID:    userID,
		Message:   fmt.Sprintf("Your session has been terminated: %s", reason),
		Timestamp: now(),
	})
}

// NotifyLoginActivity reports a login attempt to superadmins.
func (n *Notifier) NotifyLoginActivity(act LoginActivity) {
	act.Timestamp = orNow(act.Timestamp)
	if act.Message == "" {
		outcome := "logged in"
		if !act.Success {
			outcome = "failed to log in"
		}
		act.Message = fmt.Sprintf("%s %s", act.Username, outcome)
	}
	n.toRole(models.RoleSuperadmin, EventLoginActivity, act)
}

// NotifyNewUserRegistration tells approvers a registration is waiting.
func (n *Notifier) NotifyNewUserRegistration(userID, username, role string) {
	payload := UserEvent{
		Type:      TypeNewRegistration,
		UserID:    userID,
		Username:  username,
		Role:      role,
		Message:   fmt.Sprintf("New user %s registered as %s and is awaiting approval", username, role),
		Timestamp: now(),
	}
	n.toRole(models.RoleSuperadmin, EventNotification, payload)
	n.toRole(models.RoleManager, EventNotification, payload)
}

// NotifyUserApproval reports an approval decision to the approver roles.
func (n *Notifier) NotifyUserApproval(userID, username, role string, approved bool, actor string) {
	verb := "rejected"
	if approved {
		verb = "approved"
	}
	payload := UserEvent{
		Type:      TypeUserApproval,
		UserID:    userID,
		Username:  username,
		Role:      role,
		Approved:  &approved,
		ActorName: actor,
		Message:   fmt.Sprintf("User %s has been %s by %s", username, verb, actor),
		Timestamp: now(),
	}
	n.toRole(models.RoleSuperadmin, EventNotification, payload)
	n.toRole(models.RoleManager, EventNotification, payload)
}

// NotifyPendingApprovalsUpdate refreshes the pending-approvals badge for one
// role. The caller decides which role's badge changed.
func (n *Notifier) NotifyPendingApprovalsUpdate(role string, count int64) {
	n.toRole(role, EventPendingApprovals, map[string]interface{}{
		"count":     count,
		"timestamp": now(),
	})
}

// NotifyTransactionRefund reaches managers, superadmins and the cashier who
// rang up the original sale. No other audience sees refunds.
func (n *Notifier) NotifyTransactionRefund(tx *models.Transaction) {
	payload := RefundEvent{
		Type:        TypeTransactionRefund,
		Number:      tx.Number,
		CashierID:   tx.CashierID.Hex(),
		CashierName: tx.CashierName,
		Total:       tx.Total,
		Reason:      tx.RefundReason,
		RefundedBy:  tx.RefundedBy,
		Message:     fmt.Sprintf("Transaction %s has been refunded", tx.Number),
		Timestamp:   now(),
	}
	n.toRole(models.RoleManager, EventNotification, payload)
	n.toRole(models.RoleSuperadmin, EventNotification, payload)
	n.toUser(payload.CashierID, EventNotification, payload)
}

// NotifyLowStock alerts managers and superadmins about products at or below
// threshold and pushes a separate count update for the badge.
func (n *Notifier) NotifyLowStock(products []LowStockProduct) {
	if len(products) == 0 {
		return
	}
	msg := fmt.Sprintf("%s is running low on stock", products[0].Name)
	if len(products) > 1 {
		msg = fmt.Sprintf("%d products are running low on stock", len(products))
	}
	payload := LowStockEvent{
		Type:      TypeLowStockAlert,
		Products:  products,
		Message:   msg,
		Timestamp: now(),
	}
	count := map[string]interface{}{"count": len(products), "timestamp": payload.Timestamp}
	for _, role := range []string{models.RoleManager, models.RoleSuperadmin} {
		n.toRole(role, EventNotification, payload)
		n.toRole(role, EventLowStockUpdate, count)
	}
}

// NotifyMaintenanceMode broadcasts the maintenance flag to every client.
func (n *Notifier) NotifyMaintenanceMode(enabled bool, changedBy string) {
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	n.toAll(EventMaintenance, MaintenanceEvent{
		Type:      TypeMaintenanceMode,
		Enabled:   enabled,
		ChangedBy: changedBy,
		Message:   fmt.Sprintf("Maintenance mode has been %s", state),
		Timestamp: now(),
	})
}

// NotifyAnalyticsUpdate pushes the store-wide snapshot to dashboards.
func (n *Notifier) NotifyAnalyticsUpdate(snap AnalyticsSnapshot) {
	snap.Timestamp = orNow(snap.Timestamp)
	n.toRole(models.RoleManager, EventAnalytics, snap)
	n.toRole(models.RoleSuperadmin, EventAnalytics, snap)
}

// NotifyManagerAnalyticsUpdate pushes the manager dashboard variant.
func (n *Notifier) NotifyManagerAnalyticsUpdate(snap AnalyticsSnapshot) {
	snap.Timestamp = orNow(snap.Timestamp)
	n.toRole(models.RoleManager, EventManagerAnalytics, snap)
	n.toRole(models.RoleSuperadmin, EventManagerAnalytics, snap)
}

// NotifyCashierAnalyticsUpdate pushes a cashier's own numbers to that
// cashier plus the supervising roles.
func (n *Notifier) NotifyCashierAnalyticsUpdate(cashierID string, snap AnalyticsSnapshot) {
	snap.Timestamp = orNow(snap.Timestamp)
	n.toUser(cashierID, EventCashierAnalytics, snap)
	n.toRole(models.RoleManager, EventCashierAnalytics, snap)
	n.toRole(models.RoleSuperadmin, EventCashierAnalytics, snap)
}
