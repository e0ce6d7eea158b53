package notifications

// Wire-level event names. Clients subscribe by these exact strings; the
// generic "notification" event carries a typed payload for feed-style
// notifications, the rest are dedicated channels.
const (
	EventNotification     = "notification"
	EventSecurityAlert    = "security_alert"
	EventSessionEnded     = "session_terminated"
	EventLoginActivity    = "login_activity"
	EventPendingApprovals = "pending_approvals_update"
	EventLowStockUpdate   = "lowStockUpdate"
	EventMaintenance      = "system:maintenance"
	EventAnalytics        = "analytics:update"
	EventManagerAnalytics = "manager:analytics:update"
	EventCashierAnalytics = "cashier:analytics:update"
)

// Notification payload types carried inside the generic "notification" event.
const (
	TypeSecurityAlert     = "security_alert"
	TypeSessionTerminated = "session_terminated"
	TypeLoginActivity     = "login_activity"
	TypeNewRegistration   = "new_user_registration"
	TypeUserApproval      = "user_approval"
	TypeTransactionRefund = "transaction_refund"
	TypeLowStockAlert     = "low_stock_alert"
	TypeMaintenanceMode   = "maintenance_mode_update"
)

// SecurityAlert describes a security-relevant occurrence (lockouts,
// terminated sessions, repeated failures).
type SecurityAlert struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Message   string `json:"message"`
	Severity  string `json:"severity,omitempty"`
	Timestamp string `json:"timestamp"`
}

type LoginActivity struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Success   bool   `json:"success"`
	IP        string `json:"ip,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type UserEvent struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Approved  *bool  `json:"approved,omitempty"`
	ActorName string `json:"actor,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type RefundEvent struct {
	Type        string  `json:"type"`
	Number      string  `json:"number"`
	CashierID   string  `json:"cashier_id"`
	CashierName string  `json:"cashier_name"`
	Total       float64 `json:"total"`
	Reason      string  `json:"reason,omitempty"`
	RefundedBy  string  `json:"refunded_by"`
	Message     string  `json:"message"`
	Timestamp   string  `json:"timestamp"`
}

type LowStockProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

type LowStockEvent struct {
	Type      string            `json:"type"`
	Products  []LowStockProduct `json:"products"`
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
}

type MaintenanceEvent struct {
	Type      string `json:"type"`
	Enabled   bool   `json:"enabled"`
	ChangedBy string `json:"changed_by,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// AnalyticsSnapshot is the rolled-up view pushed to dashboards.
type AnalyticsSnapshot struct {
	Date             string  `json:"date"`
	TransactionCount int64   `json:"transaction_count"`
	Revenue          float64 `json:"revenue"`
	NetSales         float64 `json:"net_sales"`
	VATCollected     float64 `json:"vat_collected"`
	Timestamp        string  `json:"timestamp"`
}
