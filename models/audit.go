package models

import "time"

const (
	AuditUserRegistered       = "user.registered"
	AuditTransactionCompleted = "transaction.completed"
	AuditTransactionRefunded  = "transaction.refunded"
)

// AuditEvent is the record published to the event log for offline analysis.
type AuditEvent struct {
	Event         string                 `json:"event"`
	UserID        string                 `json:"user_id,omitempty"`
	TransactionID string                 `json:"transaction_id,omitempty"`
	Data          map[string]interface{} `json:"data,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
}
