package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCashier    = "cashier"
	RoleManager    = "manager"
	RoleSuperadmin = "superadmin"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidRole reports whether role is one of the known POS roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCashier, RoleManager, RoleSuperadmin:
		return true
	}
	return false
}

// User is a staff account. New registrations start as pending and must be
// approved by a manager or superadmin before they can log in.
type User struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Username   string             `json:"username" bson:"username"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"-" bson:"password"`
	FullName   string             `json:"full_name" bson:"full_name"`
	Role       string             `json:"role" bson:"role"`
	Status     string             `json:"status" bson:"status"`
	ApprovedBy string             `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	LastLogin  *time.Time         `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
	DeletedAt  *time.Time         `json:"-" bson:"deleted_at,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=cashier manager superadmin"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
