package models

import "time"

// Payment types accepted by the checkout workflow.
const (
	PaymentTypePurchase = "PURCHASE"
	PaymentTypeRent     = "RENT"
)

// Payment statuses. A payment starts pending and makes exactly one terminal
// transition; expired is applied by the reconciliation sweep to pending
// payments whose checkout was abandoned.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusExpired   = "expired"
)

type Payment struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	PropertyID       int64      `json:"property_id"`
	BuilderID        int64      `json:"builder_id"`
	PaymentType      string     `json:"payment_type"`
	Amount           float64    `json:"amount"`
	GatewayOrderID   string     `json:"gateway_order_id" gorm:"column:gateway_order_id;uniqueIndex"`
	GatewayPaymentID *string    `json:"gateway_payment_id"`
	GatewaySignature *string    `json:"gateway_signature"`
	Status           string     `json:"status"`
	Description      string     `json:"description"`
	PaymentDate      *time.Time `json:"payment_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Joined for history views.
	PropertyName string `json:"property_name,omitempty" gorm:"-"`
	City         string `json:"city,omitempty" gorm:"-"`
	BuilderName  string `json:"builder_name,omitempty" gorm:"-"`
	UserName     string `json:"user_name,omitempty" gorm:"-"`
	UserEmail    string `json:"user_email,omitempty" gorm:"-"`
}
