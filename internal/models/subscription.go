package models

import "time"

const SubscriptionStatusActive = "active"

// RentSubscription tracks the recurring monthly obligation created by a rent
// payment. At most one row exists per (user, property) pair; repeat rent
// payments roll next_payment_due forward instead of inserting a second row.
type RentSubscription struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id" gorm:"uniqueIndex:idx_rent_subscriptions_user_property"`
	PropertyID      int64      `json:"property_id" gorm:"uniqueIndex:idx_rent_subscriptions_user_property"`
	BuilderID       int64      `json:"builder_id"`
	MonthlyRent     float64    `json:"monthly_rent"`
	StartDate       time.Time  `json:"start_date"`
	NextPaymentDue  time.Time  `json:"next_payment_due"`
	LastPaymentID   *int64     `json:"last_payment_id"`
	LastPaymentDate *time.Time `json:"last_payment_date"`
	IsActive        bool       `json:"is_active"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Joined for dashboard views.
	PropertyName string `json:"property_name,omitempty" gorm:"-"`
	City         string `json:"city,omitempty" gorm:"-"`
	Area         string `json:"locality,omitempty" gorm:"-"`
	BuilderName  string `json:"builder_name,omitempty" gorm:"-"`
	BuilderPhone string `json:"builder_phone,omitempty" gorm:"-"`
}
