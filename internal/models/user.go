package models

import "time"

// User roles.
const (
	RoleBuyer   = "buyer"
	RoleBuilder = "builder"
	RoleAdmin   = "admin"
)

// Builder account statuses, managed from the admin dashboard.
const (
	BuilderStatusPending  = "pending"
	BuilderStatusApproved = "approved"
	BuilderStatusRejected = "rejected"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Registration carries the signup form while the OTP round trip is pending.
type Registration struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}
