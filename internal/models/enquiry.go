package models

import "time"

// Enquiry and rent-request statuses share the builder-side triage lifecycle.
const (
	EnquiryStatusNew       = "new"
	EnquiryStatusContacted = "contacted"
	EnquiryStatusClosed    = "closed"

	RentRequestStatusPending  = "pending"
	RentRequestStatusApproved = "approved"
	RentRequestStatusRejected = "rejected"

	ComplaintStatusOpen     = "open"
	ComplaintStatusResolved = "resolved"
)

type Enquiry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	PropertyID int64     `json:"property_id"`
	BuilderID  int64     `json:"builder_id"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	PropertyName string `json:"property_name,omitempty"`
	City         string `json:"city,omitempty"`
	Area         string `json:"locality,omitempty"`
	UserName     string `json:"user_name,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
	UserPhone    string `json:"user_phone,omitempty"`
}

type RentRequest struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	PropertyID  int64     `json:"property_id"`
	BuilderID   int64     `json:"builder_id"`
	OfferAmount float64   `json:"offer_amount"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	PropertyName string `json:"property_name,omitempty"`
	UserName     string `json:"user_name,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
}

type WishlistItem struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	PropertyID int64     `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`

	Property *Property `json:"property,omitempty"`
}

type Complaint struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}
