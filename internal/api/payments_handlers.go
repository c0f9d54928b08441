package api

import (
	"database/sql"
	"errors"
	"net/http"

	"buildex/server/internal/database"
	"buildex/server/internal/models"
	"buildex/server/internal/payments"

	"github.com/gin-gonic/gin"
)

// Checkout opens a payment session for a property. Callers may say "BUY";
// we store it as PURCHASE.
func (h *Handler) Checkout(c *gin.Context) {
	var req struct {
		PropertyID  int64    `json:"propertyId" binding:"required"`
		PaymentType string   `json:"paymentType" binding:"required"`
		Amount      *float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "propertyId and paymentType are required"})
		return
	}

	paymentType := req.PaymentType
	if paymentType == "BUY" {
		paymentType = models.PaymentTypePurchase
	}
	if paymentType != models.PaymentTypePurchase && paymentType != models.PaymentTypeRent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentType must be PURCHASE or RENT"})
		return
	}

	var user *models.User
	if userID, ok := currentUserID(c); ok {
		u, err := h.db.GetUserByID(userID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			h.logger.WithError(err).Error("Failed to load user for checkout")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
			return
		}
		user = u
	}

	property, err := h.db.GetPropertyByID(req.PropertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to load property for checkout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
		return
	}

	session, err := h.payments.Checkout(user, property, paymentType, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrAuthRequired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		case errors.Is(err, payments.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment amount"})
		case errors.Is(err, payments.ErrGatewayUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway is not configured"})
		default:
			h.logger.WithError(err).Error("Checkout failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
		}
		return
	}

	c.JSON(http.StatusOK, session)
}

// PaymentSuccess is the gateway success callback. The signature is checked
// before any state changes; replays of a completed order are accepted and
// change nothing.
func (h *Handler) PaymentSuccess(c *gin.Context) {
	var req struct {
		OrderID   string `json:"razorpay_order_id" binding:"required"`
		PaymentID string `json:"razorpay_payment_id" binding:"required"`
		Signature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order id, payment id and signature are required"})
		return
	}

	payment, err := h.payments.HandleSuccess(req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment signature"})
		case errors.Is(err, database.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		case errors.Is(err, database.ErrTerminalTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Payment already finalised"})
		default:
			h.logger.WithError(err).Error("Failed to process payment success")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment processed successfully", "payment": payment})
}

// PaymentFailure marks a pending payment as failed.
func (h *Handler) PaymentFailure(c *gin.Context) {
	var req struct {
		OrderID string `json:"razorpay_order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order id is required"})
		return
	}

	payment, err := h.payments.HandleFailure(req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		case errors.Is(err, database.ErrTerminalTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Payment already finalised"})
		default:
			h.logger.WithError(err).Error("Failed to record payment failure")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment failure"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment marked as failed", "payment": payment})
}

func (h *Handler) GetUserPayments(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.db.GetUserPayments(userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch user payments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetBuilderPayments(c *gin.Context) {
	builderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.db.GetBuilderPayments(builderID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch builder payments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetUserRentSubscriptions(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	subs, err := h.db.GetUserRentSubscriptions(userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch rent subscriptions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rent subscriptions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *Handler) GetUserRentHistory(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	history, err := h.db.GetUserRentHistory(userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch rent history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rent history"})
		return
	}
	c.JSON(http.StatusOK, history)
}
