package api

import (
	"errors"
	"net/http"
	"strings"

	"buildex/server/internal/email"
	"buildex/server/internal/models"
	"buildex/server/internal/otp"

	"github.com/gin-gonic/gin"
)

// Register takes a signup form, parks it behind a one-time code and emails
// the code. The user row is only created once the code is verified.
func (h *Handler) Register(c *gin.Context) {
	var reg models.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and username are required"})
		return
	}

	code, err := h.otp.Issue(strings.ToLower(reg.Email), &reg)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue OTP")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		return
	}

	subject, html, err := email.Render(email.TemplateOTP, map[string]interface{}{
		"otp":        code,
		"ttlMinutes": h.otpTTL,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to render OTP email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		return
	}
	if err := h.mail.Push([]email.Message{{To: reg.Email, ToName: reg.FullName, Subject: subject, HTML: html}}); err != nil {
		h.logger.WithError(err).Error("Failed to queue OTP email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

// VerifyOTP confirms the code, creates the user, and hands back a session
// token.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and otp are required"})
		return
	}

	payload, err := h.otp.Verify(strings.ToLower(req.Email), req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "OTP expired or not found"})
		case errors.Is(err, otp.ErrMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OTP"})
		default:
			h.logger.WithError(err).Error("OTP verification failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "OTP verification failed"})
		}
		return
	}

	reg, ok := payload.(*models.Registration)
	if !ok {
		h.logger.Error("OTP payload is not a registration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OTP verification failed"})
		return
	}

	user, err := h.db.CreateUser(reg)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate session token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	if subject, html, err := email.Render(email.TemplateWelcome, map[string]interface{}{
		"userName": user.FullName,
	}); err == nil {
		if err := h.mail.Push([]email.Message{{To: user.Email, ToName: user.FullName, Subject: subject, HTML: html}}); err != nil {
			h.logger.WithError(err).Warn("Failed to queue welcome email")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User verified successfully",
		"user":    user,
		"token":   token,
	})
}

const contextUserID = "userID"

// RequireAuth validates the bearer token and puts the caller's id into the
// request context.
func (h *Handler) RequireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	claims, err := h.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	c.Set(contextUserID, claims.UserID)
	c.Next()
}

func currentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(contextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// ContactSend relays a contact-form message to the site operators.
func (h *Handler) ContactSend(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and message are required"})
		return
	}

	msg := email.Message{
		To:      "support@buildex.example.com",
		ToName:  "BuildEx Support",
		Subject: "Contact form: " + req.Name,
		HTML:    "<p>From: " + req.Name + " &lt;" + req.Email + "&gt;</p><p>" + req.Message + "</p>",
	}
	if err := h.mail.Push([]email.Message{msg}); err != nil {
		h.logger.WithError(err).Error("Failed to queue contact email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
}
