package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"buildex/server/internal/auth"
	"buildex/server/internal/database"
	"buildex/server/internal/email"
	"buildex/server/internal/geocoding"
	"buildex/server/internal/models"
	"buildex/server/internal/otp"
	"buildex/server/internal/payments"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	db       *database.Database
	logger   *logrus.Logger
	payments *payments.Service
	otp      *otp.Service
	tokens   *auth.TokenManager
	mail     *email.MailQueue
	geo      *geocoding.Geocoder
	otpTTL   int
}

func NewHandler(db *database.Database, paymentService *payments.Service, otpService *otp.Service,
	tokens *auth.TokenManager, mail *email.MailQueue, geo *geocoding.Geocoder,
	otpTTLMinutes int, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Handler{
		db:       db,
		logger:   logger,
		payments: paymentService,
		otp:      otpService,
		tokens:   tokens,
		mail:     mail,
		geo:      geo,
		otpTTL:   otpTTLMinutes,
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handler) GetProperties(c *gin.Context) {
	var filter models.PropertyFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse property filters")
	}

	properties, err := h.db.GetProperties(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) GetProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	property, err := h.db.GetPropertyByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to get property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *Handler) GetNearbyProperties(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lat"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lng"})
		return
	}
	radiusKm := 10.0
	if r := c.Query("radius_km"); r != "" {
		if parsed, err := strconv.ParseFloat(r, 64); err == nil && parsed > 0 {
			radiusKm = parsed
		}
	}

	properties, err := h.db.GetNearbyProperties(lat, lng, radiusKm)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get nearby properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get nearby properties"})
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) GetBuilderProperties(c *gin.Context) {
	builderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	properties, err := h.db.GetPropertiesByBuilder(builderID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get builder properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get builder properties"})
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		h.logger.WithError(err).Error("Invalid property payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property payload"})
		return
	}
	if property.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	// Listings created without a map pin get the locality centre so they
	// still appear in nearby search. Best effort only.
	if property.Latitude == nil && property.City != "" && h.geo != nil {
		if lat, lng, err := h.geo.GeocodeLocality(property.Area, property.City); err == nil {
			property.Latitude = &lat
			property.Longitude = &lng
		} else {
			h.logger.WithError(err).Warn("Could not geocode listing locality")
		}
	}

	created, err := h.db.CreateProperty(&property)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		h.logger.WithError(err).Error("Invalid property payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property payload"})
		return
	}

	updated, err := h.db.UpdateProperty(id, &property)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to update property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) UpdatePropertyStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	if err := h.db.UpdatePropertyStatus(id, req.Status); err != nil {
		h.logger.WithError(err).Error("Failed to update property status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.db.DeleteProperty(id); err != nil {
		h.logger.WithError(err).Error("Failed to delete property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}

func (h *Handler) CreateEnquiry(c *gin.Context) {
	var enquiry models.Enquiry
	if err := c.ShouldBindJSON(&enquiry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enquiry payload"})
		return
	}

	created, err := h.db.CreateEnquiry(&enquiry)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create enquiry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create enquiry"})
		return
	}

	// Builder gets a heads-up; a failed email never fails the enquiry.
	h.notifyEnquiry(created)

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) notifyEnquiry(e *models.Enquiry) {
	builder, err := h.db.GetUserByID(e.BuilderID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to resolve builder for enquiry email")
		return
	}
	user, err := h.db.GetUserByID(e.UserID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to resolve user for enquiry email")
		return
	}
	property, err := h.db.GetPropertyByID(e.PropertyID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to resolve property for enquiry email")
		return
	}

	subject, html, err := email.Render(email.TemplateEnquiryReceived, map[string]interface{}{
		"builderName":  builder.FullName,
		"userName":     user.FullName,
		"propertyName": property.Title,
		"message":      e.Message,
	})
	if err != nil {
		h.logger.WithError(err).Warn("Failed to render enquiry email")
		return
	}
	if err := h.mail.Push([]email.Message{{To: builder.Email, ToName: builder.FullName, Subject: subject, HTML: html}}); err != nil {
		h.logger.WithError(err).Warn("Failed to queue enquiry email")
	}
}

func (h *Handler) GetUserEnquiries(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	enquiries, err := h.db.GetUserEnquiries(userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get user enquiries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get enquiries"})
		return
	}
	c.JSON(http.StatusOK, enquiries)
}

func (h *Handler) GetBuilderEnquiries(c *gin.Context) {
	builderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	enquiries, err := h.db.GetBuilderEnquiries(builderID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get builder enquiries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get enquiries"})
		return
	}
	c.JSON(http.StatusOK, enquiries)
}

func (h *Handler) UpdateEnquiryStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if err := h.db.UpdateEnquiryStatus(id, req.Status); err != nil {
		h.logger.WithError(err).Error("Failed to update enquiry status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update enquiry status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) CreateRentRequest(c *gin.Context) {
	var request models.RentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rent request payload"})
		return
	}

	created, err := h.db.CreateRentRequest(&request)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create rent request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rent request"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetBuilderRentRequests(c *gin.Context) {
	builderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	requests, err := h.db.GetRentRequestsByBuilder(builderID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get rent requests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get rent requests"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *Handler) UpdateRentRequestStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if err := h.db.UpdateRentRequestStatus(id, req.Status); err != nil {
		h.logger.WithError(err).Error("Failed to update rent request status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rent request status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) GetUserWishlist(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	wishlist, err := h.db.GetUserWishlist(userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get wishlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get wishlist"})
		return
	}
	c.JSON(http.StatusOK, wishlist)
}

func (h *Handler) AddToWishlist(c *gin.Context) {
	var req struct {
		UserID     int64 `json:"user_id" binding:"required"`
		PropertyID int64 `json:"property_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and property_id are required"})
		return
	}
	if err := h.db.AddToWishlist(req.UserID, req.PropertyID); err != nil {
		h.logger.WithError(err).Error("Failed to add to wishlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist"})
}

func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	propertyID, ok := pathID(c, "propertyId")
	if !ok {
		return
	}
	if err := h.db.RemoveFromWishlist(userID, propertyID); err != nil {
		h.logger.WithError(err).Error("Failed to remove from wishlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	var complaint models.Complaint
	if err := c.ShouldBindJSON(&complaint); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint payload"})
		return
	}
	created, err := h.db.CreateComplaint(&complaint)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create complaint")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create complaint"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetAllComplaints(c *gin.Context) {
	complaints, err := h.db.GetAllComplaints()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get complaints")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get complaints"})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if err := h.db.UpdateComplaintStatus(id, req.Status); err != nil {
		h.logger.WithError(err).Error("Failed to update complaint status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) GetAllBuilders(c *gin.Context) {
	builders, err := h.db.GetAllBuilders()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get builders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get builders"})
		return
	}
	c.JSON(http.StatusOK, builders)
}

func (h *Handler) UpdateBuilderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if err := h.db.UpdateBuilderStatus(id, req.Status); err != nil {
		h.logger.WithError(err).Error("Failed to update builder status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update builder status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
