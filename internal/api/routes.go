package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every endpoint onto the router.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/verify-otp", handler.VerifyOTP)

		api.GET("/properties", handler.GetProperties)
		api.GET("/properties/nearby", handler.GetNearbyProperties)
		api.GET("/properties/:id", handler.GetProperty)
		api.POST("/properties", handler.RequireAuth, handler.CreateProperty)
		api.PUT("/properties/:id", handler.RequireAuth, handler.UpdateProperty)
		api.PUT("/properties/:id/status", handler.RequireAuth, handler.UpdatePropertyStatus)
		api.DELETE("/properties/:id", handler.RequireAuth, handler.DeleteProperty)

		api.GET("/builders", handler.GetAllBuilders)
		api.GET("/builders/:id/properties", handler.GetBuilderProperties)
		api.PUT("/builders/:id/status", handler.RequireAuth, handler.UpdateBuilderStatus)
		api.GET("/builders/:id/enquiries", handler.RequireAuth, handler.GetBuilderEnquiries)
		api.GET("/builders/:id/rent-requests", handler.RequireAuth, handler.GetBuilderRentRequests)
		api.GET("/builders/:id/payments", handler.RequireAuth, handler.GetBuilderPayments)

		api.POST("/enquiries", handler.RequireAuth, handler.CreateEnquiry)
		api.PUT("/enquiries/:id/status", handler.RequireAuth, handler.UpdateEnquiryStatus)

		api.POST("/rent-requests", handler.RequireAuth, handler.CreateRentRequest)
		api.PUT("/rent-requests/:id/status", handler.RequireAuth, handler.UpdateRentRequestStatus)

		api.GET("/users/:id/enquiries", handler.RequireAuth, handler.GetUserEnquiries)
		api.GET("/users/:id/wishlist", handler.RequireAuth, handler.GetUserWishlist)
		api.POST("/users/:id/wishlist", handler.RequireAuth, handler.AddToWishlist)
		api.DELETE("/users/:id/wishlist/:propertyId", handler.RequireAuth, handler.RemoveFromWishlist)
		api.GET("/users/:id/payments", handler.RequireAuth, handler.GetUserPayments)
		api.GET("/users/:id/rent-subscriptions", handler.RequireAuth, handler.GetUserRentSubscriptions)
		api.GET("/users/:id/rent-history", handler.RequireAuth, handler.GetUserRentHistory)

		api.POST("/complaints", handler.RequireAuth, handler.CreateComplaint)
		api.GET("/complaints", handler.RequireAuth, handler.GetAllComplaints)
		api.PUT("/complaints/:id/status", handler.RequireAuth, handler.UpdateComplaintStatus)

		api.POST("/payments/checkout", handler.RequireAuth, handler.Checkout)
		api.POST("/payments/success", handler.PaymentSuccess)
		api.POST("/payments/failure", handler.PaymentFailure)

		api.POST("/contact/send", handler.ContactSend)
	}
}
