package routes

import (
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/auth"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/controllers"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterPaymentRoutes(r *gin.Engine, pc *controllers.PaymentController) {
	api := r.Group("/api")
	api.POST("/create-order", pc.CreateOrder)
	api.POST("/verify-payment", pc.VerifyPayment)
	api.GET("/payment-status/:order_id", pc.PaymentStatus)
	api.GET("/payment-config", pc.PaymentConfig)
}

func RegisterApplicationRoutes(r *gin.Engine, ac *controllers.ApplicationController, tokens *auth.TokenValidator) {
	apps := r.Group("/api/applications")
	apps.POST("", ac.Submit)
	apps.GET("/resume-upload-url", ac.ResumeUploadURL)

	admin := apps.Group("", middleware.JWTAuth(tokens), middleware.AdminOnly())
	admin.GET("/:id", ac.Get)
}
