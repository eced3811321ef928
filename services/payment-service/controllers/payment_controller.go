package controllers

import (
	"net/http"

	apperrors "github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/errors"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/logger"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const missingVerificationParams = "Missing payment verification parameters"

// CheckoutConfig is the public part of the gateway configuration the browser
// widget needs. It never carries the key secret.
type CheckoutConfig struct {
	KeyID             string `json:"key_id"`
	Currency          string `json:"currency"`
	CheckoutScriptURL string `json:"checkout_script_url"`
}

// PaymentController handles the payment order and verification endpoints.
type PaymentController struct {
	paymentService services.PaymentService
	checkout       CheckoutConfig
	logger         *zap.Logger
}

func NewPaymentController(svc services.PaymentService, checkout CheckoutConfig, logger *zap.Logger) *PaymentController {
	return &PaymentController{paymentService: svc, checkout: checkout, logger: logger}
}

// CreateOrder handles POST /api/create-order
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := pc.paymentService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"receipt":  order.Receipt,
	})
}

// VerifyPayment handles POST /api/verify-payment
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingVerificationParams})
		return
	}
	if !req.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingVerificationParams})
		return
	}

	res, err := pc.paymentService.VerifyPayment(c.Request.Context(), &req)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindVerificationMismatch) {
			logger.FromGin(pc.logger, c).Warn("Rejected payment callback",
				zap.String("security_event", "payment_signature_mismatch"),
				zap.String("order_id", req.OrderID),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": apperrors.VerificationMismatch().Message})
			return
		}
		respondError(c, pc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Payment verified successfully",
		"orderId":   res.OrderID,
		"paymentId": res.PaymentID,
	})
}

// PaymentStatus handles GET /api/payment-status/:order_id
func (pc *PaymentController) PaymentStatus(c *gin.Context) {
	orderID := c.Param("order_id")

	order, payments, err := pc.paymentService.PaymentStatus(c.Request.Context(), orderID)
	if err != nil {
		appErr, ok := apperrors.As(err)
		if !ok {
			appErr = apperrors.Internal("Failed to fetch payment status", err)
		}
		if appErr.Kind == apperrors.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": appErr.Message})
			return
		}
		logger.FromGin(pc.logger, c).Error("Payment status check failed", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(apperrors.StatusCode(appErr), gin.H{"success": false, "message": appErr.Message, "error": appErr.Details})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"order":    order,
		"payments": payments,
	})
}

// PaymentConfig handles GET /api/payment-config
func (pc *PaymentController) PaymentConfig(c *gin.Context) {
	c.JSON(http.StatusOK, pc.checkout)
}
