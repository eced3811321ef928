package controllers

import (
	"net/http"

	apperrors "github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/errors"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/logger"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/middleware"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApplicationController handles internship application endpoints.
type ApplicationController struct {
	applicationService services.ApplicationService
	logger             *zap.Logger
}

func NewApplicationController(svc services.ApplicationService, logger *zap.Logger) *ApplicationController {
	return &ApplicationController{applicationService: svc, logger: logger}
}

// Submit handles POST /api/applications
func (ac *ApplicationController) Submit(c *gin.Context) {
	var req models.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	app, err := ac.applicationService.Submit(c.Request.Context(), &req)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindVerificationMismatch) {
			logger.FromGin(ac.logger, c).Warn("Rejected payment on application submit",
				zap.String("security_event", "payment_signature_mismatch"),
				zap.String("order_id", req.RazorpayOrderID),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": apperrors.VerificationMismatch().Message})
			return
		}
		respondError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "application": app})
}

// Get handles GET /api/applications/:id
func (ac *ApplicationController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	app, err := ac.applicationService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	logger.FromGin(ac.logger, c).Info("Application viewed",
		zap.String("application_id", id.String()),
		zap.String("admin_id", middleware.GetUserID(c)),
	)
	c.JSON(http.StatusOK, app)
}

// ResumeUploadURL handles GET /api/applications/resume-upload-url
func (ac *ApplicationController) ResumeUploadURL(c *gin.Context) {
	resp, err := ac.applicationService.ResumeUploadURL(c.Request.Context(), c.Query("filename"), c.Query("content_type"))
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
