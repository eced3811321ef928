package controllers

import (
	"net/http"

	apperrors "github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/errors"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes err as the typed error body. Anything that is not an
// *apperrors.Error becomes a generic 500 so causes never reach the client.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		logger.FromGin(log, c).Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if appErr.Code >= http.StatusInternalServerError {
		logger.FromGin(log, c).Error(appErr.Message, zap.String("kind", string(appErr.Kind)), zap.Error(appErr.Err))
	}
	c.JSON(apperrors.StatusCode(appErr), appErr)
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
}
