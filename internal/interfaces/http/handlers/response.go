// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/validation"
)

// respondError writes err as JSON. Application errors keep their status
// and message; anything else is logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).WithError(err).Error("request failed")
		_ = c.Error(err)
	}

	appErr = apperror.GetAppError(err)
	body := gin.H{
		"error": appErr.Message,
		"kind":  appErr.Kind,
	}
	if len(appErr.Errors) > 0 {
		body["errors"] = appErr.Errors
	}
	c.AbortWithStatusJSON(appErr.Code, body)
}

// respondBindError reports a request that failed binding or validation
func respondBindError(c *gin.Context, err error) {
	respondError(c, validation.BindingError(err))
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    data,
	})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"message": message,
		"data":    data,
	})
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, param, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		respondError(c, apperror.NewInvalidArgument(fmt.Sprintf("Invalid %s ID", resource)))
		return 0, false
	}
	return uint(id), true
}

// attachment sets the headers for a file download
func attachment(c *gin.Context, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
