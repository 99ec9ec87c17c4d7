package handlers

import (
	"fmt"

	"civiccare/internal/middleware"
	contextutils "civiccare/internal/utils"

	"github.com/gin-gonic/gin"
)

// HandleAppError handles any AppError and sends the appropriate HTTP response.
// The status mapping lives in the middleware package so panics recovered
// there and handler errors produce identical payloads.
func HandleAppError(c *gin.Context, err error) {
	middleware.HandleAppError(c, err)
}

// HandleValidationError handles input validation errors consistently
func HandleValidationError(c *gin.Context, field string, value interface{}, reason string) {
	appErr := contextutils.NewAppError(
		contextutils.ErrorCodeInvalidInput,
		contextutils.SeverityWarn,
		fmt.Sprintf("Invalid %s", field),
		fmt.Sprintf("Value '%v' is invalid: %s", value, reason),
	)

	middleware.StandardizeAppError(c, appErr)
}

// BadRequest sends a 400 with a structured invalid-input payload.
func BadRequest(c *gin.Context, message string, cause error) {
	HandleAppError(c, contextutils.NewAppErrorWithCause(
		contextutils.ErrorCodeInvalidInput,
		contextutils.SeverityWarn,
		message,
		"",
		cause,
	))
}
