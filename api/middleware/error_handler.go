// api/middleware/error_handler.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10" // Import validator for binding errors

	"github.com/healthtrack/healthtrack-backend/internal/auth"
	"github.com/healthtrack/healthtrack-backend/internal/logger"
	"github.com/healthtrack/healthtrack-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// ErrorHandler creates a Gin middleware for centralized error handling.
// Handlers attach classified errors with c.Error; this middleware maps them
// to status codes. Unrecognized errors (including wrapped persistence
// failures) become a generic 500 so engine detail never reaches the caller.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Only the last error drives the response.
		err := c.Errors.Last().Err
		customLog.Warnf("[ErrorHandler] Detected error: %v | Type: %T", err, err)

		var statusCode int
		var userMessage string

		switch {
		case errors.Is(err, storage.ErrUserNotFound),
			errors.Is(err, storage.ErrRecordNotFound):
			statusCode = http.StatusNotFound
			userMessage = err.Error()
		case errors.Is(err, storage.ErrUserExists),
			errors.Is(err, storage.ErrConstraintViolation):
			statusCode = http.StatusConflict
			userMessage = err.Error()
		case errors.Is(err, auth.ErrCredentialsRequired),
			errors.Is(err, storage.ErrEmptyBatch):
			statusCode = http.StatusBadRequest
			userMessage = err.Error()
		case errors.Is(err, auth.ErrInvalidCredentials):
			statusCode = http.StatusUnauthorized
			userMessage = err.Error()
		case errors.Is(err, auth.ErrForbidden):
			statusCode = http.StatusForbidden
			userMessage = err.Error()
		case errors.Is(err, auth.ErrTokenMalformed),
			errors.Is(err, auth.ErrTokenInvalid),
			errors.Is(err, auth.ErrTokenClaimsInvalid),
			errors.Is(err, auth.ErrUnexpectedSigningMethod):
			statusCode = http.StatusUnauthorized
			userMessage = "Invalid or malformed authentication token."
		case errors.Is(err, auth.ErrTokenExpired):
			statusCode = http.StatusUnauthorized
			userMessage = "Authentication token has expired."
		default:
			if validationErrs, ok := err.(validator.ValidationErrors); ok {
				statusCode = http.StatusBadRequest
				userMessage = "Validation failed. Please check your input."
				for _, fe := range validationErrs {
					customLog.Printf("Validation Error: Field %s failed on %s", fe.Field(), fe.Tag())
				}
				break
			}
			statusCode = http.StatusInternalServerError
			userMessage = "An unexpected internal server error occurred."
			customLog.Warnf("Unhandled error type: %T, Error: %v", err, err)
		}

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(statusCode, gin.H{"error": userMessage})
		} else {
			customLog.Printf("[ErrorHandler] Warning: Response already written before handling error.")
		}
	}
}
