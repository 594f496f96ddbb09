package response

import "github.com/gin-gonic/gin"

// Error codes shared by all handlers. Every failure carries enough context
// for the client to decide its next action, so conflict-style codes come
// with details (conflicting entity id, current state).
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeDuplicateBooking  = "DUPLICATE_BOOKING"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeAlreadySettled    = "ALREADY_SETTLED"
	CodeNotEligible       = "NOT_ELIGIBLE"
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL_ERROR"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
