package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"retreatbooking/internal/domain"
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

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

type mapping struct {
	kind   error
	status int
	code   string
}

var mappings = []mapping{
	{domain.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
	{domain.ErrCapacityExceeded, http.StatusBadRequest, "CAPACITY_EXCEEDED"},
	{domain.ErrInsufficientInventory, http.StatusBadRequest, "INSUFFICIENT_INVENTORY"},
	{domain.ErrInvalidTransition, http.StatusBadRequest, "INVALID_TRANSITION"},
	{domain.ErrInvalidBookingState, http.StatusConflict, "INVALID_BOOKING_STATE"},
	{domain.ErrInvalidBookingRequest, http.StatusBadRequest, "INVALID_BOOKING_REQUEST"},
	{domain.ErrUpstreamPayment, http.StatusBadGateway, "UPSTREAM_PAYMENT_ERROR"},
	{domain.ErrSignatureInvalid, http.StatusBadRequest, "SIGNATURE_INVALID"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
}

// Status returns the HTTP status and error code for err.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.kind) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// FromError maps a taxonomy error onto the error envelope. Unknown errors
// are attached to the gin context for the request logger and reported as
// a generic 500.
func FromError(c *gin.Context, err error) {
	status, code := Status(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		message := "Internal server error"
		if status == http.StatusBadGateway {
			message = err.Error()
		}
		Error(c, status, code, message)
		return
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		ErrorWithDetails(c, status, code, verr.Message, verr.Fields)
		return
	}
	Error(c, status, code, err.Error())
}
