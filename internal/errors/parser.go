package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates storage-layer errors into stable codes and messages.
// Sensitive backend detail is hidden; the user still learns what to fix.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An unexpected error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL constraint violations

	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "The service is temporarily unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "An unexpected error occurred. Please try again later",
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "User already exists with this email",
		}
	}

	if strings.Contains(errLower, "sku") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "A variant with this SKU already exists",
		}
	}

	if strings.Contains(errLower, "idx_cart_user_variant") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This item is already in the cart",
		}
	}

	if strings.Contains(errLower, "categories") || strings.Contains(errLower, "genders") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "An entry with this name already exists",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record is referenced by other data and cannot be deleted",
		}
	}

	if strings.Contains(errLower, "variant_id") {
		return ErrorInfo{
			Code:    OrderVariantNotFound,
			Message: "The referenced product variant does not exist",
		}
	}
	if strings.Contains(errLower, "product_id") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "The referenced product does not exist",
		}
	}
	if strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "The referenced user does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	for _, field := range []string{"email", "password", "name", "address_line1", "city"} {
		if strings.Contains(errLower, field) {
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: "Required field is missing: " + field,
			}
		}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "address"):
		return "Address not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "variant"):
		return "Product variant not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "cart"):
		return "Cart item not found"
	}

	return "Requested record not found"
}

// ParseAndRespond parses an error and writes the standard envelope
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
