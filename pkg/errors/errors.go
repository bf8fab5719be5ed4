package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrWeekNotFound      = errors.New("liquidity week not found")
	ErrWeekAlreadyExists = errors.New("liquidity week already exists")
	ErrLineItemNotFound  = errors.New("line item not found")
	ErrInvoiceNotFound   = errors.New("linked invoice not found")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeWeekNotFound      = "WEEK_NOT_FOUND"
	ErrCodeWeekAlreadyExists = "WEEK_ALREADY_EXISTS"
	ErrCodeLineItemNotFound  = "LINE_ITEM_NOT_FOUND"
	ErrCodeInvoiceNotFound   = "INVOICE_NOT_FOUND"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeSeedError         = "SEED_ERROR"
	ErrCodeExportError       = "EXPORT_ERROR"
)

// Wrap common errors with business context
func WrapWeekNotFound(weekID string) *BusinessError {
	return NewBusinessError(
		ErrCodeWeekNotFound,
		fmt.Sprintf("Liquidity week %s not found", weekID),
		ErrWeekNotFound,
	)
}

func WrapWeekAlreadyExists(weekStart string) *BusinessError {
	return NewBusinessError(
		ErrCodeWeekAlreadyExists,
		fmt.Sprintf("A liquidity week starting %s already exists", weekStart),
		ErrWeekAlreadyExists,
	)
}

func WrapLineItemNotFound(itemID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLineItemNotFound,
		fmt.Sprintf("Line item %s not found", itemID),
		ErrLineItemNotFound,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapSeedError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeSeedError,
		"auto-population of line items failed",
		err,
	)
}

func WrapExportError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeExportError,
		"workbook export failed",
		err,
	)
}
