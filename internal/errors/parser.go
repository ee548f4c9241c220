package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo carries a parsed error code and message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates a storage-layer error into a stable code and a
// message safe to show callers. Works against both Postgres (production)
// and SQLite (tests): "duplicate key"/"unique constraint" covers the
// Postgres 23505 text and SQLite's "UNIQUE constraint failed".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    notFoundCode(context),
			Message: notFoundMessage(context),
		}
	}

	// Unique constraint violation (PG 23505 / SQLite)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (PG 23503 / SQLite)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    VehicleNotFound,
			Message: "The referenced vehicle does not exist",
		}
	}

	// Not-null constraint violation (PG 23502)
	if strings.Contains(errStrLower, "violates not-null constraint") || strings.Contains(errStrLower, "not null constraint failed") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// Serialization failures and lock contention are retryable conflicts
	if IsConflict(err) {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The operation conflicted with a concurrent request. Please retry",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "The storage backend is unreachable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "An internal error occurred. Please try again later",
	}
}

// ParseAndRespond parses err and writes the standard error payload with the
// given status code.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

// IsConflict reports whether err is a transient serialization or locking
// conflict worth retrying. Covers Postgres 40001/40P01 text and SQLite's
// busy/locked states.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "could not serialize") ||
		strings.Contains(s, "deadlock detected") ||
		strings.Contains(s, "database is locked") ||
		strings.Contains(s, "database table is locked")
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "chassis_number") {
		return ErrorInfo{
			Code:    VehicleChassisExists,
			Message: "A vehicle with this chassis number is already registered",
		}
	}
	if strings.Contains(errLower, "plate_sequence") {
		// A plate collision means two allocations produced the same code;
		// surfaced as a conflict so the caller retries the allocation.
		return ErrorInfo{
			Code:    PlateConflict,
			Message: "Plate number collision. Please retry the registration",
		}
	}
	if strings.Contains(errLower, "region_code") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The region counter already exists. Please retry",
		}
	}
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already in use",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func notFoundCode(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "vehicle"):
		return VehicleNotFound
	case strings.Contains(contextLower, "document"):
		return DocumentNotFound
	default:
		return ResourceNotFound
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "vehicle"):
		return "Vehicle not found"
	case strings.Contains(contextLower, "document"):
		return "Document not found"
	case strings.Contains(contextLower, "user"), strings.Contains(contextLower, "operator"):
		return "Operator account not found"
	default:
		return "The requested record was not found"
	}
}
