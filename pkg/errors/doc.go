// Package errors provides custom error types for the datatables service.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌──────────────────────────┬────────┬─────────────────────────────────────┐
//	│ Error Type               │ HTTP   │ Description                         │
//	├──────────────────────────┼────────┼─────────────────────────────────────┤
//	│ InvalidSourceError       │ 500    │ Query source is not a builder/model │
//	│ InvalidColumnError       │ 500    │ Column spec cannot become SQL       │
//	│ ResourceNotFoundError    │ 404    │ Requested table doesn't exist       │
//	│ InvalidRequestError      │ 400    │ Request parameters are unusable     │
//	│ DuplicateResourceError   │ 409    │ Table name registered twice         │
//	└──────────────────────────┴────────┴─────────────────────────────────────┘
//
// # InvalidSourceError
//
// Raised by datatable.New before any query runs when the source is not a
// squirrel SelectBuilder or a datatable.Model. This is a programming error
// of the caller, not a runtime failure.
//
// Constructor:
//   - NewInvalidSourceError(typ string) - typ is the offending Go type
//
// # InvalidColumnError
//
// Raised when a column specification would produce invalid SQL, e.g. an
// empty composite column or a named column without expression.
//
// Constructor:
//   - NewInvalidColumnError(index int, reason string) - index -1 for the list
//
// # ResourceNotFoundError
//
// Indicates a requested resource was not found.
//
// Constructors:
//   - NewResourceNotFoundError(kind, id string) - Generic resource not found
//   - NewTableNotFoundError(name string) - No table registered under name
//
// Usage:
//
//	if errors.IsResourceNotFoundError(err) {
//	    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
//	}
//
// # InvalidRequestError
//
// Indicates the request cannot be answered as sent, e.g. an unknown
// protocol name. Missing grid parameters are never an error: every lookup
// has a default.
//
// Constructor:
//   - NewInvalidRequestError(format string, args ...any)
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As
// for proper error chain unwrapping:
//
//	func IsResourceNotFoundError(err error) bool {
//	    var e *ResourceNotFoundError
//	    return errors.As(err, &e)
//	}
//
// This allows checking wrapped errors:
//
//	wrapped := fmt.Errorf("query failed: %w", errors.NewTableNotFoundError("users"))
//	errors.IsResourceNotFoundError(wrapped) // returns true
//
// Database errors are never converted; they travel up wrapped with %w.
//
// # Handler Error Mapping
//
//	switch {
//	case errors.IsResourceNotFoundError(err):
//	    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
//	case errors.IsInvalidRequestError(err):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
//	}
package errors
