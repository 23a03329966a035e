package errors

import (
	"errors"
	"fmt"
)

// InvalidSourceError indicates a DataTable was given something that is
// neither a query builder nor a model.
type InvalidSourceError struct {
	Type string
}

func NewInvalidSourceError(typ string) *InvalidSourceError {
	return &InvalidSourceError{Type: typ}
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid query source %s: expected a select builder or a model", e.Type)
}

// IsInvalidSourceError checks if the error is an InvalidSourceError.
func IsInvalidSourceError(err error) bool {
	var e *InvalidSourceError
	return errors.As(err, &e)
}

// InvalidColumnError indicates a column specification that cannot be
// turned into SQL. Index is the column position, or -1 when the list itself
// is at fault.
type InvalidColumnError struct {
	Index  int
	Reason string
}

func NewInvalidColumnError(index int, reason string) *InvalidColumnError {
	return &InvalidColumnError{Index: index, Reason: reason}
}

func (e *InvalidColumnError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid columns: %s", e.Reason)
	}
	return fmt.Sprintf("invalid column %d: %s", e.Index, e.Reason)
}

func IsInvalidColumnError(err error) bool {
	var e *InvalidColumnError
	return errors.As(err, &e)
}

// ResourceNotFoundError indicates a resource was not found.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewTableNotFoundError(name string) *ResourceNotFoundError {
	return NewResourceNotFoundError("table", name)
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// InvalidRequestError indicates request parameters the server cannot act on.
type InvalidRequestError struct {
	msg string
}

func NewInvalidRequestError(format string, args ...any) *InvalidRequestError {
	return &InvalidRequestError{msg: fmt.Sprintf(format, args...)}
}

func (e *InvalidRequestError) Error() string {
	return e.msg
}

func IsInvalidRequestError(err error) bool {
	var e *InvalidRequestError
	return errors.As(err, &e)
}

// DuplicateResourceError indicates a registration under a name already taken.
type DuplicateResourceError struct {
	Kind string
	ID   string
}

func NewDuplicateResourceError(kind, id string) *DuplicateResourceError {
	return &DuplicateResourceError{Kind: kind, ID: id}
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Kind, e.ID)
}

func IsDuplicateResourceError(err error) bool {
	var e *DuplicateResourceError
	return errors.As(err, &e)
}
