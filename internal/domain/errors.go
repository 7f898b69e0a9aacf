package domain

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any request is made when input is rejected.
// Only the first field error is used as the message.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a ValidationError with a single untagged message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Message: message}}}
}

// NewFieldValidationError creates a ValidationError for one field.
func NewFieldValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	first := e.Fields[0]
	if first.Field == "" {
		return first.Message
	}
	return fmt.Sprintf("%s: %s", first.Field, first.Message)
}

// NotFoundError is returned when an entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidStateError is returned when an operation is not legal in the current state.
type InvalidStateError struct {
	From string
	To   string
}

// NewInvalidStateError creates an InvalidStateError.
func NewInvalidStateError(from, to string) *InvalidStateError {
	return &InvalidStateError{From: from, To: to}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s while %s", strings.ReplaceAll(e.To, "-", " "), e.From)
}

// ConflictError is returned when a concurrent operation prevents this one.
type ConflictError struct {
	Message string
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func (e *ConflictError) Error() string { return e.Message }

// ConfirmationRequiredError is returned for destructive operations submitted without an
// explicit acknowledgment.
type ConfirmationRequiredError struct {
	Operation string
}

// NewConfirmationRequiredError creates a ConfirmationRequiredError.
func NewConfirmationRequiredError(operation string) *ConfirmationRequiredError {
	return &ConfirmationRequiredError{Operation: operation}
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("%s requires explicit confirmation", e.Operation)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsConfirmationRequired(err error) bool {
	var target *ConfirmationRequiredError
	return errors.As(err, &target)
}
