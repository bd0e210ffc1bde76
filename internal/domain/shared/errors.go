// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrFutureTimestamp = errors.New("timestamp cannot be in the future")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState      = errors.New("invalid state")
	ErrStateTransition   = errors.New("invalid state transition")
	ErrAlreadyProcessed  = errors.New("already processed")
	ErrExpired           = errors.New("expired")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrOptimisticLock         = errors.New("optimistic lock failure")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "mentor", "shop"
	Op      string // Operation that failed, e.g., "Create", "Update"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Student domain errors
var (
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Create", ErrAlreadyExists, "student already exists")
	ErrUsernameTaken        = NewDomainError("student", "Create", ErrAlreadyExists, "username already taken")
	ErrInvalidActivityType  = NewDomainError("student", "LogActivity", ErrInvalidInput, "unknown activity type")
	ErrInvalidActivityValue = NewDomainError("student", "LogActivity", ErrValueOutOfRange, "activity value must be positive")
	ErrLogNotFound          = NewDomainError("student", "FindLog", ErrNotFound, "log entry not found")
	ErrTaskNotFound         = NewDomainError("student", "FindTask", ErrNotFound, "custom task not found")
	ErrTaskAlreadyAssigned  = NewDomainError("student", "AssignTask", ErrAlreadyExists, "task with this title already assigned")
	ErrRewardNotFound       = NewDomainError("student", "FindReward", ErrNotFound, "temporary reward not found")
)

// Mentor and group domain errors
var (
	ErrMentorNotFound    = NewDomainError("mentor", "Find", ErrNotFound, "mentor not found")
	ErrGroupNotFound     = NewDomainError("mentor", "FindGroup", ErrNotFound, "group not found")
	ErrInvalidMentorCode = NewDomainError("mentor", "Register", ErrUnauthorized, "mentor registration code rejected")
	ErrInvalidJoinCode   = NewDomainError("mentor", "Join", ErrNotFound, "no group matches the join code")
	ErrEmptyJoinCode     = NewDomainError("mentor", "UpdateJoinCode", ErrEmptyValue, "join code cannot be empty")
	ErrNotGroupMember    = NewDomainError("mentor", "CheckMembership", ErrForbidden, "student is not in this group")
)

// Shop domain errors
var (
	ErrItemNotFound      = NewDomainError("shop", "FindItem", ErrNotFound, "shop item not found")
	ErrNotEnoughCoins    = NewDomainError("shop", "Buy", ErrInsufficientFunds, "not enough coins for this item")
	ErrItemNotConsumable = NewDomainError("shop", "Consume", ErrInvalidState, "item is not consumable")
)

// External service errors
var (
	ErrMotivationUnavailable = NewDomainError("motivation", "Request", ErrServiceUnavailable, "motivation service is unavailable")
	ErrMotivationTimeout     = NewDomainError("motivation", "Request", ErrTimeout, "motivation service request timeout")
	ErrMotivationBadResponse = NewDomainError("motivation", "Parse", ErrInvalidFormat, "invalid response from motivation service")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification)
}
