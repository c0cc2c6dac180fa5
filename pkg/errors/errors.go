// Package errors provides custom error types for the orcidsync system.
// These errors enable programmatic error checking and carry enough
// context to report per-namespace outcomes without aborting a run.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are aliases for the standard library matchers so callers
// do not need a second errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the orcidsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrNoContributors indicates that a graph document contained no
	// structured contributor information at all
	ErrNoContributors = errors.New("no contributor information")

	// ErrNoGraphs indicates that the graph document for a namespace
	// was absent or empty
	ErrNoGraphs = errors.New("no graphs")

	// ErrCacheUnavailable indicates that the prefix cache could not be
	// loaded or populated; reconciliation cannot proceed without it
	ErrCacheUnavailable = errors.New("prefix cache unavailable")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEndpointUnavailable indicates that a remote endpoint is
	// temporarily unavailable
	ErrEndpointUnavailable = errors.New("endpoint unavailable")

	// ErrRateLimited indicates that a remote endpoint rate limit was hit
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// QueryError represents an error from a remote query endpoint
// (the SPARQL service or the batch-submission service)
type QueryError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *QueryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("query error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("query error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *QueryError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrEndpointUnavailable
	}
	return false
}

// NewQueryError creates a new QueryError
func NewQueryError(endpoint string, statusCode int, message string) *QueryError {
	return &QueryError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NamespaceError represents a recoverable failure while processing a
// single ontology namespace. The run skips the namespace and continues.
type NamespaceError struct {
	Prefix string
	Stage  string // "fetch", "scan", "reconcile", "build"
	Err    error
}

// Error implements the error interface
func (e *NamespaceError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("namespace %s failed during %s: %v", e.Prefix, e.Stage, e.Err)
	}
	return fmt.Sprintf("namespace %s failed: %v", e.Prefix, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *NamespaceError) Unwrap() error {
	return e.Err
}

// NewNamespaceError creates a new NamespaceError
func NewNamespaceError(prefix, stage string, err error) *NamespaceError {
	return &NamespaceError{Prefix: prefix, Stage: stage, Err: err}
}

// CacheError represents a failure to load, populate, or persist the
// prefix cache. Population failures are fatal for the run.
type CacheError struct {
	Operation string // "load", "populate", "save"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *CacheError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("prefix cache %s failed for %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("prefix cache %s failed: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CacheError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CacheError) Is(target error) bool {
	return target == ErrCacheUnavailable
}

// NewCacheError creates a new CacheError
func NewCacheError(operation, path string, err error) *CacheError {
	return &CacheError{Operation: operation, Path: path, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "sparql-results", "tsv", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCacheUnavailable checks if an error means the prefix cache is unusable
func IsCacheUnavailable(err error) bool {
	return errors.Is(err, ErrCacheUnavailable)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsEndpointUnavailable checks if an error indicates endpoint unavailability
func IsEndpointUnavailable(err error) bool {
	return errors.Is(err, ErrEndpointUnavailable)
}

// FromContext maps a context error onto the matching sentinel so
// callers can report cancellation and deadline expiry uniformly.
// Non-context errors pass through unchanged.
func FromContext(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return ErrCanceled
	default:
		return err
	}
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapQuery wraps an error as a QueryError
func WrapQuery(endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapNamespace wraps an error as a NamespaceError
func WrapNamespace(prefix, stage string, err error) error {
	if err == nil {
		return nil
	}
	return NewNamespaceError(prefix, stage, err)
}
