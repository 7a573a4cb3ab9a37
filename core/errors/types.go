// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for fetch, extraction, anchoring and API failures

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// FetchError reports that no fetcher could retrieve markup for a URL
type FetchError struct {
	URL      string
	Attempts []string // one entry per fetcher tried, "name: reason"
	Cause    error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch failed for %s", e.URL)
	if len(e.Attempts) > 0 {
		msg += " (" + strings.Join(e.Attempts, "; ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ExtractionTooShortError reports that the primary content was below the minimum length.
// It usually means the page renders its content with client-side scripts.
type ExtractionTooShortError struct {
	URL     string
	Length  int
	Minimum int
}

// Error implements the error interface
func (e *ExtractionTooShortError) Error() string {
	return fmt.Sprintf("extracted text for %s too short: %d < %d characters", e.URL, e.Length, e.Minimum)
}

// AnchorNotFoundError reports that no search strategy located the quoted text
type AnchorNotFoundError struct {
	Query string
}

// Error implements the error interface
func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("anchor not found: %q", e.Query)
}

// BusyError reports that an action of the same class is already running
type BusyError struct {
	Current   string
	Requested string
}

// Error implements the error interface
func (e *BusyError) Error() string {
	return fmt.Sprintf("session busy: %s in progress, cannot start %s", e.Current, e.Requested)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsFetch checks if an error is a FetchError
func IsFetch(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsExtractionTooShort checks if an error is an ExtractionTooShortError
func IsExtractionTooShort(err error) bool {
	var shortErr *ExtractionTooShortError
	return errors.As(err, &shortErr)
}

// IsAnchorNotFound checks if an error is an AnchorNotFoundError
func IsAnchorNotFound(err error) bool {
	var anchorErr *AnchorNotFoundError
	return errors.As(err, &anchorErr)
}

// IsBusy checks if an error is a BusyError
func IsBusy(err error) bool {
	var busyErr *BusyError
	return errors.As(err, &busyErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
