package fetcher

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeNetwork indicates a transport failure or a non-success HTTP status
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeData indicates the response arrived but lacked the expected structure
	ErrorTypeData ErrorType = "data"
	// ErrorTypeUnknown indicates any other failure surfaced from the fetch pathway
	ErrorTypeUnknown ErrorType = "unknown"
)

// ErrEmptySymbol is returned when a blank ticker is requested.
var ErrEmptySymbol = errors.New("symbol is empty")

// FetchError represents a structured error from a fetch operation
type FetchError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error
func NewNetworkError(cause error) *FetchError {
	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled) {
		return NewTimeoutError(cause)
	}
	return &FetchError{
		Type:    ErrorTypeNetwork,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewTimeoutError creates a network error for a request abandoned by its context
func NewTimeoutError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNetwork,
		Message: "request timed out",
		Cause:   cause,
	}
}

// NewStatusError creates a network error for a non-success HTTP status
func NewStatusError(statusCode int, status string) *FetchError {
	return &FetchError{
		Type:       ErrorTypeNetwork,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("API request failed: %s", status),
	}
}

// NewDataError creates a data error
func NewDataError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeData,
		Message: message,
	}
}

// NewUnknownError wraps a failure that fits no other category
func NewUnknownError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeUnknown,
		Message: "unexpected failure",
		Cause:   cause,
	}
}

// ClassifyHTTPError classifies an HTTP status code into an appropriate FetchError.
// Success codes return nil.
func ClassifyHTTPError(statusCode int, status string) *FetchError {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if status == "" {
		status = fmt.Sprintf("HTTP %d", statusCode)
	}
	return NewStatusError(statusCode, status)
}

// TypeOf reports the category of err. Errors outside the taxonomy are unknown.
func TypeOf(err error) ErrorType {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Type
	}
	return ErrorTypeUnknown
}

// SymbolError ties a failure to the ticker it was raised for.
type SymbolError struct {
	Symbol string
	Cause  error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("failed to fetch data for %s: %v", e.Symbol, e.Cause)
}

func (e *SymbolError) Unwrap() error {
	return e.Cause
}
