package errors

import (
	"errors"
	"fmt"
)

// Domain error types for the news pipeline

var (
	// ErrFetchFailed indicates a single source adapter failed to fetch or parse
	ErrFetchFailed = errors.New("source fetch failed")

	// ErrDataUnavailable indicates the price provider returned no usable rows
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrDeliveryFailed indicates the message transport rejected a send
	ErrDeliveryFailed = errors.New("delivery failed")

	// ErrConfigInvalid indicates missing or malformed startup configuration
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")
)

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
