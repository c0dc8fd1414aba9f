// Package errs defines the fatal error classes surfaced by the cracker.
//
// Every class is terminal: when one is returned the run stops without a
// result. An exhausted search that simply never finds the password is not
// an error and is reported through the run outcome instead.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel classes for fatal conditions. Callers match them with
// errors.Is to choose an exit path or log level.
var (
	// ErrConfiguration marks invalid or contradictory launch options,
	// such as zero attack modes or more than one.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrResource marks a missing or unreadable input, such as the
	// container file or a dictionary.
	ErrResource = errors.New("resource unavailable")

	// ErrFormat marks container bytes that do not parse as PKCS#12 DER.
	ErrFormat = errors.New("malformed container")

	// ErrPoolInit marks a worker pool that could not be constructed.
	ErrPoolInit = errors.New("worker pool initialization failed")
)

// Configuration builds an ErrConfiguration with a formatted detail message.
func Configuration(format string, args ...interface{}) error {
	return wrap(ErrConfiguration, format, args...)
}

// Resource builds an ErrResource with a formatted detail message.
func Resource(format string, args ...interface{}) error {
	return wrap(ErrResource, format, args...)
}

// Format builds an ErrFormat with a formatted detail message.
func Format(format string, args ...interface{}) error {
	return wrap(ErrFormat, format, args...)
}

// PoolInit builds an ErrPoolInit with a formatted detail message.
func PoolInit(format string, args ...interface{}) error {
	return wrap(ErrPoolInit, format, args...)
}

// wrap chains the class sentinel and the detail so that errors.Is matches
// both the class and any cause wrapped inside the detail message.
func wrap(class error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %w", class, fmt.Errorf(format, args...))
}
