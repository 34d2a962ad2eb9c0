// Package errors provides sentinel errors and custom error types for remotepipe.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrRefNotFound indicates that the requested branch or ref does not exist
	// in the definition repository
	ErrRefNotFound = errors.New("ref not found")

	// ErrNoDefinitionSource indicates that a project has no definition source configured
	ErrNoDefinitionSource = errors.New("no definition source configured")

	// ErrNoBranchSpec indicates that a source descriptor names no branch to check out
	ErrNoBranchSpec = errors.New("source has no branch specification")

	// ErrUnsupportedSource indicates a source descriptor kind the collaborator cannot handle
	ErrUnsupportedSource = errors.New("unsupported source descriptor")

	// ErrDefinitionFileNotFound indicates that the checkout succeeded but the
	// definition file is missing from it
	ErrDefinitionFileNotFound = errors.New("definition file not found")

	// ErrScanInProgress indicates that another scan holds the project lock
	ErrScanInProgress = errors.New("scan already in progress")
)

// CheckoutErrorKind tags the class of a checkout failure. Only RefNotFound
// is recoverable by falling back to another branch.
type CheckoutErrorKind int

const (
	// KindUnknown is any failure that could not be classified
	KindUnknown CheckoutErrorKind = iota
	// KindRefNotFound means the branch does not exist in the remote
	KindRefNotFound
	// KindAuth means the remote rejected or required credentials
	KindAuth
	// KindNetwork means the remote could not be reached or does not exist
	KindNetwork
	// KindIO means a local read or write failed
	KindIO
)

func (k CheckoutErrorKind) String() string {
	switch k {
	case KindRefNotFound:
		return "ref not found"
	case KindAuth:
		return "authentication"
	case KindNetwork:
		return "network"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// CheckoutError represents a failed checkout of a definition source
type CheckoutError struct {
	Kind   CheckoutErrorKind
	URL    string
	Branch string
	Err    error
}

func (e *CheckoutError) Error() string {
	msg := "checkout failed"
	if e.Branch != "" {
		msg += fmt.Sprintf(" for branch %s", e.Branch)
	}
	if e.URL != "" {
		msg += fmt.Sprintf(" of %s", e.URL)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrRefNotFound and this error is of
// kind KindRefNotFound
func (e *CheckoutError) Is(target error) bool {
	return target == ErrRefNotFound && e.Kind == KindRefNotFound
}

// NewCheckoutError creates a new CheckoutError
func NewCheckoutError(kind CheckoutErrorKind, url, branch string, err error) *CheckoutError {
	return &CheckoutError{
		Kind:   kind,
		URL:    url,
		Branch: branch,
		Err:    err,
	}
}

// KindOf returns the checkout error kind carried by err, or KindUnknown
func KindOf(err error) CheckoutErrorKind {
	var checkoutErr *CheckoutError
	if errors.As(err, &checkoutErr) {
		return checkoutErr.Kind
	}
	if errors.Is(err, ErrRefNotFound) {
		return KindRefNotFound
	}
	return KindUnknown
}

// IsRefNotFound reports whether err is a "branch/ref not found" failure
func IsRefNotFound(err error) bool {
	return KindOf(err) == KindRefNotFound
}

// ConfigError represents an invalid or incomplete project configuration
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}
