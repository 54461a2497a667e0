package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingProductImage = errors.New("missing product image")
	ErrInvalidEnumValue    = errors.New("invalid enum value")
	ErrInvalidImageCount   = errors.New("invalid image count")
	ErrInvalidImage        = errors.New("invalid image")
	ErrMissingCredential   = errors.New("backend credential not configured")
	ErrBackendStatus       = errors.New("backend returned non-success status")
	ErrBackendUnreachable  = errors.New("backend unreachable")
)

// ErrorKind classifies a gateway failure for the caller.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindConfiguration ErrorKind = "configuration"
	KindTransport     ErrorKind = "transport"
	KindBackend       ErrorKind = "backend"
)

// GatewayError is the failure arm of a generation outcome. Body carries the
// backend response text for server-side diagnostics only.
type GatewayError struct {
	Kind       ErrorKind
	Field      string
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Field, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Kind, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func ValidationError(field string, err error) *GatewayError {
	return &GatewayError{Kind: KindValidation, Field: field, Err: err}
}

func ConfigurationError(err error) *GatewayError {
	return &GatewayError{Kind: KindConfiguration, Err: err}
}

func TransportError(err error) *GatewayError {
	return &GatewayError{Kind: KindTransport, Err: fmt.Errorf("%w: %w", ErrBackendUnreachable, err)}
}

func BackendError(statusCode int, body string) *GatewayError {
	return &GatewayError{Kind: KindBackend, StatusCode: statusCode, Body: body, Err: ErrBackendStatus}
}

// KindOf reports the kind of a gateway failure, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ""
}
