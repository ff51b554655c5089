package cognee

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindInvalidConfiguration
	KindAuthentication
	KindNotFound
	KindRateLimit
	KindValidation
	KindServer
)

// Sentinel errors matched by errors.Is against the typed errors below.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrAuthentication       = errors.New("authentication failed")
	ErrNotFound             = errors.New("resource not found")
	ErrRateLimited          = errors.New("rate limit exceeded")
	ErrValidation           = errors.New("request validation failed")
	ErrServer               = errors.New("server error")
	ErrRequestFailed        = errors.New("request failed")
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidConfiguration:
		return "invalid_configuration"
	case KindAuthentication:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindRateLimit:
		return "rate_limited"
	case KindValidation:
		return "validation_failed"
	case KindServer:
		return "server_error"
	default:
		return "request_failed"
	}
}

// IsRetryable reports whether a caller may reasonably retry the operation later.
// The transport has already spent its own retry budget by the time an error
// of this kind is returned.
func (k ErrorKind) IsRetryable() bool {
	return k == KindRateLimit || k == KindServer
}

// Suggestion returns a short hint for resolving the error.
func (k ErrorKind) Suggestion() string {
	switch k {
	case KindInvalidConfiguration:
		return "Check --base-url, --api-key, --timeout and --retries (or the matching COGNEE_* variables)"
	case KindAuthentication:
		return "Verify your API key with 'cognee auth save-key' or set COGNEE_API_KEY"
	case KindNotFound:
		return "Check the ID or name; list datasets with 'cognee datasets list'"
	case KindRateLimit:
		return "Wait a moment and retry, or lower bulk --concurrency"
	case KindValidation:
		return "Check the request parameters against the API documentation"
	case KindServer:
		return "The server failed to handle the request; retry later"
	default:
		return "Check network connectivity and the base URL"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidConfiguration:
		return ErrInvalidConfiguration
	case KindAuthentication:
		return ErrAuthentication
	case KindNotFound:
		return ErrNotFound
	case KindRateLimit:
		return ErrRateLimited
	case KindValidation:
		return ErrValidation
	case KindServer:
		return ErrServer
	default:
		return ErrRequestFailed
	}
}

// RequestInfo identifies the logical call an error or response belongs to.
type RequestInfo struct {
	Method   string
	URL      string
	ID       string
	Attempts int
}

// APIError is the typed result of a failed call: either the server answered
// with a failure status, or no response was obtained at all (StatusCode 0).
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Body       string
	Request    *RequestInfo
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *APIError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// HasStatus reports whether the error carries an HTTP status.
func (e *APIError) HasStatus() bool {
	return e.StatusCode != 0
}

// InvalidConfigurationError is returned when a Config cannot be constructed.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// TransportError reports that no response was obtained for a logical call,
// either because every attempt failed at the network level or because the
// caller's context ended.
type TransportError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Method, e.URL, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of the first typed error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var cfgErr *InvalidConfigurationError
	if errors.As(err, &cfgErr) {
		return KindInvalidConfiguration, true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return KindGeneric, false
}

// IsAuthenticationError checks if the error is a 401 response.
func IsAuthenticationError(err error) bool {
	return hasKind(err, KindAuthentication)
}

// IsNotFoundError checks if the error is a 404 response.
func IsNotFoundError(err error) bool {
	return hasKind(err, KindNotFound)
}

// IsRateLimitError checks if the error is a 429 response.
func IsRateLimitError(err error) bool {
	return hasKind(err, KindRateLimit)
}

// IsValidationError checks if the error is a 4xx response other than 401, 404 and 429.
func IsValidationError(err error) bool {
	return hasKind(err, KindValidation)
}

// IsServerError checks if the error is a 5xx response.
func IsServerError(err error) bool {
	return hasKind(err, KindServer)
}

// IsTransportError checks if the call failed without any response.
func IsTransportError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 0
	}
	var tErr *TransportError
	return errors.As(err, &tErr)
}

func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

func hasKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
