package cognee

import (
	"encoding/json"
	"errors"
	"net/http"
)

const defaultErrorMessage = "Request failed"

// Classify turns a terminal response into a decoded Value or a typed *APIError.
// It is pure: equal responses classify to equal results.
func Classify(resp *Response) (Value, error) {
	if resp == nil {
		return Value{}, &APIError{Kind: KindGeneric, Message: defaultErrorMessage + ": no response"}
	}
	if isFailureStatus(resp.StatusCode) {
		return Value{}, &APIError{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
			Body:       string(resp.Body),
			Request:    copyRequestInfo(resp.Request),
		}
	}
	return DecodeBody(resp.Body), nil
}

// ClassifyFault wraps an error raised while no response was available.
// Typed errors pass through unchanged.
func ClassifyFault(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var cfgErr *InvalidConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr
	}

	cause := err
	var info *RequestInfo
	var tErr *TransportError
	if errors.As(err, &tErr) {
		cause = tErr.Err
		info = &RequestInfo{Method: tErr.Method, URL: tErr.URL, Attempts: tErr.Attempts}
	}
	return &APIError{
		Kind:    KindGeneric,
		Message: defaultErrorMessage + ": " + cause.Error(),
		Request: info,
		Err:     err,
	}
}

// isFailureStatus treats 4xx, 5xx and anything outside 2xx/3xx as failure.
func isFailureStatus(code int) bool {
	return code < http.StatusOK || code >= http.StatusBadRequest
}

func kindForStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized:
		return KindAuthentication
	case code == http.StatusNotFound:
		return KindNotFound
	case code == http.StatusTooManyRequests:
		return KindRateLimit
	case code >= 400 && code < 500:
		return KindValidation
	case code >= 500:
		return KindServer
	default:
		return KindGeneric
	}
}

// errorMessage prefers the body's "message" field, then "error".
func errorMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return defaultErrorMessage
	}
	for _, key := range []string{"message", "error"} {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return string(raw)
	}
	return defaultErrorMessage
}

func copyRequestInfo(info *RequestInfo) *RequestInfo {
	if info == nil {
		return nil
	}
	c := *info
	return &c
}
