package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cognee/cognee-cli/internal/resolve"
	"github.com/cognee/cognee-cli/pkg/cognee"
)

// HandleError renders err for a terminal, with a suggestion when the error
// kind has one.
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var apiErr *cognee.APIError
	var cfgErr *cognee.InvalidConfigurationError
	var ambiguous *resolve.AmbiguousError

	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintf(&msg, "Error: %s\n", err)
		fmt.Fprintf(&msg, "\nSuggestion: %s\n", cognee.KindInvalidConfiguration.Suggestion())

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "Error: %s\n", err)
		if apiErr.HasStatus() && apiErr.Body != "" && apiErr.Body != apiErr.Message {
			fmt.Fprintf(&msg, "Response: %s\n", truncate(apiErr.Body, 300))
		}
		fmt.Fprintf(&msg, "\nSuggestion: %s\n", apiErr.Kind.Suggestion())
		if apiErr.Request != nil && apiErr.Request.ID != "" {
			fmt.Fprintf(&msg, "Request ID: %s\n", apiErr.Request.ID)
		}

	case errors.As(err, &ambiguous):
		fmt.Fprintf(&msg, "Error: %s\n", err)
		msg.WriteString("\nSuggestion: pass the dataset id instead of a name\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err)
	}

	return msg.String()
}

// StructuredError is the JSON shape of a failed command.
type StructuredError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Status     int    `json:"status,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	Retryable  bool   `json:"retryable"`
	Suggestion string `json:"suggestion,omitempty"`
}

func structuredErrorFromError(err error) StructuredError {
	kind, known := cognee.KindOf(err)
	out := StructuredError{Code: "error", Message: err.Error()}
	if !known {
		return out
	}
	out.Code = kind.String()
	out.Retryable = kind.IsRetryable()
	out.Suggestion = kind.Suggestion()

	var apiErr *cognee.APIError
	if errors.As(err, &apiErr) {
		out.Status = apiErr.StatusCode
		if apiErr.Request != nil {
			out.RequestID = apiErr.Request.ID
		}
	}
	return out
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
