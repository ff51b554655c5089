// Package validation checks user input before it is sent to the server.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Input length limits to prevent resource exhaustion
const (
	MaxNameLength    = 255
	MaxEmailLength   = 320      // RFC 5321: 64 chars (local) + 1 (@) + 255 (domain) = 320
	MaxQueryLength   = 10000    // search text
	MaxDataItemBytes = 10485760 // 10MB for one text item passed to add
)

// ValidateName checks a dataset, role or tenant name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}

	length := utf8.RuneCountInString(name)
	if length > MaxNameLength {
		return fmt.Errorf("name exceeds maximum length of %d characters (got %d)", MaxNameLength, length)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("name %q must not contain path separators", name)
	}

	return nil
}

// ValidateEmail checks that email is present, bounded and well formed.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email cannot be empty")
	}

	length := utf8.RuneCountInString(email)
	if length > MaxEmailLength {
		return fmt.Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, length)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	// Reject display-name forms such as "Ada <ada@example.com>".
	if addr.Address != strings.TrimSpace(email) {
		return fmt.Errorf("invalid email format: use a bare address")
	}
	return nil
}

// ValidateQuery checks search text.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	length := utf8.RuneCountInString(query)
	if length > MaxQueryLength {
		return fmt.Errorf("query exceeds maximum length of %d characters (got %d)", MaxQueryLength, length)
	}
	return nil
}

// ValidateDataItem checks one text item for the add endpoint.
func ValidateDataItem(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("data item cannot be empty")
	}

	// Use byte length as the content is transmitted as UTF-8
	length := len(content)
	if length > MaxDataItemBytes {
		return fmt.Errorf("data item exceeds maximum size of %d bytes (got %d)", MaxDataItemBytes, length)
	}

	return nil
}
